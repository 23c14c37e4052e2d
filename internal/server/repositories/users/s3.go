package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// s3API is the subset of the S3 client used by the repository. Tests
// substitute a fake.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Repository stores the whole collection as one JSON object in a bucket,
// the same document layout the file backend writes to disk.
type S3Repository struct {
	client s3API
	bucket string
	key    string
}

func NewS3Repository(client s3API, bucket, key string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, key: key}
}

// NewS3Client builds an S3 client for an S3-compatible backend (e.g. MinIO)
// using static credentials and a custom endpoint.
func NewS3Client(ctx context.Context, region, rootUser, rootPassword, baseEndpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(rootUser, rootPassword, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config error: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Load fetches the whole collection. An absent or unreadable object behaves
// like a first run and yields an empty store.
func (r *S3Repository) Load(ctx context.Context) ([]*models.User, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		return []*models.User{}, nil
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return []*models.User{}, nil
	}

	db := &database{}
	if err := json.Unmarshal(data, db); err != nil || db.Users == nil {
		return []*models.User{}, nil
	}

	return db.Users, nil
}

// Save overwrites the object with the given collection.
func (r *S3Repository) Save(ctx context.Context, users []*models.User) error {
	data, err := json.Marshal(&database{Users: users})
	if err != nil {
		return fmt.Errorf("error encoding database: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error writing database: %w", err)
	}

	return nil
}
