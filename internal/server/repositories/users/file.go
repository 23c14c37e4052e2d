package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// database is the persisted document layout, shared by the file and S3
// backends and compatible with the legacy database.json format.
type database struct {
	Users []*models.User `json:"users"`
}

// FileRepository persists the collection as a single JSON document on disk.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads the whole collection. A missing, unreadable, or corrupt file
// is treated as an empty store so a first run starts clean instead of
// failing.
func (r *FileRepository) Load(_ context.Context) ([]*models.User, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return []*models.User{}, nil
	}

	db := &database{}
	if err := json.Unmarshal(data, db); err != nil || db.Users == nil {
		return []*models.User{}, nil
	}

	return db.Users, nil
}

// Save overwrites the persisted state with the given collection.
func (r *FileRepository) Save(_ context.Context, users []*models.User) error {
	data, err := json.MarshalIndent(&database{Users: users}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding database: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("error writing database: %w", err)
	}

	return nil
}
