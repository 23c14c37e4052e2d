// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, session
// token issuance, and account lookups.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// minPasswordLength is the shortest password accepted at registration.
const minPasswordLength = 6

// AuthResult bundles the account record an operation acted on with the
// session token minted for it.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService provides account-related operations:
// - Register: create an account and mint a session token
// - Login: verify credentials, update login stats, mint a session token
// - GetByID / List: account lookups for authenticated surfaces
type UserService struct {
	repo                  users.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using the record store and server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account for the given name, email, and plaintext
// password. Validation failures surface as common.ErrorMissingFields or
// common.ErrorPasswordTooShort, a taken email as common.ErrorAlreadyExists.
// On success the stored record and a fresh session token are returned.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, common.ErrorMissingFields
	}
	if len(password) < minPasswordLength {
		return nil, common.ErrorPasswordTooShort
	}

	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	for _, u := range list {
		if u.Email == email {
			return nil, common.ErrorAlreadyExists
		}
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    time.Now().UTC(),
	}

	list = append(list, user)
	if err := s.repo.Save(ctx, list); err != nil {
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the email/password pair and, on success, records the login
// (LastLogin, LoginCount) and returns the record with a new session token.
// An unknown email and a wrong password both yield common.ErrorUnauthorized;
// neither mutates stored state.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, common.ErrorMissingFields
	}

	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	for _, u := range list {
		if u.Email == email {
			user = u
			break
		}
	}
	if user == nil {
		return nil, common.ErrorUnauthorized
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	user.LoginCount++
	if err := s.repo.Save(ctx, list); err != nil {
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetByID returns the account with the given ID or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", common.ErrorInternal)
	}
	for _, u := range list {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// List returns every stored account record.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}
