// Package users contains the record store for account records and its
// storage backends (JSON file, PostgreSQL, S3).
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository is the record store. The whole user collection moves as one
// unit: Load returns every record, Save overwrites the entire persisted
// state. Callers perform read-modify-write; there is no field-level update.
//
// Nothing serializes concurrent save cycles, so two overlapping
// read-modify-write sequences can lose one of the updates (last write
// wins). That is an accepted limitation of this single-node service.
type Repository interface {
	Load(ctx context.Context) ([]*models.User, error)
	Save(ctx context.Context, users []*models.User) error
}
