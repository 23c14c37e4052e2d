package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepository keeps the records in a users table while preserving
// the record-store contract: Load returns every row, Save replaces all of
// them inside a single transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenDatabase opens a pgx-backed handle and applies pending schema
// migrations embedded in the binary.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return db, nil
}

func (r *PostgresRepository) Load(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, name, email, password_hash, created_at, last_login, login_count
		 FROM users
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
			&user.CreatedAt, &user.LastLogin, &user.LoginCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Save(ctx context.Context, users []*models.User) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		query :=
			`INSERT INTO users (id, name, email, password_hash, created_at, last_login, login_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 `

		for _, user := range users {
			if _, err := tx.ExecContext(ctx, query, user.ID, user.Name, user.Email,
				user.PasswordHash, user.CreatedAt, user.LastLogin, user.LoginCount); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}

		return nil
	})
}
