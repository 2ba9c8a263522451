package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/models"
	"github.com/myrjola/specter/internal/sqlite"
)

type UserRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewUserRepository(dbs *sqlite.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		dbs:    dbs,
		logger: logger.With("source", "UserRepository"),
	}
}

// Upsert persists the user, updating the profile fields if the handle exists.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	stmt := `INSERT INTO users (id, display_name, email) VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name, email = excluded.email`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, user.ID, user.DisplayName, user.Email); err != nil {
		return errors.Wrap(err, "upsert user")
	}
	return nil
}

// Get returns the user with the given handle or ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id []byte) (*models.User, error) {
	var user models.User
	stmt := `SELECT id, display_name, email FROM users WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &user, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read user")
	}
	return &user, nil
}

// Exists reports whether a user with the given handle exists.
func (r *UserRepository) Exists(ctx context.Context, id []byte) (bool, error) {
	var count int
	stmt := `SELECT COUNT(*) FROM users WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &count, stmt, id); err != nil {
		return false, errors.Wrap(err, "read user")
	}
	return count > 0, nil
}
