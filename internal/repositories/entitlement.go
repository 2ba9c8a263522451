package repositories

import (
	"context"
	"log/slog"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/sqlite"
)

// EntitlementRepository is the local projection of the commerce gateway: one
// row per (user, case) grant. Grants arrive asynchronously, so callers must
// read fresh on every request instead of caching.
type EntitlementRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewEntitlementRepository(dbs *sqlite.Database, logger *slog.Logger) *EntitlementRepository {
	return &EntitlementRepository{
		dbs:    dbs,
		logger: logger.With("source", "EntitlementRepository"),
	}
}

// Has reports whether the user holds an entitlement for the case.
func (r *EntitlementRepository) Has(ctx context.Context, userID []byte, caseID string) (bool, error) {
	var count int
	stmt := `SELECT COUNT(*) FROM entitlements WHERE user_id = ? AND case_id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &count, stmt, userID, caseID); err != nil {
		return false, errors.Wrap(err, "read entitlement", slog.String("caseID", caseID))
	}
	return count > 0, nil
}

// Grant records an entitlement. Granting twice is a no-op.
func (r *EntitlementRepository) Grant(ctx context.Context, userID []byte, caseID string) error {
	stmt := `INSERT INTO entitlements (user_id, case_id) VALUES (?, ?)
	ON CONFLICT (user_id, case_id) DO NOTHING`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, userID, caseID); err != nil {
		return errors.Wrap(err, "insert entitlement", slog.String("caseID", caseID))
	}
	return nil
}
