package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/models"
	"github.com/myrjola/specter/internal/sqlite"
)

// CaseRepository is the content store: published cases with their evidence
// and ordered hints. Content is written only by the seeding CLI.
type CaseRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCaseRepository(dbs *sqlite.Database, logger *slog.Logger) *CaseRepository {
	return &CaseRepository{
		dbs:    dbs,
		logger: logger.With("source", "CaseRepository"),
	}
}

// GetBySlug returns the published case with the given slug or ErrNotFound.
func (r *CaseRepository) GetBySlug(ctx context.Context, slug string) (*models.Case, error) {
	var c models.Case
	stmt := `SELECT id, slug, title, case_number, tier, is_free, is_published, briefing, surface_solution, true_solution
	FROM cases
	WHERE slug = ? AND is_published = 1`
	if err := r.dbs.ReadOnly.GetContext(ctx, &c, stmt, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read case", slog.String("slug", slug))
	}
	return &c, nil
}

// List returns all published cases ordered by case number.
func (r *CaseRepository) List(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	stmt := `SELECT id, slug, title, case_number, tier, is_free, is_published, briefing, surface_solution, true_solution
	FROM cases
	WHERE is_published = 1
	ORDER BY case_number`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &cases, stmt); err != nil {
		return nil, errors.Wrap(err, "list cases")
	}
	return cases, nil
}

// Evidence returns the evidence items of a case ordered by sort_order.
func (r *CaseRepository) Evidence(ctx context.Context, caseID string) ([]models.EvidenceItem, error) {
	var evidence []models.EvidenceItem
	stmt := `SELECT id, case_id, title, type, content, image_path, sort_order
	FROM evidence
	WHERE case_id = ?
	ORDER BY sort_order`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &evidence, stmt, caseID); err != nil {
		return nil, errors.Wrap(err, "list evidence", slog.String("caseID", caseID))
	}
	return evidence, nil
}

// Hints returns the fixed ordered hint list of a case.
func (r *CaseRepository) Hints(ctx context.Context, caseID string) ([]string, error) {
	var hints []string
	stmt := `SELECT hint FROM hints WHERE case_id = ? ORDER BY sort_order`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &hints, stmt, caseID); err != nil {
		return nil, errors.Wrap(err, "list hints", slog.String("caseID", caseID))
	}
	return hints, nil
}

// Upsert writes a case with its evidence and hints in one transaction,
// replacing any previous evidence and hints for the case. Used by the seeding
// CLI only.
func (r *CaseRepository) Upsert(
	ctx context.Context,
	c models.Case,
	evidence []models.EvidenceItem,
	hints []string,
) error {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}()

	stmt := `INSERT INTO cases (id, slug, title, case_number, tier, is_free, is_published, briefing, surface_solution, true_solution)
	VALUES (:id, :slug, :title, :case_number, :tier, :is_free, :is_published, :briefing, :surface_solution, :true_solution)
	ON CONFLICT (slug) DO UPDATE SET
		title = excluded.title,
		case_number = excluded.case_number,
		tier = excluded.tier,
		is_free = excluded.is_free,
		is_published = excluded.is_published,
		briefing = excluded.briefing,
		surface_solution = excluded.surface_solution,
		true_solution = excluded.true_solution`
	if _, err = tx.NamedExecContext(ctx, stmt, c); err != nil {
		return errors.Wrap(err, "upsert case", slog.String("slug", c.Slug))
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM evidence WHERE case_id = ?`, c.ID); err != nil {
		return errors.Wrap(err, "delete old evidence")
	}
	for _, item := range evidence {
		stmt = `INSERT INTO evidence (id, case_id, title, type, content, image_path, sort_order)
		VALUES (:id, :case_id, :title, :type, :content, :image_path, :sort_order)`
		if _, err = tx.NamedExecContext(ctx, stmt, item); err != nil {
			return errors.Wrap(err, "insert evidence", slog.String("evidenceID", item.ID))
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM hints WHERE case_id = ?`, c.ID); err != nil {
		return errors.Wrap(err, "delete old hints")
	}
	for i, hint := range hints {
		stmt = `INSERT INTO hints (case_id, sort_order, hint) VALUES (?, ?, ?)`
		if _, err = tx.ExecContext(ctx, stmt, c.ID, i+1, hint); err != nil {
			return errors.Wrap(err, "insert hint", slog.Int("sortOrder", i+1))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
