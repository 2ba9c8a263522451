package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/models"
	"github.com/myrjola/specter/internal/sqlite"
)

// ProgressRepository persists the denormalized progress aggregate, one row per
// (user, case). Every write is conditional on the version the caller read so
// that concurrent read-modify-write cycles cannot silently lose updates.
type ProgressRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewProgressRepository(dbs *sqlite.Database, logger *slog.Logger) *ProgressRepository {
	return &ProgressRepository{
		dbs:    dbs,
		logger: logger.With("source", "ProgressRepository"),
	}
}

type progressRow struct {
	UserID      []byte  `db:"user_id"`
	CaseID      string  `db:"case_id"`
	StartedAt   string  `db:"started_at"`
	CompletedAt *string `db:"completed_at"`
	Notes       string  `db:"notes"`
	Version     int64   `db:"version"`
	UpdatedAt   string  `db:"updated_at"`
}

func (row progressRow) toRecord() (*models.ProgressRecord, error) {
	startedAt, err := time.Parse(time.RFC3339Nano, row.StartedAt)
	if err != nil {
		return nil, errors.Wrap(err, "parse started_at")
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "parse updated_at")
	}
	var completedAt *time.Time
	if row.CompletedAt != nil {
		parsed, parseErr := time.Parse(time.RFC3339Nano, *row.CompletedAt)
		if parseErr != nil {
			return nil, errors.Wrap(parseErr, "parse completed_at")
		}
		completedAt = &parsed
	}

	notes := models.NewProgressNotes()
	if err = json.Unmarshal([]byte(row.Notes), &notes); err != nil {
		return nil, errors.Wrap(err, "unmarshal progress notes")
	}
	if notes.Submissions == nil {
		notes.Submissions = []models.Submission{}
	}
	if notes.BestResult == "" {
		notes.BestResult = models.TheoryResultNone
	}

	return &models.ProgressRecord{
		UserID:      row.UserID,
		CaseID:      row.CaseID,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Notes:       notes,
		Version:     row.Version,
		UpdatedAt:   updatedAt,
	}, nil
}

// Get returns the progress record for (userID, caseID) or ErrNotFound.
func (r *ProgressRepository) Get(
	ctx context.Context,
	userID []byte,
	caseID string,
) (*models.ProgressRecord, error) {
	var row progressRow
	stmt := `SELECT user_id, case_id, started_at, completed_at, notes, version, updated_at
	FROM user_progress
	WHERE user_id = ? AND case_id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, userID, caseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read progress", slog.String("caseID", caseID))
	}
	return row.toRecord()
}

// Save persists the record. A record with Version zero is inserted; otherwise
// the write is conditional on the version the caller loaded and fails with
// ErrConflict when a concurrent writer got there first. On success the
// record's Version reflects the stored row.
func (r *ProgressRepository) Save(ctx context.Context, record *models.ProgressRecord) error {
	notes, err := json.Marshal(record.Notes)
	if err != nil {
		return errors.Wrap(err, "marshal progress notes")
	}

	var completedAt *string
	if record.CompletedAt != nil {
		formatted := record.CompletedAt.UTC().Format(time.RFC3339Nano)
		completedAt = &formatted
	}
	updatedAt := record.UpdatedAt.UTC().Format(time.RFC3339Nano)

	if record.Version == 0 {
		stmt := `INSERT INTO user_progress (user_id, case_id, started_at, completed_at, notes, version, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`
		if _, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
			record.UserID,
			record.CaseID,
			record.StartedAt.UTC().Format(time.RFC3339Nano),
			completedAt,
			string(notes),
			updatedAt,
		); err != nil {
			// A concurrent first interaction may have inserted the row already.
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				return ErrConflict
			}
			return errors.Wrap(err, "insert progress", slog.String("caseID", record.CaseID))
		}
		record.Version = 1
		return nil
	}

	stmt := `UPDATE user_progress
	SET completed_at = ?, notes = ?, version = version + 1, updated_at = ?
	WHERE user_id = ? AND case_id = ? AND version = ?`
	result, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		completedAt,
		string(notes),
		updatedAt,
		record.UserID,
		record.CaseID,
		record.Version,
	)
	if err != nil {
		return errors.Wrap(err, "update progress", slog.String("caseID", record.CaseID))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return ErrConflict
	}
	record.Version++
	return nil
}
