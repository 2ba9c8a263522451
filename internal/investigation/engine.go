package investigation

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/models"
	"github.com/myrjola/specter/internal/notifier"
	"github.com/myrjola/specter/internal/repositories"
)

var (
	// ErrCaseNotFound signals an unknown or unpublished case slug.
	ErrCaseNotFound = errors.NewSentinel("case not found")
	// ErrAccessDenied signals a paid case without an entitlement.
	ErrAccessDenied = errors.NewSentinel("access denied")
	// ErrTheoryTooShort signals a theory under the minimum length. Nothing is
	// recorded and no attempt is counted.
	ErrTheoryTooShort = errors.NewSentinel("theory must be at least 20 characters")
	// ErrHintsExhausted signals a reveal with no hints remaining. The counter
	// is unchanged.
	ErrHintsExhausted = errors.NewSentinel("no more hints available")
	// ErrUnknownEvidence signals an evidence id that does not belong to the case.
	ErrUnknownEvidence = errors.NewSentinel("unknown evidence")
)

const (
	theoryMinLength       = 20
	theoryStoredMaxLength = 500
	// maxSaveAttempts bounds the reload-and-retry loop on version conflicts.
	maxSaveAttempts = 5
)

// Engine is the per-(user, case) progress controller. Every mutation loads
// the progress aggregate, applies exactly one change, and writes the whole
// record back conditionally on the version it read, retrying on conflict so
// concurrent requests cannot lose updates.
type Engine struct {
	cases    *repositories.CaseRepository
	progress *repositories.ProgressRepository
	gate     *AccessGate
	notifier notifier.Notifier
	logger   *slog.Logger
}

func NewEngine(
	cases *repositories.CaseRepository,
	progress *repositories.ProgressRepository,
	gate *AccessGate,
	n notifier.Notifier,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		cases:    cases,
		progress: progress,
		gate:     gate,
		notifier: n,
		logger:   logger.With("source", "Engine"),
	}
}

// TheoryOutcome is the caller-visible result of a theory submission.
type TheoryOutcome struct {
	Result models.TheoryResult
	// Feedback is the fixed response template for the result.
	Feedback string
	// RevealedSolution holds the canonical text of the matched solution
	// layer, nil for an incorrect theory. Never both layers.
	RevealedSolution *string
	Attempts         int
	BestResult       models.TheoryResult
}

// HintState describes the hints revealed so far.
type HintState struct {
	HintsRevealed int
	TotalHints    int
	Hints         []string
	// NewHint is the hint revealed by this call, empty for reads.
	NewHint      string
	HasMoreHints bool
}

// EvidenceMark echoes the stored annotation state for one evidence item.
type EvidenceMark struct {
	EvidenceID string
	Reviewed   bool
	Note       string
}

// ProgressSummary is the read-only projection of a progress record. Evidence
// notes and hints have their own read paths.
type ProgressSummary struct {
	StartedAt     time.Time
	CompletedAt   *time.Time
	BestResult    models.TheoryResult
	TotalAttempts int
	Submissions   []models.Submission
}

// resolveCase looks up a published case without consulting the access gate.
func (e *Engine) resolveCase(ctx context.Context, slug string) (*models.Case, error) {
	c, err := e.cases.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, errors.Wrap(err, "resolve case", slog.String("slug", slug))
	}
	return c, nil
}

// loadAccessibleCase resolves the case and enforces the access gate.
func (e *Engine) loadAccessibleCase(ctx context.Context, userID []byte, slug string) (*models.Case, error) {
	c, err := e.resolveCase(ctx, slug)
	if err != nil {
		return nil, err
	}
	canAccess, err := e.gate.CanAccess(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	if !canAccess {
		return nil, ErrAccessDenied
	}
	return c, nil
}

// mutateProgress runs one read-modify-write cycle against the progress
// aggregate for (userID, caseID), creating the record on first interaction.
// On a version conflict the whole cycle reruns against a fresh load, so the
// mutate function must derive everything from the record it is given. An
// error from mutate aborts without persisting anything.
func (e *Engine) mutateProgress(
	ctx context.Context,
	userID []byte,
	caseID string,
	mutate func(record *models.ProgressRecord) error,
) (*models.ProgressRecord, error) {
	var err error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		var record *models.ProgressRecord
		record, err = e.progress.Get(ctx, userID, caseID)
		if errors.Is(err, repositories.ErrNotFound) {
			record = models.NewProgressRecord(userID, caseID, time.Now().UTC())
		} else if err != nil {
			return nil, err
		}

		if err = mutate(record); err != nil {
			return nil, err
		}
		record.UpdatedAt = time.Now().UTC()

		if err = e.progress.Save(ctx, record); err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				continue
			}
			return nil, err
		}
		return record, nil
	}
	return nil, errors.Wrap(err, "save progress after retries",
		slog.String("caseID", caseID), slog.Int("attempts", maxSaveAttempts))
}

// SubmitTheory classifies the theory against the case's solutions and records
// the attempt. The best result never downgrades, completion time is set once,
// and a milestone notification fires on first completion after the mutation
// has persisted.
func (e *Engine) SubmitTheory(
	ctx context.Context,
	userID []byte,
	slug string,
	theory string,
) (*TheoryOutcome, error) {
	trimmed := strings.TrimSpace(theory)
	if utf8.RuneCountInString(trimmed) < theoryMinLength {
		return nil, ErrTheoryTooShort
	}

	c, err := e.loadAccessibleCase(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	classification := Classify(trimmed, c.SurfaceSolution, c.TrueSolution)

	firstCompletion := false
	record, err := e.mutateProgress(ctx, userID, c.ID, func(record *models.ProgressRecord) error {
		now := time.Now().UTC()
		attempt := record.Notes.TotalAttempts + 1
		record.Notes.Submissions = append(record.Notes.Submissions, models.Submission{
			Theory:      truncate(trimmed, theoryStoredMaxLength),
			SubmittedAt: now,
			Result:      classification.Result,
			Attempt:     attempt,
		})
		record.Notes.TotalAttempts = attempt
		if classification.Result.BetterThan(record.Notes.BestResult) {
			record.Notes.BestResult = classification.Result
		}
		firstCompletion = false
		if classification.Result != models.TheoryResultIncorrect && record.CompletedAt == nil {
			record.CompletedAt = &now
			firstCompletion = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if firstCompletion {
		if notifyErr := e.notifier.Notify(ctx, userID, notifier.EventCaseSolved, notifier.CaseSolved{
			CaseSlug:  c.Slug,
			CaseTitle: c.Title,
			Result:    string(classification.Result),
			Attempts:  record.Notes.TotalAttempts,
		}); notifyErr != nil {
			// Notification failures never affect the completed mutation.
			e.logger.LogAttrs(ctx, slog.LevelWarn, "failed to dispatch notification",
				errors.SlogError(notifyErr))
		}
	}

	outcome := TheoryOutcome{
		Result:     classification.Result,
		Feedback:   Feedback(classification.Result),
		Attempts:   record.Notes.TotalAttempts,
		BestResult: record.Notes.BestResult,
	}
	switch classification.Result {
	case models.TheoryResultTrue:
		outcome.RevealedSolution = &c.TrueSolution
	case models.TheoryResultSurface:
		outcome.RevealedSolution = &c.SurfaceSolution
	}
	return &outcome, nil
}

// Hints returns the hints revealed so far without revealing a new one. It
// never creates a progress record.
func (e *Engine) Hints(ctx context.Context, userID []byte, slug string) (*HintState, error) {
	c, err := e.loadAccessibleCase(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	hints, err := e.cases.Hints(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	revealed := 0
	record, err := e.progress.Get(ctx, userID, c.ID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if record != nil {
		revealed = record.Notes.HintsRevealed
	}
	if revealed > len(hints) {
		revealed = len(hints)
	}

	return &HintState{
		HintsRevealed: revealed,
		TotalHints:    len(hints),
		Hints:         hints[:revealed],
		HasMoreHints:  revealed < len(hints),
	}, nil
}

// RevealNextHint advances the hint counter by exactly one in the case's fixed
// hint order, or fails with ErrHintsExhausted leaving the counter unchanged.
func (e *Engine) RevealNextHint(ctx context.Context, userID []byte, slug string) (*HintState, error) {
	c, err := e.loadAccessibleCase(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	hints, err := e.cases.Hints(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	total := len(hints)

	record, err := e.mutateProgress(ctx, userID, c.ID, func(record *models.ProgressRecord) error {
		if record.Notes.HintsRevealed >= total {
			return ErrHintsExhausted
		}
		record.Notes.HintsRevealed++
		return nil
	})
	if err != nil {
		return nil, err
	}

	revealed := record.Notes.HintsRevealed
	return &HintState{
		HintsRevealed: revealed,
		TotalHints:    total,
		Hints:         hints[:revealed],
		NewHint:       hints[revealed-1],
		HasMoreHints:  revealed < total,
	}, nil
}

// MarkEvidence upserts the user's annotation for one evidence item. This path
// has no monotonicity constraints: reviewed may toggle back off and notes may
// be overwritten freely.
func (e *Engine) MarkEvidence(
	ctx context.Context,
	userID []byte,
	slug string,
	evidenceID string,
	reviewed bool,
	note string,
) (*EvidenceMark, error) {
	c, err := e.loadAccessibleCase(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	evidence, err := e.cases.Evidence(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	known := false
	for _, item := range evidence {
		if item.ID == evidenceID {
			known = true
			break
		}
	}
	if !known {
		return nil, ErrUnknownEvidence
	}

	_, err = e.mutateProgress(ctx, userID, c.ID, func(record *models.ProgressRecord) error {
		if record.Notes.EvidenceNotes == nil {
			record.Notes.EvidenceNotes = map[string]models.EvidenceNote{}
		}
		record.Notes.EvidenceNotes[evidenceID] = models.EvidenceNote{
			Reviewed:   reviewed,
			Note:       note,
			ReviewedAt: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &EvidenceMark{
		EvidenceID: evidenceID,
		Reviewed:   reviewed,
		Note:       note,
	}, nil
}

// Evidence returns the case's evidence list in sort order, behind the access
// gate.
func (e *Engine) Evidence(ctx context.Context, userID []byte, slug string) ([]models.EvidenceItem, error) {
	c, err := e.loadAccessibleCase(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	return e.cases.Evidence(ctx, c.ID)
}

// EvidenceNotes returns the user's annotations keyed by evidence id.
func (e *Engine) EvidenceNotes(
	ctx context.Context,
	userID []byte,
	slug string,
) (map[string]models.EvidenceNote, error) {
	c, err := e.loadAccessibleCase(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	record, err := e.progress.Get(ctx, userID, c.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return map[string]models.EvidenceNote{}, nil
	}
	if err != nil {
		return nil, err
	}
	if record.Notes.EvidenceNotes == nil {
		return map[string]models.EvidenceNote{}, nil
	}
	return record.Notes.EvidenceNotes, nil
}

// Progress returns the read-only summary for (user, case), or nil when the
// user has not interacted with the case yet. It never creates a record.
func (e *Engine) Progress(ctx context.Context, userID []byte, slug string) (*ProgressSummary, error) {
	c, err := e.resolveCase(ctx, slug)
	if err != nil {
		return nil, err
	}
	record, err := e.progress.Get(ctx, userID, c.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{
		StartedAt:     record.StartedAt,
		CompletedAt:   record.CompletedAt,
		BestResult:    record.Notes.BestResult,
		TotalAttempts: record.Notes.TotalAttempts,
		Submissions:   record.Notes.Submissions,
	}, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
