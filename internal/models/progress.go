package models

import (
	"time"
)

// TheoryResult classifies a theory submission. Submissions score surface,
// true, or incorrect; the aggregated best result may additionally be none.
type TheoryResult string

const (
	TheoryResultNone      TheoryResult = "none"
	TheoryResultIncorrect TheoryResult = "incorrect"
	TheoryResultSurface   TheoryResult = "surface"
	TheoryResultTrue      TheoryResult = "true"
)

// rank orders results along none < surface < true. Incorrect ranks with none
// so it can never improve the best result.
func (r TheoryResult) rank() int {
	switch r {
	case TheoryResultSurface:
		return 1
	case TheoryResultTrue:
		return 2
	default:
		return 0
	}
}

// BetterThan reports whether r outranks other along none < surface < true.
func (r TheoryResult) BetterThan(other TheoryResult) bool {
	return r.rank() > other.rank()
}

// Submission is one theory attempt recorded in the progress history.
type Submission struct {
	Theory      string       `json:"theory"`
	SubmittedAt time.Time    `json:"submittedAt"`
	Result      TheoryResult `json:"result"`
	Attempt     int          `json:"attempts"`
}

// EvidenceNote is the user-authored annotation state for one evidence item.
// Unlike the rest of the aggregate it has no monotonicity constraints.
type EvidenceNote struct {
	Reviewed   bool      `json:"reviewed"`
	Note       string    `json:"note"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// ProgressNotes is the denormalized state aggregate stored as a single JSON
// blob on the progress row. The field names are part of the storage format.
type ProgressNotes struct {
	Submissions   []Submission            `json:"submissions"`
	BestResult    TheoryResult            `json:"bestResult"`
	TotalAttempts int                     `json:"totalAttempts"`
	EvidenceNotes map[string]EvidenceNote `json:"evidenceNotes,omitempty"`
	HintsRevealed int                     `json:"hintsRevealed,omitempty"`
}

// NewProgressNotes returns the empty aggregate for a record created on first
// interaction.
func NewProgressNotes() ProgressNotes {
	return ProgressNotes{
		Submissions:   []Submission{},
		BestResult:    TheoryResultNone,
		TotalAttempts: 0,
	}
}

// ProgressRecord is the per-(user, case) mutable state aggregate. It is
// created lazily on first mutation and never deleted.
type ProgressRecord struct {
	UserID      []byte
	CaseID      string
	StartedAt   time.Time
	CompletedAt *time.Time
	Notes       ProgressNotes
	// Version is the optimistic-concurrency token. Zero means the record has
	// not been persisted yet.
	Version   int64
	UpdatedAt time.Time
}

// NewProgressRecord creates an unpersisted record for the first interaction of
// a (user, case) pair.
func NewProgressRecord(userID []byte, caseID string, now time.Time) *ProgressRecord {
	return &ProgressRecord{
		UserID:    userID,
		CaseID:    caseID,
		StartedAt: now,
		Notes:     NewProgressNotes(),
		UpdatedAt: now,
	}
}
