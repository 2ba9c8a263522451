package repositories

import (
	"github.com/myrjola/specter/internal/errors"
)

var (
	// ErrNotFound signals that the requested row does not exist.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrConflict signals that a conditional write lost a race against a
	// concurrent writer. The caller should reload and retry.
	ErrConflict = errors.NewSentinel("version conflict")
)
