// Package notifier delivers best-effort milestone emails. Delivery is
// fire-and-forget: a failing or slow mail API must never block or fail the
// state mutation that triggered the notification.
package notifier

import (
	"context"
	"log/slog"
)

type EventKind string

const (
	// EventCaseSolved fires the first time a theory submission completes a case.
	EventCaseSolved EventKind = "case_solved"
)

// CaseSolved is the payload for EventCaseSolved.
type CaseSolved struct {
	CaseSlug  string
	CaseTitle string
	Result    string
	Attempts  int
}

// Notifier dispatches a notification for the given user. Implementations must
// not block on delivery; errors are advisory and safe to log and discard.
type Notifier interface {
	Notify(ctx context.Context, userID []byte, kind EventKind, payload any) error
}

// LogNotifier logs notifications instead of delivering them. Used in tests
// and when no mail API is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("source", "LogNotifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, _ []byte, kind EventKind, payload any) error {
	n.logger.LogAttrs(ctx, slog.LevelDebug, "notification",
		slog.String("kind", string(kind)), slog.Any("payload", payload))
	return nil
}
