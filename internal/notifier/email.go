package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/repositories"
)

const (
	// DefaultEndpoint is the Resend email API.
	DefaultEndpoint = "https://api.resend.com/emails"

	sendTimeout = 5 * time.Second
	queueSize   = 64
)

type emailJob struct {
	id      string
	to      string
	subject string
	text    string
}

// EmailNotifier delivers milestone emails through a Resend-style REST API.
// Notifications are queued to a worker goroutine so that callers never wait
// on the mail API; when the queue is full the notification is dropped and
// logged.
type EmailNotifier struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	users    *repositories.UserRepository
	logger   *slog.Logger
	queue    chan emailJob
	done     chan struct{}
}

func NewEmailNotifier(
	apiKey string,
	from string,
	endpoint string,
	users *repositories.UserRepository,
	logger *slog.Logger,
) *EmailNotifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &EmailNotifier{
		apiKey:   apiKey,
		from:     from,
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
		users:    users,
		logger:   logger.With("source", "EmailNotifier"),
		queue:    make(chan emailJob, queueSize),
		done:     make(chan struct{}),
	}
}

// Start consumes the queue until it is closed with Stop. Call in a goroutine.
func (n *EmailNotifier) Start() {
	defer close(n.done)
	for job := range n.queue {
		n.send(job)
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (n *EmailNotifier) Stop() {
	close(n.queue)
	<-n.done
}

// Notify resolves the recipient and queues the email. Users without an email
// address are skipped silently, matching the best-effort contract.
func (n *EmailNotifier) Notify(ctx context.Context, userID []byte, kind EventKind, payload any) error {
	if n.apiKey == "" {
		n.logger.LogAttrs(ctx, slog.LevelDebug, "email API key not configured, skipping email",
			slog.String("kind", string(kind)))
		return nil
	}

	user, err := n.users.Get(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "resolve notification recipient", slog.String("kind", string(kind)))
	}
	if user.Email == "" {
		return nil
	}

	subject, text, err := renderEmail(kind, payload)
	if err != nil {
		return err
	}

	job := emailJob{
		id:      uuid.NewString(),
		to:      user.Email,
		subject: subject,
		text:    text,
	}
	select {
	case n.queue <- job:
		return nil
	default:
		return errors.New("notification queue full",
			slog.String("kind", string(kind)), slog.String("notificationID", job.id))
	}
}

func renderEmail(kind EventKind, payload any) (subject string, text string, err error) {
	switch kind {
	case EventCaseSolved:
		solved, ok := payload.(CaseSolved)
		if !ok {
			return "", "", errors.New("unexpected payload type", slog.String("kind", string(kind)))
		}
		if solved.Result == "true" {
			subject = fmt.Sprintf("TRUE SOLUTION DISCOVERED: %s", solved.CaseTitle)
			text = fmt.Sprintf(
				"Congratulations, investigator. You have uncovered the true nature of %s in %d %s.",
				solved.CaseTitle, solved.Attempts, plural(solved.Attempts, "attempt", "attempts"))
		} else {
			subject = fmt.Sprintf("Case Solved: %s", solved.CaseTitle)
			text = fmt.Sprintf(
				"Case closed in %d %s. But the surface explanation may not tell the whole story...",
				solved.Attempts, plural(solved.Attempts, "attempt", "attempts"))
		}
		return subject, text, nil
	default:
		return "", "", errors.New("unknown event kind", slog.String("kind", string(kind)))
	}
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func (n *EmailNotifier) send(job emailJob) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"from":    n.from,
		"to":      []string{job.to},
		"subject": job.subject,
		"text":    job.text,
	})
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelError, "failed to marshal email", errors.SlogError(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelError, "failed to create email request", errors.SlogError(err))
		return
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", n.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelWarn, "failed to send email",
			slog.String("notificationID", job.id), errors.SlogError(err))
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			n.logger.LogAttrs(ctx, slog.LevelError, "failed to close response body", errors.SlogError(closeErr))
		}
	}()
	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.LogAttrs(ctx, slog.LevelWarn, "email API rejected request",
			slog.String("notificationID", job.id), slog.Int("status", resp.StatusCode))
		return
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "sent email",
		slog.String("notificationID", job.id), slog.String("subject", job.subject))
}
