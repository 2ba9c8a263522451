package investigation_test

import (
	"context"
	"io"
	"sync"
	"testing"

	_ "embed"

	"github.com/myrjola/specter/internal/investigation"
	"github.com/myrjola/specter/internal/notifier"
	"github.com/myrjola/specter/internal/repositories"
	"github.com/myrjola/specter/internal/sqlite"
	"github.com/myrjola/specter/internal/testhelpers"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifier.CaseSolved
}

func (n *recordingNotifier) Notify(_ context.Context, _ []byte, _ notifier.EventKind, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if solved, ok := payload.(notifier.CaseSolved); ok {
		n.events = append(n.events, solved)
	}
	return nil
}

func (n *recordingNotifier) recorded() []notifier.CaseSolved {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifier.CaseSolved(nil), n.events...)
}

type testEngine struct {
	engine       *investigation.Engine
	progress     *repositories.ProgressRepository
	entitlements *repositories.EntitlementRepository
	notifier     *recordingNotifier
}

// newTestEngine wires an engine against an in-memory database with test
// fixtures.
func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	logger := testhelpers.NewLogger(io.Discard)
	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", logger)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = dbs.ReadWrite.Exec(testFixtures); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err = dbs.Close(); err != nil {
			t.Fatal(err)
		}
	})

	cases := repositories.NewCaseRepository(dbs, logger)
	progress := repositories.NewProgressRepository(dbs, logger)
	entitlements := repositories.NewEntitlementRepository(dbs, logger)
	recording := &recordingNotifier{}

	return &testEngine{
		engine: investigation.NewEngine(
			cases,
			progress,
			investigation.NewAccessGate(entitlements),
			recording,
			logger,
		),
		progress:     progress,
		entitlements: entitlements,
		notifier:     recording,
	}
}
