package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCaseBundle = `{
  "cases": [
    {
      "slug": "static",
      "title": "The Static House",
      "caseNumber": "SPECTER-001",
      "tier": "restricted",
      "isFree": true,
      "isPublished": true,
      "briefing": "A family reports electrical interference and apparitions in a house vacant for eleven years.",
      "surfaceSolution": "The haunting was staged interference from faulty wiring amplified by neighborhood rumors.",
      "trueSolution": "Margaret Holloway never disappeared. Her remains were sealed behind the upstairs hallway walls during the renovation.",
      "evidence": [
        {"title": "Property records", "type": "document", "content": "The house transferred ownership in 2013 and has been vacant since."},
        {"title": "Thermal imaging report", "type": "report", "content": "Cold spots concentrate along the upstairs hallway wall."}
      ],
      "hints": [
        "Pay close attention to the property records. Why was the house vacant for 11 years?",
        "The thermal imaging shows cold spots in the upstairs hallway. What could cause a localized temperature anomaly?",
        "Margaret Holloway's disappearance and the 'renovation' mentioned by her husband may be connected.",
        "Sometimes what appears to be a haunting is actually evidence of something more sinister. Consider who benefits from the 'ghost' explanation.",
        "The true solution lies behind the walls. Literally."
      ]
    },
    {
      "slug": "echoes",
      "title": "Echoes of Blackwood",
      "caseNumber": "SPECTER-002",
      "tier": "classified",
      "isFree": false,
      "isPublished": true,
      "briefing": "A recording recovered from Blackwood Sanitarium contains a voice matching a man born decades later.",
      "surfaceSolution": "The recording was tampered with using modern equipment.",
      "trueSolution": "Marcus Chen inherited implanted memories from experiments conducted on his mother.",
      "evidence": [
        {"title": "Declassified memo", "type": "document", "content": "Offspring may inherit implanted memories."}
      ],
      "hints": ["Check the birth certificate.", "Chen was born on the same day his mother died."]
    }
  ]
}`

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{}
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

// startTestServer starts the server with an in-memory database and seeded test
// cases, waits for it to be ready, and returns the server URL.
func startTestServer(t *testing.T, w io.Writer) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bundlePath := filepath.Join(t.TempDir(), "cases.json")
	require.NoError(t, os.WriteFile(bundlePath, []byte(testCaseBundle), 0o600))

	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "SPECTER_ADDR":
			return "localhost:0", true
		case "SPECTER_SQLITE_URL":
			return ":memory:", true
		case "SPECTER_CASE_BUNDLE":
			return bundlePath, true
		default:
			return "", false
		}
	}

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "addr" {
				select {
				case addrCh <- a.Value.String():
				default:
				}
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return ""
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		if err := waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)); err != nil {
			require.NoError(t, err)
		}
		return serverURL
	}
}

// newTestClient returns a cookie-aware HTTP client.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}
