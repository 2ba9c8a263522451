package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/specter/internal/casebundle"
	"github.com/myrjola/specter/internal/envstruct"
	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/investigation"
	"github.com/myrjola/specter/internal/logging"
	"github.com/myrjola/specter/internal/notifier"
	"github.com/myrjola/specter/internal/pprofserver"
	"github.com/myrjola/specter/internal/repositories"
	"github.com/myrjola/specter/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	users          *repositories.UserRepository
	cases          *repositories.CaseRepository
	engine         *investigation.Engine
}

type config struct {
	// Addr is the address to listen on. Port 0 picks a random free port.
	Addr string `env:"SPECTER_ADDR" envDefault:"localhost:4000"`
	// PprofPort is the port for the localhost pprof server. Empty disables it.
	PprofPort string `env:"SPECTER_PPROF_PORT" envDefault:""`
	// SqliteURL is the path to the SQLite database file or ":memory:".
	SqliteURL string `env:"SPECTER_SQLITE_URL" envDefault:"./specter.sqlite"`
	// ResendAPIKey authenticates to the Resend email API. Empty disables
	// milestone emails.
	ResendAPIKey string `env:"SPECTER_RESEND_API_KEY" envDefault:""`
	EmailFrom    string `env:"SPECTER_EMAIL_FROM" envDefault:"SPECTER <notifications@specter.invalid>"`
	// CaseBundle is an optional JSON bundle seeded into the content store on
	// startup. Usually seeding happens through the CLI instead.
	CaseBundle string `env:"SPECTER_CASE_BUNDLE" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}

	// pprof listens on localhost only so that it's not open to the world.
	if cfg.PprofPort != "" {
		pprofserver.Launch(cfg.PprofPort, logger)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()
	go db.StartDatabaseOptimizer(ctx)

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	users := repositories.NewUserRepository(db, logger)
	cases := repositories.NewCaseRepository(db, logger)
	entitlements := repositories.NewEntitlementRepository(db, logger)
	progress := repositories.NewProgressRepository(db, logger)

	var milestones notifier.Notifier
	if cfg.ResendAPIKey != "" {
		emailNotifier := notifier.NewEmailNotifier(cfg.ResendAPIKey, cfg.EmailFrom, notifier.DefaultEndpoint, users, logger)
		go emailNotifier.Start()
		defer emailNotifier.Stop()
		milestones = emailNotifier
	} else {
		milestones = notifier.NewLogNotifier(logger)
	}

	engine := investigation.NewEngine(cases, progress, investigation.NewAccessGate(entitlements), milestones, logger)

	if cfg.CaseBundle != "" {
		bundle, loadErr := casebundle.Load(cfg.CaseBundle)
		if loadErr != nil {
			return errors.Wrap(loadErr, "load case bundle")
		}
		if err = casebundle.Apply(ctx, bundle, cases); err != nil {
			return errors.Wrap(err, "seed case bundle")
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "seeded case bundle",
			slog.String("path", cfg.CaseBundle), slog.Int("cases", len(bundle.Cases)))
	}

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		users:          users,
		cases:          cases,
		engine:         engine,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server error", errors.SlogError(err))
		os.Exit(1)
	}
}
