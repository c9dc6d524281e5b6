package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/yuin/goldmark"

	"github.com/myrjola/liftcalc/internal/calculator"
	"github.com/myrjola/liftcalc/internal/envstruct"
	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/flightrecorder"
	"github.com/myrjola/liftcalc/internal/logging"
	"github.com/myrjola/liftcalc/internal/progression"
	"github.com/myrjola/liftcalc/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	templateFS     fs.FS
	markdown       goldmark.Markdown
	calculator     *calculator.Service
	now            func() time.Time
	// flightRecorder is nil unless a traces directory is configured.
	flightRecorder *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"LIFTCALC_ADDR" envDefault:"localhost:8082"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"LIFTCALC_SQLITE_URL" envDefault:"./liftcalc.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"LIFTCALC_TEMPLATE_PATH" envDefault:""`
	// SchemesPath is an optional YAML file with progression schemes added to the built-in ones.
	SchemesPath string `env:"LIFTCALC_SCHEMES_PATH" envDefault:""`
	// CacheBytes caps the memory used for memoized progressions.
	CacheBytes int `env:"LIFTCALC_CACHE_BYTES" envDefault:"1048576"`
	// SessionLifetime is how long the calculator form is remembered.
	SessionLifetime time.Duration `env:"LIFTCALC_SESSION_LIFETIME" envDefault:"720h"`
	// TracesDirectory enables the flight recorder. Execution traces of timed out requests are written there.
	TracesDirectory string `env:"LIFTCALC_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	var registry progression.Registry
	if registry, err = progression.LoadRegistry(cfg.SchemesPath); err != nil {
		return errors.Wrap(err, "load progression schemes")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded progression schemes", slog.Any("ids", registry.IDs()))

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.WithoutCancel(ctx), slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db, cfg.SessionLifetime),
		templateFS:     os.DirFS(htmlTemplatePath),
		markdown:       goldmark.New(),
		calculator:     calculator.NewService(db, logger, registry, progression.NewCache(cfg.CacheBytes)),
		now:            time.Now,
		flightRecorder: nil,
	}

	if cfg.TracesDirectory != "" {
		if app.flightRecorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:    logger,
			Directory: cfg.TracesDirectory,
			MinAge:    0,
			MaxBytes:  0,
			Cooldown:  0,
		}); err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = app.flightRecorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.flightRecorder.Stop(context.WithoutCancel(ctx))
	}

	var handler http.Handler
	if handler, err = app.routes(); err != nil {
		return errors.Wrap(err, "setup routes")
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database, lifetime time.Duration) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = lifetime
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
