package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingodrift-api/internal/config"
	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/platform/gemini"
	"github.com/phrazzld/lingodrift-api/internal/platform/postgres"
	"github.com/phrazzld/lingodrift-api/internal/service"
	"github.com/phrazzld/lingodrift-api/internal/service/auth"
)

// application holds the shared dependencies of a running server so they
// can be released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accounts service.AccountService
	exams    service.ExamService
	attempts service.AttemptService
	drafts   generation.ExamDraftGenerator
}

// newApplication connects to the database and builds every store and
// service. The returned application owns the connection pool.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app := &application{config: cfg, logger: logger, db: db}
	if err := app.init(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

func (app *application) init(ctx context.Context) error {
	cfg := app.config
	logger := app.logger

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, app.db, "up", logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	users := postgres.NewPostgresUserStore(app.db, logger)
	exams := postgres.NewPostgresExamStore(app.db, logger)
	attempts := postgres.NewPostgresAttemptStore(app.db, logger)

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.accounts, err = service.NewAccountService(users, auth.NewBcryptHasher(cfg.Auth.BCryptCost), tokens, logger)
	if err != nil {
		return fmt.Errorf("failed to create account service: %w", err)
	}

	app.exams, err = service.NewExamService(exams, app.db, logger)
	if err != nil {
		return fmt.Errorf("failed to create exam service: %w", err)
	}

	app.attempts, err = service.NewAttemptService(attempts, exams, app.db, logger)
	if err != nil {
		return fmt.Errorf("failed to create attempt service: %w", err)
	}

	app.drafts, err = gemini.NewGenerator(ctx, cfg.LLM, logger.With("component", "draft_generator"))
	if err != nil {
		return fmt.Errorf("failed to initialize draft generator: %w", err)
	}
	if !cfg.LLM.DraftsEnabled() {
		logger.Warn("No Gemini API key configured, exam drafts are disabled")
	}

	return nil
}

// Run serves HTTP until the process receives SIGINT or SIGTERM or ctx ends.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	router := newRouter(routerDeps{
		logger:         app.logger,
		allowedOrigins: app.config.Server.AllowedOrigins,
		accounts:       app.accounts,
		exams:          app.exams,
		attempts:       app.attempts,
		drafts:         app.drafts,
	})

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the connection pool. It is safe to call more than once.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}
	app.logger.Info("Application shutdown completed")
}
