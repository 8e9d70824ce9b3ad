// Package main implements the entry point for the LingoDrift API server,
// which serves German CEFR practice exams and records users' attempts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/lingodrift-api/internal/config"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "",
		"run a migration command and exit ("+strings.Join(postgres.MigrationCommands, ", ")+")")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"drafts_enabled", cfg.LLM.DraftsEnabled())

	ctx := context.Background()

	if *migrate != "" {
		if err := runMigrations(ctx, cfg, l, *migrate); err != nil {
			l.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		l.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, l *slog.Logger, command string) error {
	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			l.Error("Error closing database connection", "error", cerr)
		}
	}()

	if err := postgres.Migrate(ctx, db, command, l); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
