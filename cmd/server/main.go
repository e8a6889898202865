// Package main runs the memory game API server: deck storage, live game
// sessions over HTTP and websockets, and background persistence of results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/platform/logger"
	"github.com/scrynotes/memorygame/internal/platform/postgres"
	"github.com/scrynotes/memorygame/internal/redact"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := loadEnvFile(".env"); err != nil {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrate != "" {
		if err := runMigrationCommand(ctx, cfg, appLogger, *migrate); err != nil {
			appLogger.Error("migration command failed", slog.String("error", redact.Error(err)))
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server exited with error", slog.String("error", redact.Error(err)))
		os.Exit(1)
	}
}

// loadEnvFile loads KEY=value pairs from path into the environment.
// A missing file is not an error; variables already set win.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// run builds the application and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database", redact.URL(cfg.Database.URL)),
		slog.Bool("gemini_enabled", cfg.LLM.GeminiAPIKey != ""),
		slog.Bool("redis_enabled", cfg.Redis.URL != ""))

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.serve(ctx)
}

// runMigrationCommand executes one goose command against the configured database.
func runMigrationCommand(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	log = log.With(slog.String("component", "migrations"), slog.String("command", command))

	switch command {
	case "up":
		return postgres.Migrate(ctx, db, log)
	case "down":
		return postgres.MigrateDown(ctx, db, log)
	case "status":
		return postgres.LogMigrationStatus(ctx, db, log)
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down or status)", command)
	}
}
