package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/scrynotes/memorygame/internal/api"
	apimiddleware "github.com/scrynotes/memorygame/internal/api/middleware"
	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/distractor"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/events"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/scrynotes/memorygame/internal/generation"
	"github.com/scrynotes/memorygame/internal/platform/gemini"
	"github.com/scrynotes/memorygame/internal/platform/postgres"
	"github.com/scrynotes/memorygame/internal/platform/redis"
	"github.com/scrynotes/memorygame/internal/service"
	"github.com/scrynotes/memorygame/internal/service/play"
	"github.com/scrynotes/memorygame/internal/task"
)

// defaultDistractorCacheTTL applies when the configured TTL is zero.
const defaultDistractorCacheTTL = 24 * time.Hour

// application holds the long-lived dependencies so they can be shut down in order.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sql.DB
	redis *goredis.Client

	queue *task.TaskQueue
	pool  *task.WorkerPool
	play  *play.Service

	router http.Handler
}

// newApplication connects to backing services and wires every component.
// On error, anything already opened is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.db, err = postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err = postgres.Migrate(ctx, app.db, logger.With(slog.String("component", "migrations"))); err != nil {
		return nil, err
	}

	llm, err := newLLM(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	var source generation.DistractorGenerator
	var parser generation.ContentParser
	if llm != nil {
		source, parser = llm, llm
	}

	if cfg.Redis.URL != "" {
		app.redis, err = redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connection established")

		if source != nil {
			ttl := cfg.LLM.DistractorCache
			if ttl <= 0 {
				ttl = defaultDistractorCacheTTL
			}
			cache := redis.NewDistractorCache(app.redis, cfg.Redis.KeyPrefix, ttl)
			source = distractor.NewCachedSource(source, cache, logger)
		}
	}

	options := distractor.NewGenerator(source, logger)
	scorer := scoring.NewDefaultService()

	deckStore := postgres.NewPostgresDeckStore(app.db, logger)
	resultStore := postgres.NewPostgresResultStore(app.db, logger)

	results, err := service.NewResultService(app.db, resultStore, deckStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create result service: %w", err)
	}

	app.queue = task.NewTaskQueue(cfg.Worker.QueueSize, logger)
	app.pool = task.NewWorkerPool(app.queue, task.WorkerPoolConfig{WorkerCount: cfg.Worker.Workers}, logger)
	app.pool.SetErrorHandler(func(t task.Task, taskErr error) {
		logger.Error("background task failed",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", taskErr.Error()))
	})
	app.pool.Start()

	emitter := events.NewInMemoryEventEmitter(logger)
	resultHandler, err := task.NewResultEventHandler(results, app.queue, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create result event handler: %w", err)
	}
	emitter.RegisterHandler(resultHandler)

	games, err := game.NewEngine(game.NewConfig(cfg.Game), scorer, options, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}
	friends, err := friend.NewEngine(scorer, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend engine: %w", err)
	}

	decks, err := service.NewDeckService(deckStore, parser, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	app.play, err = play.NewService(decks, games, friends, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create play service: %w", err)
	}

	auth, err := apimiddleware.NewAuthenticator(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	app.router = api.NewRouter(api.RouterConfig{
		Decks:          decks,
		Results:        results,
		Games:          app.play,
		Authenticator:  auth,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthCheck:    app.healthCheck,
		Logger:         logger,
	})

	return app, nil
}

// newLLM returns the Gemini adapter, or nil when no API key is configured.
func newLLM(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*gemini.GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini API key not set; using deck and placeholder distractors, text import disabled")
		return nil, nil
	}

	llm, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", slog.String("model", cfg.ModelName))
	return llm, nil
}

// healthCheck pings the database and, when configured, redis.
func (app *application) healthCheck(ctx context.Context) error {
	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if app.redis != nil {
		if err := app.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// cleanup stops live games, drains pending result writes and closes connections.
// It is safe to call on a partially built application.
func (app *application) cleanup() {
	if app.play != nil {
		app.play.Shutdown()
	}

	if app.queue != nil {
		app.queue.Close()
	}
	if app.pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		if err := app.pool.Shutdown(ctx); err != nil {
			app.logger.Warn("worker pool did not drain in time", slog.String("error", err.Error()))
		}
		cancel()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application resources released")
}
