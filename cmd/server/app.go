package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/study-buddy/internal/config"
	"github.com/phrazzld/study-buddy/internal/events"
	"github.com/phrazzld/study-buddy/internal/generation"
	"github.com/phrazzld/study-buddy/internal/pipeline"
	"github.com/phrazzld/study-buddy/internal/platform/gemini"
	"github.com/phrazzld/study-buddy/internal/platform/memory"
	"github.com/phrazzld/study-buddy/internal/platform/redisstore"
	"github.com/phrazzld/study-buddy/internal/prompt"
	"github.com/phrazzld/study-buddy/internal/service"
	"github.com/phrazzld/study-buddy/internal/store"
	"github.com/phrazzld/study-buddy/internal/textsource"
	"github.com/redis/go-redis/v9"
)

// Session backends
const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	sessions    store.SessionStore
	redisClient *redis.Client

	generator    generation.Generator
	pipeline     *pipeline.Pipeline
	eventEmitter *events.InMemoryEventEmitter
	inbox        *events.Inbox

	studyService service.StudyService
}

// newApplication creates a new application instance backed by the Gemini generator.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	generator, err := gemini.NewGenerator(ctx, logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully", "model", cfg.LLM.ModelName)

	return newApplicationWithGenerator(ctx, cfg, logger, generator)
}

// newApplicationWithGenerator wires every component around the given generator.
func newApplicationWithGenerator(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	generator generation.Generator,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		generator: generator,
	}

	if err := app.setupSessionStore(ctx); err != nil {
		return nil, err
	}

	builder, err := prompt.NewBuilder(cfg.LLM.PromptTemplateDir)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	var pipelineOpts []pipeline.Option
	if cfg.Cache.Enabled {
		pipelineOpts = append(pipelineOpts, pipeline.WithMemoization(minutes(cfg.Cache.TTLMinutes)))
	}
	app.pipeline, err = pipeline.NewPipeline(builder, generator, logger, pipelineOpts...)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create artifact pipeline: %w", err)
	}

	app.inbox = events.NewInbox(cfg.Session.NotificationBuffer, minutes(cfg.Session.TTLMinutes))
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(app.inbox)

	app.studyService, err = service.NewStudyService(
		app.sessions,
		textsource.NewExtractor(logger),
		app.pipeline,
		app.eventEmitter,
		app.inbox,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	logger.Info("Application initialized successfully",
		"session_backend", cfg.Session.Backend,
		"memoization", app.pipeline.Memoized())
	return app, nil
}

// setupSessionStore selects the session store for the configured backend.
func (app *application) setupSessionStore(ctx context.Context) error {
	ttl := minutes(app.config.Session.TTLMinutes)

	switch app.config.Session.Backend {
	case backendMemory:
		app.sessions = memory.NewSessionStore(ttl, minutes(app.config.Session.CleanupIntervalMinutes), app.logger)
	case backendRedis:
		client, err := redisstore.NewClient(ctx, app.config.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redisClient = client
		app.sessions = redisstore.NewSessionStore(client, ttl, app.logger)
	default:
		return fmt.Errorf("unknown session backend %q", app.config.Session.Backend)
	}

	app.logger.Info("Session store initialized", "backend", app.config.Session.Backend, "ttl", ttl)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go app.runJanitor(janitorCtx, minutes(app.config.Session.CleanupIntervalMinutes))

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// runJanitor periodically releases the timers and notifications of sessions
// that expired from the store, until ctx is cancelled.
func (app *application) runJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.studyService.PruneExpired(ctx)
		}
	}
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
		app.redisClient = nil
	}

	app.logger.Info("Application shutdown completed")
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
