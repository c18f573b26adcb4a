// Package main implements the entry point for the study buddy API server,
// which turns a learner's notes into summaries, flashcards, quizzes and
// concept lists through a generative language model.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("study buddy server failed: %v", err)
		os.Exit(1)
	}
}

// run loads configuration, wires the application and serves until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	slog.Info("Study buddy server starting",
		"port", cfg.Server.Port,
		"session_backend", cfg.Session.Backend,
		"memoization", cfg.Cache.Enabled)

	return app.Run(ctx)
}
