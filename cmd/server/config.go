package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/study-buddy/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if cfg.Session.Backend == "redis" {
		slog.Debug("Redis configuration", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	}
	if cfg.LLM.PromptTemplateDir != "" {
		slog.Debug("Prompt template overrides", "dir", cfg.LLM.PromptTemplateDir)
	}

	return cfg, nil
}
