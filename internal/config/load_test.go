package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// TestLoadDefaults verifies that the Load function sets the expected default values
// when only the required API key is provided.
func TestLoadDefaults(t *testing.T) {
	setupEnv(t, map[string]string{
		"STUDY_LLM_GEMINI_API_KEY": "test-api-key",
		// Empty values are treated as unset
		"STUDY_SERVER_PORT":      "",
		"STUDY_SERVER_LOG_LEVEL": "",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, DefaultPort, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, DefaultLogLevel, cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, DefaultMaxUploadMB, cfg.Server.MaxUploadMB)
	assert.Equal(t, DefaultModelName, cfg.LLM.ModelName)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, DefaultSessionTTLMinutes, cfg.Session.TTLMinutes)
	assert.False(t, cfg.Cache.Enabled, "memoization should be off by default")
}

// TestLoadFromEnv verifies that the Load function correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"STUDY_SERVER_PORT":             "9090",
		"STUDY_SERVER_LOG_LEVEL":        "debug",
		"STUDY_LLM_GEMINI_API_KEY":      "test-api-key",
		"STUDY_LLM_MODEL_NAME":          "gemini-2.0-flash",
		"STUDY_LLM_PROMPT_TEMPLATE_DIR": "/etc/study/prompts",
		"STUDY_SESSION_BACKEND":         "redis",
		"STUDY_REDIS_ADDR":              "localhost:6379",
		"STUDY_CACHE_ENABLED":           "true",
		"STUDY_CACHE_TTL_MINUTES":       "5",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "test-api-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, "/etc/study/prompts", cfg.LLM.PromptTemplateDir)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5, cfg.Cache.TTLMinutes)
}

// TestLoadFromFile verifies that values from a config file are used and that
// environment variables override them.
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 7070
  log_level: warn
llm:
  gemini_api_key: file-key
session:
  ttl_minutes: 45
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	setupEnv(t, map[string]string{
		"STUDY_SERVER_LOG_LEVEL": "error",
	})

	v := viper.New()
	v.AddConfigPath(dir)
	cfg, err := LoadWithViper(v)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port, "port should come from the file")
	assert.Equal(t, "error", cfg.Server.LogLevel, "environment should override the file")
	assert.Equal(t, "file-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 45, cfg.Session.TTLMinutes)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing API key",
			envVars: map[string]string{
				"STUDY_SERVER_PORT": "9090",
			},
		},
		{
			name: "Invalid port number",
			envVars: map[string]string{
				"STUDY_SERVER_PORT":        "999999",
				"STUDY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
		{
			name: "Invalid log level",
			envVars: map[string]string{
				"STUDY_SERVER_LOG_LEVEL":   "invalid-level",
				"STUDY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
		{
			name: "Unknown session backend",
			envVars: map[string]string{
				"STUDY_SESSION_BACKEND":    "postgres",
				"STUDY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
		{
			name: "Redis backend without address",
			envVars: map[string]string{
				"STUDY_SESSION_BACKEND":    "redis",
				"STUDY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
		{
			name: "Cache enabled without TTL",
			envVars: map[string]string{
				"STUDY_CACHE_ENABLED":      "true",
				"STUDY_CACHE_TTL_MINUTES":  "0",
				"STUDY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clear the key so "missing" cases are not polluted by the caller's shell
			t.Setenv("STUDY_LLM_GEMINI_API_KEY", "")
			setupEnv(t, tc.envVars)

			cfg, err := Load()

			require.Error(t, err, "Load() should return an error with invalid configuration")
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
