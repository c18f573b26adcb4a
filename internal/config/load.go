package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "STUDY"

// Default values applied before file and environment sources.
const (
	DefaultPort                   = 8080
	DefaultLogLevel               = "info"
	DefaultMaxUploadMB            = 10
	DefaultModelName              = "gemini-2.5-flash"
	DefaultSessionBackend         = "memory"
	DefaultSessionTTLMinutes      = 120
	DefaultCleanupIntervalMinutes = 10
	DefaultNotificationBuffer     = 32
	DefaultCacheTTLMinutes        = 30
)

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory. Environment variables take precedence over
// values from the config file. Returns a populated Config struct or an error
// if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithViper(viper.New())
}

// LoadWithViper is Load with a caller-supplied viper instance, which lets tests
// point the loader at a specific config file.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal unless bound explicitly.
	for _, key := range []string{"llm.gemini_api_key", "llm.prompt_template_dir", "redis.addr", "redis.password"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Session.Backend == "redis" && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("configuration validation failed: redis.addr is required when session.backend is redis")
	}

	if cfg.Cache.Enabled && cfg.Cache.TTLMinutes == 0 {
		return errors.New("configuration validation failed: cache.ttl_minutes must be positive when cache is enabled")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.max_upload_mb", DefaultMaxUploadMB)

	v.SetDefault("llm.model_name", DefaultModelName)

	v.SetDefault("session.backend", DefaultSessionBackend)
	v.SetDefault("session.ttl_minutes", DefaultSessionTTLMinutes)
	v.SetDefault("session.cleanup_interval_minutes", DefaultCleanupIntervalMinutes)
	v.SetDefault("session.notification_buffer", DefaultNotificationBuffer)

	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl_minutes", DefaultCacheTTLMinutes)
}
