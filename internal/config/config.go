package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// MaxUploadMB bounds the size of uploaded note documents.
	MaxUploadMB int `mapstructure:"max_upload_mb" validate:"required,gt=0,lte=100"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// PromptTemplateDir optionally points at a directory of <kind>.tmpl files
	// that override the built-in prompt templates.
	PromptTemplateDir string `mapstructure:"prompt_template_dir"`
}

// SessionConfig controls where session state lives and for how long.
type SessionConfig struct {
	Backend                string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	TTLMinutes             int    `mapstructure:"ttl_minutes" validate:"required,gt=0"`
	CleanupIntervalMinutes int    `mapstructure:"cleanup_interval_minutes" validate:"required,gt=0"`
	// NotificationBuffer is the number of undelivered notifications kept per session.
	NotificationBuffer int `mapstructure:"notification_buffer" validate:"required,gt=0"`
}

// RedisConfig is only required when Session.Backend is "redis".
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// CacheConfig controls memoization of generated artifacts.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLMinutes int  `mapstructure:"ttl_minutes" validate:"gte=0"`
}
