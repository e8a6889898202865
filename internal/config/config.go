package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Game     GameConfig     `mapstructure:"game" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AuthConfig contains the settings used to verify caller tokens.
// Tokens are issued by the external identity service and signed with a shared HMAC secret.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer    string `mapstructure:"issuer"`
}

// LLMConfig contains all LLM integration related settings.
// An empty API key disables the Gemini adapter: quizzes fall back to deck and
// placeholder distractors and deck creation from text is unavailable.
type LLMConfig struct {
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	ModelName       string        `mapstructure:"model_name" validate:"required"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryBaseDelay  time.Duration `mapstructure:"retry_base_delay" validate:"gt=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	MaxParsedCards  int           `mapstructure:"max_parsed_cards" validate:"gt=0"`
	DistractorCache time.Duration `mapstructure:"distractor_cache_ttl"`
}

// RedisConfig configures the optional distractor cache. An empty URL disables it.
type RedisConfig struct {
	URL       string `mapstructure:"url" validate:"omitempty,url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// GameConfig holds gameplay timings.
type GameConfig struct {
	SpeedRoundDuration time.Duration `mapstructure:"speed_round_duration" validate:"gt=0"`
	TickInterval       time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	RevealDelay        time.Duration `mapstructure:"reveal_delay" validate:"gte=0"`
	OptionCount        int           `mapstructure:"option_count" validate:"gte=2,lte=8"`
	GenerationTimeout  time.Duration `mapstructure:"generation_timeout" validate:"gt=0"`
}

// WorkerConfig sizes the background pool that persists game results.
type WorkerConfig struct {
	Workers   int `mapstructure:"workers" validate:"gt=0"`
	QueueSize int `mapstructure:"queue_size" validate:"gt=0"`
}
