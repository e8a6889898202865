package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

// defaults lists every configuration key. Viper only binds environment
// variables for keys it knows about, so keys without a sensible default are
// registered with their zero value.
var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.allowed_origins":  []string{"*"},
	"server.shutdown_timeout": 15 * time.Second,

	"database.url":               "",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 30 * time.Minute,

	"auth.jwt_secret": "",
	"auth.issuer":     "",

	"llm.gemini_api_key":       "",
	"llm.model_name":           "gemini-2.0-flash",
	"llm.max_retries":          3,
	"llm.retry_base_delay":     2 * time.Second,
	"llm.request_timeout":      30 * time.Second,
	"llm.max_parsed_cards":     50,
	"llm.distractor_cache_ttl": 24 * time.Hour,

	"redis.url":        "",
	"redis.key_prefix": "memorygame:",

	"game.speed_round_duration": 30 * time.Second,
	"game.tick_interval":        100 * time.Millisecond,
	"game.reveal_delay":         1500 * time.Millisecond,
	"game.option_count":         4,
	"game.generation_timeout":   10 * time.Second,

	"worker.workers":    2,
	"worker.queue_size": 100,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithPaths(".")
}

// LoadWithPaths behaves like Load but searches the given directories for config.yaml.
func LoadWithPaths(paths ...string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
