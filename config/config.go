// Package config loads planner configuration from a config.yaml file and the
// environment via viper. Environment variables use the MEALPLANNER_ prefix
// with underscores for nesting, e.g. MEALPLANNER_STORAGE_BACKEND.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all planner configuration.
type Config struct {
	Logger    LoggerConfig
	Storage   StorageConfig
	Session   SessionConfig
	Retry     RetryConfig
	Providers ProvidersConfig
	Planner   PlannerConfig
}

// LoggerConfig configures structured logging.
type LoggerConfig struct {
	Level  string
	Format string // json or text
}

// StorageConfig selects and configures the memory store backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite" or "memory".
	Backend string
	// Dir is the data directory for the file and sqlite backends.
	Dir string
	// HistoryRetention caps history entries kept per user.
	HistoryRetention int
}

// SessionConfig configures the session registry.
type SessionConfig struct {
	TTL time.Duration
}

// RetryConfig configures port call retries.
type RetryConfig struct {
	MaxRetries  int
	Backoff     time.Duration
	CallTimeout time.Duration
}

// ProvidersConfig carries the external capability credentials. Empty keys
// mean the corresponding local fallback is used.
type ProvidersConfig struct {
	// TextProvider is one of "gemini", "openai", "anthropic" or "mock".
	// Empty selects the first provider with a configured key.
	TextProvider      string
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string
	AnthropicAPIKey   string
	AnthropicModel    string
	SpoonacularAPIKey string
}

// PlannerConfig carries product policy knobs.
type PlannerConfig struct {
	CuisineCap        int
	SearchConcurrency int
	RateLimitPerSec   float64
}

// Load loads configuration using viper. Config file name: config.yaml,
// searched in ., ./config and $HOME/.mealplanner.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.mealplanner")

	v.SetEnvPrefix("MEALPLANNER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Format = v.GetString("logger.format")

	cfg.Storage.Backend = v.GetString("storage.backend")
	cfg.Storage.Dir = v.GetString("storage.dir")
	cfg.Storage.HistoryRetention = v.GetInt("storage.history_retention")

	cfg.Session.TTL = v.GetDuration("session.ttl")

	cfg.Retry.MaxRetries = v.GetInt("retry.max_retries")
	cfg.Retry.Backoff = v.GetDuration("retry.backoff")
	cfg.Retry.CallTimeout = v.GetDuration("retry.call_timeout")

	cfg.Providers.TextProvider = v.GetString("providers.text_provider")
	cfg.Providers.GeminiAPIKey = v.GetString("providers.gemini_api_key")
	cfg.Providers.GeminiModel = v.GetString("providers.gemini_model")
	cfg.Providers.OpenAIAPIKey = v.GetString("providers.openai_api_key")
	cfg.Providers.OpenAIModel = v.GetString("providers.openai_model")
	cfg.Providers.AnthropicAPIKey = v.GetString("providers.anthropic_api_key")
	cfg.Providers.AnthropicModel = v.GetString("providers.anthropic_model")
	cfg.Providers.SpoonacularAPIKey = v.GetString("providers.spoonacular_api_key")

	// The conventional provider env vars work without the prefix.
	if cfg.Providers.GeminiAPIKey == "" {
		cfg.Providers.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Providers.OpenAIAPIKey == "" {
		cfg.Providers.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Providers.AnthropicAPIKey == "" {
		cfg.Providers.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Providers.SpoonacularAPIKey == "" {
		cfg.Providers.SpoonacularAPIKey = os.Getenv("SPOONACULAR_API_KEY")
	}

	cfg.Planner.CuisineCap = v.GetInt("planner.cuisine_cap")
	cfg.Planner.SearchConcurrency = v.GetInt("planner.search_concurrency")
	cfg.Planner.RateLimitPerSec = v.GetFloat64("planner.rate_limit_per_sec")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.history_retention", 50)

	v.SetDefault("session.ttl", "60m")

	v.SetDefault("retry.max_retries", 2)
	v.SetDefault("retry.backoff", "100ms")
	v.SetDefault("retry.call_timeout", "10s")

	v.SetDefault("planner.cuisine_cap", 20)
	v.SetDefault("planner.search_concurrency", 4)
	v.SetDefault("planner.rate_limit_per_sec", 0)
}

func validate(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	switch cfg.Providers.TextProvider {
	case "", "gemini", "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown text provider %q", cfg.Providers.TextProvider)
	}
	if cfg.Storage.HistoryRetention <= 0 {
		return fmt.Errorf("storage.history_retention must be positive")
	}
	return nil
}
