// Package config loads runtime configuration for the CLI and HTTP server.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML or JSON config file, and RESUME_FIT_* environment variables (nested
// keys use underscores, e.g. RESUME_FIT_SERVER_PORT). GEMINI_API_KEY and
// DATABASE_URL are honored as fallbacks for the matching keys.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-fit/internal/llm"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "RESUME_FIT"

// DefaultConfigName is searched for in the working directory when no explicit
// config file is given
const DefaultConfigName = "resume_fit"

// Config is the complete runtime configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Batch    BatchConfig    `mapstructure:"batch"`
}

// LogConfig selects the zap encoder and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int             `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout" validate:"gt=0"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is the per-client token bucket. RPM of zero disables limiting.
type RateLimitConfig struct {
	RPM   int `mapstructure:"rpm" validate:"gte=0"`
	Burst int `mapstructure:"burst" validate:"gte=1"`
}

// DatabaseConfig points at the optional Postgres store. An empty URL runs
// without persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig controls the optional suggestion polisher
type LLMConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIKey      string        `mapstructure:"api_key" validate:"required_if=Enabled true"`
	Temperature     float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens" validate:"gte=0"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Models          ModelsConfig  `mapstructure:"models"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

// ModelsConfig maps model tiers to provider model names
type ModelsConfig struct {
	Lite     string `mapstructure:"lite" validate:"required"`
	Standard string `mapstructure:"standard" validate:"required"`
	Advanced string `mapstructure:"advanced" validate:"required"`
}

// BreakerConfig mirrors llm.BreakerConfig
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests" validate:"gte=1"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MinRequests      uint32        `mapstructure:"min_requests" validate:"gte=1"`
	FailureThreshold float64       `mapstructure:"failure_threshold" validate:"gt=0,lte=1"`
}

// BatchConfig sizes the batch-match worker pool
type BatchConfig struct {
	Workers int `mapstructure:"workers" validate:"min=1,max=64"`
}

// Load reads configuration. When path is empty, resume_fit.{yaml,json} in
// the working directory is used if present; a missing file is not an error.
// An explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading files or env
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultGeminiConfig()

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit.rpm", 120)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault("database.url", "")

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", llmDefaults.Temperature)
	v.SetDefault("llm.max_output_tokens", llmDefaults.MaxOutputTokens)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.models.lite", llmDefaults.Models[llm.TierLite])
	v.SetDefault("llm.models.standard", llmDefaults.Models[llm.TierStandard])
	v.SetDefault("llm.models.advanced", llmDefaults.Models[llm.TierAdvanced])
	v.SetDefault("llm.breaker.enabled", llmDefaults.Breaker.Enabled)
	v.SetDefault("llm.breaker.max_requests", llmDefaults.Breaker.MaxRequests)
	v.SetDefault("llm.breaker.interval", llmDefaults.Breaker.Interval)
	v.SetDefault("llm.breaker.timeout", llmDefaults.Breaker.Timeout)
	v.SetDefault("llm.breaker.min_requests", llmDefaults.Breaker.MinRequests)
	v.SetDefault("llm.breaker.failure_threshold", llmDefaults.Breaker.FailureThreshold)

	v.SetDefault("batch.workers", 4)
}

// Validate checks value ranges with validator tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LLMClientConfig converts the llm section into the client's configuration
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Provider: llm.ProviderGemini,
		Models: map[llm.ModelTier]string{
			llm.TierLite:     c.LLM.Models.Lite,
			llm.TierStandard: c.LLM.Models.Standard,
			llm.TierAdvanced: c.LLM.Models.Advanced,
		},
		Temperature:     c.LLM.Temperature,
		MaxOutputTokens: c.LLM.MaxOutputTokens,
		Breaker: llm.BreakerConfig{
			Enabled:          c.LLM.Breaker.Enabled,
			MaxRequests:      c.LLM.Breaker.MaxRequests,
			Interval:         c.LLM.Breaker.Interval,
			Timeout:          c.LLM.Breaker.Timeout,
			MinRequests:      c.LLM.Breaker.MinRequests,
			FailureThreshold: c.LLM.Breaker.FailureThreshold,
		},
	}
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
