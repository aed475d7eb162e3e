// Package llm is the Generative Completion adapter: a small client
// abstraction over Gemini with model tiers and a circuit breaker.
package llm

import (
	"strings"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short rewrites such as polishing a suggestion
	TierLite ModelTier = "lite"
	// TierStandard is for structured output over a whole analysis
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form rewriting
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the only provider wired today
const ProviderGemini Provider = "gemini"

// BreakerConfig controls the circuit breaker around provider calls
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32        // trial requests allowed while half-open
	Interval         time.Duration // closed-state count reset period
	Timeout          time.Duration // open-state duration
	MinRequests      uint32
	FailureThreshold float64 // failure ratio that trips the breaker
}

// Config selects the models and generation settings for polishing calls
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32 // 0 leaves the provider default
	Breaker         BreakerConfig
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     0.2,
		MaxOutputTokens: 1024,
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			MinRequests:      5,
			FailureThreshold: 0.6,
		},
	}
}

// GetModel returns the model for tier, falling back to the standard and then
// the lite model. Blank entries count as missing.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := strings.TrimSpace(c.Models[t]); model != "" {
			return model
		}
	}
	return ""
}
