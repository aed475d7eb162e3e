package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string // Route pattern; "{name}" matches one segment, a trailing "/" matches a prefix
	Method string // HTTP method (GET, POST, etc.)
	RPM    int    // Requests per minute; 0 means unlimited
	Burst  int    // Burst capacity (defaults to RPM if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultRPM      int
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTTL         time.Duration // limiters unused for this long are evicted
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration with the given default budget and the
// default per-endpoint overrides. rpm <= 0 disables limiting.
func NewConfig(rpm, burst int) *Config {
	return &Config{
		Enabled:         rpm > 0,
		DefaultRPM:      rpm,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Scores many profiles per request
		{Path: "/v1/batch-match", Method: http.MethodPost, RPM: 10, Burst: 2},
		// May call the completion service when polishing is enabled
		{Path: "/v1/tailor", Method: http.MethodPost, RPM: 30, Burst: 5},
		// Lists every stored analysis of a posting
		{Path: "/v1/postings/{id}/analyses", Method: http.MethodGet, RPM: 60, Burst: 10},
		// Other reads are handled by the default limit
	}
}
