package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-fit/internal/llm"
)

// clearEnv blanks the fallback variables so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RESUME_FIT_LLM_API_KEY", "")
	t.Setenv("RESUME_FIT_DATABASE_URL", "")
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.RateLimit.RPM)
	assert.Equal(t, 20, cfg.Server.RateLimit.Burst)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.False(t, cfg.LLM.Enabled)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLM.Models.Lite)
	assert.InDelta(t, 0.6, cfg.LLM.Breaker.FailureThreshold, 1e-9)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "resume_fit.yaml", `
log:
  json: true
server:
  port: 9090
  read_timeout: 5s
  rate_limit:
    rpm: 30
    burst: 5
batch:
  workers: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Server.RateLimit.RPM)
	assert.Equal(t, 5, cfg.Server.RateLimit.Burst)
	assert.Equal(t, 8, cfg.Batch.Workers)
	// Untouched keys keep their defaults
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_JSONFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.json", `{"database": {"url": "postgres://localhost/fit"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/fit", cfg.Database.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESUME_FIT_SERVER_PORT", "7000")
	t.Setenv("RESUME_FIT_LOG_DEBUG", "true")
	t.Setenv("RESUME_FIT_BATCH_WORKERS", "2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, 2, cfg.Batch.Workers)
}

func TestLoad_FallbackEnvNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("DATABASE_URL", "postgres://db/fit")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://db/fit", cfg.Database.URL)

	t.Setenv("RESUME_FIT_LLM_API_KEY", "prefixed-key")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.LLM.APIKey)
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port out of range", content: "server:\n  port: 70000\n"},
		{name: "zero workers", content: "batch:\n  workers: 0\n"},
		{name: "llm enabled without key", content: "llm:\n  enabled: true\n"},
		{name: "failure threshold above one", content: "llm:\n  breaker:\n    failure_threshold: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(writeConfig(t, "config.yaml", tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLLMClientConfig(t *testing.T) {
	cfg := Default()
	cfg.LLM.Models.Lite = "custom-lite"
	cfg.LLM.Temperature = 0.5
	cfg.LLM.MaxOutputTokens = 512

	out := cfg.LLMClientConfig()
	assert.Equal(t, llm.ProviderGemini, out.Provider)
	assert.Equal(t, "custom-lite", out.GetModel(llm.TierLite))
	assert.Equal(t, "gemini-2.5-pro", out.GetModel(llm.TierAdvanced))
	assert.InDelta(t, 0.5, out.Temperature, 1e-6)
	assert.Equal(t, int32(512), out.MaxOutputTokens)
	assert.Equal(t, uint32(3), out.Breaker.MaxRequests)
	assert.Equal(t, 30*time.Second, out.Breaker.Timeout)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
