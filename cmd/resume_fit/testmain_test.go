package main

import (
	"os"
	"strings"
	"testing"

	"github.com/jonathan/resume-fit/internal/config"
)

// TestMain runs the command tests against built-in defaults: a developer's
// shell or exported .env must not switch on the LLM, a database or a port.
func TestMain(m *testing.M) {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix+"_") {
			_ = os.Unsetenv(name)
		}
	}
	_ = os.Unsetenv("GEMINI_API_KEY")
	_ = os.Unsetenv("DATABASE_URL")

	os.Exit(m.Run())
}
