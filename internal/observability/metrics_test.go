package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RequestsTotal.WithLabelValues("/v1/match", http.MethodPost, "200").Inc()
	m.MatchScore.Observe(72)

	body := scrape(t, m)
	assert.Contains(t, body, `resume_fit_http_requests_total{method="POST",route="/v1/match",status="200"} 1`)
	assert.Contains(t, body, "resume_fit_match_score_count 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RateLimited.Inc()
	m.RateLimited.Inc()
	m.PolishFailures.Inc()

	body := scrape(t, m)
	assert.Contains(t, body, "resume_fit_rate_limited_total 2")
	assert.Contains(t, body, "resume_fit_polish_failures_total 1")
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.RateLimited.Inc()

	assert.Contains(t, scrape(t, b), "resume_fit_rate_limited_total 0")
	assert.NotSame(t, a.Registry(), b.Registry())
}
