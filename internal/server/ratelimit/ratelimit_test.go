package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter whose clock is controlled by the test
func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *time.Time) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)

	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(60, 3))

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/v1/match", http.MethodPost)
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 60, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/v1/match", http.MethodPost)
	assert.False(t, allowed)
	// 60 rpm refills one token per second
	assert.Equal(t, time.Second, info.RetryAfter)
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(t, NewConfig(60, 1))

	allowed, _ := l.Allow("c", "/v1/match", http.MethodPost)
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/v1/match", http.MethodPost)
	require.False(t, allowed)

	*now = now.Add(time.Second)
	allowed, _ = l.Allow("c", "/v1/match", http.MethodPost)
	assert.True(t, allowed)
}

func TestLimiter_DeniedRequestDoesNotConsume(t *testing.T) {
	l, now := newTestLimiter(t, NewConfig(60, 1))

	l.Allow("c", "/v1/match", http.MethodPost)
	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c", "/v1/match", http.MethodPost)
		require.False(t, allowed)
	}

	*now = now.Add(time.Second)
	allowed, _ := l.Allow("c", "/v1/match", http.MethodPost)
	assert.True(t, allowed, "rejected requests must not push the next token further out")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(60, 1))

	allowed, _ := l.Allow("a", "/v1/match", http.MethodPost)
	assert.True(t, allowed)
	allowed, _ = l.Allow("b", "/v1/match", http.MethodPost)
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/v1/match", http.MethodPost)
	assert.False(t, allowed)
}

func TestLimiter_EndpointOverride(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(600, 100))

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("c", "/v1/batch-match", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, _ := l.Allow("c", "/v1/batch-match", http.MethodPost)
	assert.False(t, allowed)

	allowed, _ = l.Allow("c", "/v1/match", http.MethodPost)
	assert.True(t, allowed, "other endpoints use the default budget")
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(0, 0))

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("c", "/v1/match", http.MethodPost)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
	assert.Zero(t, l.Size())
}

func TestLimiter_UnlimitedPaths(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(60, 1))

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/health", http.MethodGet)
		require.True(t, allowed)
		allowed, _ = l.Allow("c", "/metrics", http.MethodGet)
		require.True(t, allowed)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, now := newTestLimiter(t, NewConfig(60, 1))

	l.Allow("old", "/v1/match", http.MethodPost)
	*now = now.Add(2 * time.Hour)
	l.Allow("new", "/v1/match", http.MethodPost)
	require.Equal(t, 2, l.Size())

	l.evictIdle()
	assert.Equal(t, 1, l.Size())
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(NewConfig(60, 50))
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("shared", "/v1/match", http.MethodPost); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Burst of 50; at most a token or two can refill during the test
	assert.GreaterOrEqual(t, allowedCount, 50)
	assert.LessOrEqual(t, allowedCount, 52)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(NewConfig(60, 1))
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/v1/batch-match", Method: http.MethodPost, RPM: 10},
		{Path: "/v1/postings/{id}/analyses", Method: http.MethodGet, RPM: 60},
		{Path: "/v1/analyses/", Method: http.MethodGet, RPM: 100},
	}

	tests := []struct {
		path    string
		method  string
		wantRPM int
		wantNil bool
	}{
		{path: "/v1/batch-match", method: http.MethodPost, wantRPM: 10},
		{path: "/v1/postings/6f1c2a9e-0d4b-4c1e-9f3a-2b7d8e5a1c00/analyses", method: http.MethodGet, wantRPM: 60},
		{path: "/v1/postings/abc/analyses/extra", method: http.MethodGet, wantNil: true},
		{path: "/v1/postings//analyses", method: http.MethodGet, wantNil: true},
		{path: "/v1/analyses/abc", method: http.MethodGet, wantRPM: 100},
		{path: "/health", method: http.MethodGet, wantRPM: 0},
		{path: "/metrics", method: http.MethodGet, wantRPM: 0},
		{path: "/health", method: http.MethodPost, wantNil: true},
		{path: "/v1/batch-match", method: http.MethodGet, wantNil: true},
		{path: "/v1/match", method: http.MethodPost, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantRPM, got.RPM)
		})
	}
}

func TestLimiter_PostingListsShareOneBucket(t *testing.T) {
	cfg := NewConfig(600, 50)
	cfg.EndpointConfigs = []EndpointConfig{
		{Path: "/v1/postings/{id}/analyses", Method: http.MethodGet, RPM: 60, Burst: 2},
	}
	l, _ := newTestLimiter(t, cfg)

	allowed, _ := l.Allow("c", "/v1/postings/a/analyses", http.MethodGet)
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/v1/postings/b/analyses", http.MethodGet)
	require.True(t, allowed)

	allowed, info := l.Allow("c", "/v1/postings/c/analyses", http.MethodGet)
	assert.False(t, allowed, "varying the posting id must not reset the budget")
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, 1, l.Size())
}
