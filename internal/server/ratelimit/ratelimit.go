// Package ratelimit limits API requests per client and endpoint with
// golang.org/x/time/rate token buckets.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int // requests per minute; 0 when unlimited
	Remaining  int
	RetryAfter time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages one token bucket per client, endpoint and method.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	config  *Config
	done    chan struct{}
	once    sync.Once
	now     func() time.Time
}

// NewLimiter creates a limiter and starts its cleanup goroutine. Call Stop
// when shutting down.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(0, 0)
	}

	l := &Limiter{
		entries: make(map[string]*entry),
		config:  config,
		done:    make(chan struct{}),
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupRoutine(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	route := endpoint
	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{RPM: l.config.DefaultRPM, Burst: l.config.DefaultBurst}
	} else if strings.Contains(endpointConfig.Path, "{") {
		// One bucket per route, not one per posting id
		route = endpointConfig.Path
	}
	if endpointConfig.RPM <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + route + ":" + method
	limiter := l.getLimiter(key, endpointConfig)

	now := l.now()
	info := Info{Limit: endpointConfig.RPM}
	if limiter.AllowN(now, 1) {
		info.Allowed = true
		info.Remaining = max(0, int(limiter.TokensAt(now)))
		return true, info
	}

	// Reserve to learn the wait, then hand the token back
	reservation := limiter.ReserveN(now, 1)
	info.RetryAfter = reservation.DelayFrom(now)
	reservation.CancelAt(now)
	return false, info
}

func (l *Limiter) getLimiter(key string, cfg *EndpointConfig) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.RPM
		}
		e = &entry{limiter: rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst)}
		l.entries[key] = e
	}
	e.lastSeen = l.now()
	return e.limiter
}

// Size returns the number of tracked limiters
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Limiter) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.done:
			return
		}
	}
}

// evictIdle removes limiters not used within IdleTTL
func (l *Limiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.config.IdleTTL)
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}
