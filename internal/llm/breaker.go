package llm

import (
	"context"
	"errors"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrBreakerOpen is returned while the breaker rejects calls
var ErrBreakerOpen = errors.New("llm circuit breaker is open")

// BreakerClient guards every generation call of an inner Client with a
// circuit breaker. Context cancellation is not counted as a provider failure.
type BreakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps inner with a breaker built from cfg
func NewBreakerClient(inner Client, cfg BreakerConfig, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerClient{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[string](settings),
	}
}

// GenerateJSON calls the inner client through the breaker
func (b *BreakerClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute(func() (string, error) {
		return b.inner.GenerateJSON(ctx, prompt, tier)
	})
}

// Close closes the inner client
func (b *BreakerClient) Close() error {
	return b.inner.Close()
}

// State reports the breaker state name (closed, half-open or open)
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}

func (b *BreakerClient) execute(fn func() (string, error)) (string, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", errors.Join(ErrBreakerOpen, err)
	}
	return out, err
}
