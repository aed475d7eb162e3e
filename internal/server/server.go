// Package server provides the HTTP REST API for job context extraction,
// profile matching, tailoring and résumé analytics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/observability"
	"github.com/jonathan/resume-fit/internal/server/ratelimit"
	"github.com/jonathan/resume-fit/internal/store"
	"github.com/jonathan/resume-fit/internal/types"
)

const (
	maxBodyBytes        = 1 << 20
	maxBatchProfiles    = 100
	defaultBatchWorkers = 4
)

// Store persists postings, profiles and analysis results. *store.DB
// satisfies it.
type Store interface {
	SaveJobPosting(ctx context.Context, title, text string, jobCtx *types.JobContext) (uuid.UUID, error)
	SaveProfile(ctx context.Context, profile *types.CandidateProfile) (uuid.UUID, error)
	SaveAnalysis(ctx context.Context, postingID, profileID uuid.UUID, kind string, payload any) (uuid.UUID, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*store.Analysis, error)
	ListAnalyses(ctx context.Context, postingID uuid.UUID) ([]store.Analysis, error)
}

// Polisher rewrites tailoring suggestion descriptions and summaries.
// *tailoring.Polisher satisfies it.
type Polisher interface {
	Polish(ctx context.Context, jobTitle string, suggestions []types.TailoringSuggestion) ([]types.TailoringSuggestion, error)
	RewriteSummary(ctx context.Context, jobTitle, summary string, keywords []string) (string, error)
}

// Config holds server configuration
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPM    int
	RateLimitBurst  int
	BatchWorkers    int
}

// Deps are the optional collaborators of the server. Nil fields disable the
// features that need them.
type Deps struct {
	Store    Store
	Polisher Polisher
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Server represents the HTTP server
type Server struct {
	cfg         Config
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	polisher    Polisher
	logger      *zap.Logger
	metrics     *observability.Metrics
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = defaultBatchWorkers
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:         cfg,
		store:       deps.Store,
		polisher:    deps.Polisher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitRPM, cfg.RateLimitBurst)),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /v1/job-context", s.handleJobContext)
	mux.HandleFunc("POST /v1/match", s.handleMatch)
	mux.HandleFunc("POST /v1/tailor", s.handleTailor)
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/batch-match", s.handleBatchMatch)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /v1/postings/{id}/analyses", s.handleListAnalyses)

	s.handler = s.withRecover(s.withMetrics(s.withLogging(s.withRateLimit(mux))))
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code and writes it. Server-side failures
// are logged and their detail withheld from the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pinger, ok := s.store.(interface{ Ping(context.Context) error })
	if !ok {
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := pinger.Ping(r.Context()); err != nil {
		s.logger.Warn("database health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
