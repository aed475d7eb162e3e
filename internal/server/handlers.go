package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/analytics"
	"github.com/jonathan/resume-fit/internal/extraction"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/logger"
	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/store"
	"github.com/jonathan/resume-fit/internal/tailoring"
	"github.com/jonathan/resume-fit/internal/types"
)

// JobRequest carries a raw posting. JobContext, when set, replaces
// extraction from JobText.
type JobRequest struct {
	JobText    string            `json:"job_text"`
	JobTitle   string            `json:"job_title,omitempty"`
	JobContext *types.JobContext `json:"job_context,omitempty"`
}

// MatchRequest is the body of /v1/match
type MatchRequest struct {
	JobRequest
	Profile *types.CandidateProfile `json:"profile"`
}

// TailorRequest is the body of /v1/tailor
type TailorRequest struct {
	MatchRequest
	AutoApply bool `json:"auto_apply,omitempty"`
	Polish    bool `json:"polish,omitempty"`
}

// AnalyzeRequest is the body of /v1/analyze. The posting is optional.
type AnalyzeRequest struct {
	JobRequest
	Profile      *types.CandidateProfile `json:"profile"`
	Applications []types.Application     `json:"applications,omitempty"`
}

// BatchMatchRequest is the body of /v1/batch-match
type BatchMatchRequest struct {
	JobRequest
	Profiles []*types.CandidateProfile `json:"profiles"`
}

// AnalyzeResponse is the analytics report plus optional application metrics
type AnalyzeResponse struct {
	*types.ResumeAnalytics
	Performance *types.PerformanceMetrics `json:"performance,omitempty"`
}

// BatchMatchResponse holds one result per profile in request order
type BatchMatchResponse struct {
	Results []*types.JobAnalysisResult `json:"results"`
}

// handleJobContext extracts a job context from posting text. Empty text
// yields the neutral context.
func (s *Server) handleJobContext(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	text := ingestion.CleanText(req.JobText)

	jobCtx := extraction.ExtractJobContext(text, req.JobTitle)
	if s.store != nil && text != "" {
		if id, err := s.store.SaveJobPosting(r.Context(), jobCtx.JobTitle, text, jobCtx); err != nil {
			s.logPersistFailure(r, store.KindJobContext, err)
		} else {
			w.Header().Set("X-Job-Posting-ID", id.String())
		}
	}
	s.jsonResponse(w, http.StatusOK, jobCtx)
}

// handleMatch scores one profile against a posting
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := validateProfile(req.Profile, "profile"); err != nil {
		s.handleError(w, r, err)
		return
	}
	jobCtx, text := resolveJobContext(req.JobRequest, true)

	result, err := matching.MatchProfileToJob(req.Profile, jobCtx)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.metrics.MatchScore.Observe(float64(result.OverallMatchScore))

	s.persist(w, r, store.KindMatch, text, jobCtx, req.Profile, result)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleTailor builds suggestions and, when asked, an auto-tailored profile
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := validateProfile(req.Profile, "profile"); err != nil {
		s.handleError(w, r, err)
		return
	}
	jobCtx, text := resolveJobContext(req.JobRequest, true)

	analysis, err := matching.MatchProfileToJob(req.Profile, jobCtx)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.metrics.MatchScore.Observe(float64(analysis.OverallMatchScore))

	result, err := tailoring.Tailor(req.Profile, analysis, req.AutoApply)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if req.Polish && s.polisher != nil {
		polished, err := s.polisher.Polish(r.Context(), jobCtx.JobTitle, result.Suggestions)
		if err != nil {
			s.metrics.PolishFailures.Inc()
			s.logger.Warn("suggestion polishing fell back to templates",
				zap.String(logger.FieldJobTitle, jobCtx.JobTitle),
				zap.Error(err))
		}
		if len(polished) == len(result.Suggestions) {
			result.Suggestions = polished
		}

		if req.AutoApply && result.TailoredProfile != nil {
			summary, err := s.polisher.RewriteSummary(r.Context(), jobCtx.JobTitle, result.TailoredProfile.Summary, tailoring.SummaryKeywords(jobCtx))
			if err != nil {
				s.metrics.PolishFailures.Inc()
				s.logger.Warn("summary rewrite fell back to template",
					zap.String(logger.FieldJobTitle, jobCtx.JobTitle),
					zap.Error(err))
			}
			result.TailoredProfile.Summary = summary
		}
	}

	s.persist(w, r, store.KindTailor, text, jobCtx, req.Profile, result)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyze scores résumé sections, optionally against a posting
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := validateProfile(req.Profile, "profile"); err != nil {
		s.handleError(w, r, err)
		return
	}
	jobCtx, text := resolveJobContext(req.JobRequest, false)

	report, err := analytics.AnalyzeResumeSections(req.Profile, jobCtx)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := AnalyzeResponse{ResumeAnalytics: report}
	if len(req.Applications) > 0 {
		perf := analytics.TrackApplicationPerformance(req.Applications)
		resp.Performance = &perf
	}

	s.persist(w, r, store.KindAnalytics, text, jobCtx, req.Profile, report)
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleBatchMatch scores many profiles against one posting
func (s *Server) handleBatchMatch(w http.ResponseWriter, r *http.Request) {
	var req BatchMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	switch n := len(req.Profiles); {
	case n == 0:
		s.handleError(w, r, badRequest("profiles is required", nil))
		return
	case n > maxBatchProfiles:
		s.handleError(w, r, badRequest(fmt.Sprintf("at most %d profiles per batch", maxBatchProfiles), nil))
		return
	}
	for i, p := range req.Profiles {
		if err := validateProfile(p, fmt.Sprintf("profiles[%d]", i)); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	jobCtx, _ := resolveJobContext(req.JobRequest, true)

	results, err := matching.MatchBatch(r.Context(), req.Profiles, jobCtx, s.cfg.BatchWorkers)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	for _, res := range results {
		s.metrics.MatchScore.Observe(float64(res.OverallMatchScore))
	}
	s.jsonResponse(w, http.StatusOK, BatchMatchResponse{Results: results})
}

// handleGetAnalysis returns a stored result by id
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis storage is not configured")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, badRequest("invalid analysis id", err))
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if analysis == nil {
		s.handleError(w, r, fmt.Errorf("analysis %s: %w", id, ErrNotFound))
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// AnalysisListResponse holds the newest stored results for a posting
type AnalysisListResponse struct {
	Analyses []store.Analysis `json:"analyses"`
}

// handleListAnalyses returns the stored results tied to a posting
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis storage is not configured")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, badRequest("invalid posting id", err))
		return
	}

	analyses, err := s.store.ListAnalyses(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if analyses == nil {
		analyses = []store.Analysis{}
	}
	s.jsonResponse(w, http.StatusOK, AnalysisListResponse{Analyses: analyses})
}

// persist stores the posting, profile and result when a store is configured
// and sets X-Analysis-ID. Storage failures are logged and do not fail the
// request.
func (s *Server) persist(w http.ResponseWriter, r *http.Request, kind, text string, jobCtx *types.JobContext, profile *types.CandidateProfile, payload any) {
	if s.store == nil {
		return
	}
	id, err := s.save(r.Context(), kind, text, jobCtx, profile, payload)
	if err != nil {
		s.logPersistFailure(r, kind, err)
		return
	}
	w.Header().Set("X-Analysis-ID", id.String())
}

func (s *Server) save(ctx context.Context, kind, text string, jobCtx *types.JobContext, profile *types.CandidateProfile, payload any) (uuid.UUID, error) {
	postingID := uuid.Nil
	if text != "" && jobCtx != nil {
		id, err := s.store.SaveJobPosting(ctx, jobCtx.JobTitle, text, jobCtx)
		if err != nil {
			return uuid.Nil, err
		}
		postingID = id
	}
	profileID, err := s.store.SaveProfile(ctx, profile)
	if err != nil {
		return uuid.Nil, err
	}
	return s.store.SaveAnalysis(ctx, postingID, profileID, kind, payload)
}

func (s *Server) logPersistFailure(r *http.Request, kind string, err error) {
	s.logger.Warn("failed to persist result",
		zap.String("kind", kind),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}

// decodeJSON reads a size-limited body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequest("invalid request body", err)
	}
	return nil
}

func validateProfile(profile *types.CandidateProfile, field string) error {
	if profile == nil {
		return badRequest(field+" is required", nil)
	}
	if err := profile.Validate(); err != nil {
		return badRequest("invalid "+field, err)
	}
	return nil
}

// resolveJobContext returns the supplied context or extracts one from the
// cleaned posting text, which is returned for persistence. Without a posting
// the context is neutral when scoring needs one and nil otherwise.
func resolveJobContext(req JobRequest, needContext bool) (*types.JobContext, string) {
	text := ingestion.CleanText(req.JobText)
	if req.JobContext != nil {
		if strings.TrimSpace(req.JobTitle) != "" && req.JobContext.JobTitle == "" {
			req.JobContext.JobTitle = req.JobTitle
		}
		return req.JobContext, text
	}
	if text == "" && !needContext {
		return nil, ""
	}
	return extraction.ExtractJobContext(text, req.JobTitle), text
}
