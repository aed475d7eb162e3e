package tailoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/prompts"
	"github.com/jonathan/resume-fit/internal/types"
)

const (
	polishPromptFile    = "tailoring.json"
	polishPromptKey     = "polish-suggestion"
	summaryPromptKey    = "summary-rewrite"
	maxRewriteKeywords  = 8
	defaultPolishWorker = 4
)

// Completer is the part of llm.Client the polisher needs
type Completer interface {
	GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

// Polisher rewrites suggestion descriptions through a generative model.
// A nil Polisher or nil client leaves suggestions untouched.
type Polisher struct {
	client  Completer
	tier    llm.ModelTier
	workers int
	timeout time.Duration
}

// NewPolisher returns a Polisher using the lite tier
func NewPolisher(client Completer) *Polisher {
	return &Polisher{client: client, tier: llm.TierLite, workers: defaultPolishWorker}
}

// WithTimeout bounds each model call. Zero means no per-call bound.
func (p *Polisher) WithTimeout(d time.Duration) *Polisher {
	p.timeout = d
	return p
}

type polishResponse struct {
	Description string `json:"description"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Polish returns a copy of suggestions with model-written descriptions. The
// returned slice is always complete: any suggestion whose rewrite fails keeps
// its templated description, and the returned error joins those failures.
// IDs, titles and every other field are preserved.
func (p *Polisher) Polish(ctx context.Context, jobTitle string, suggestions []types.TailoringSuggestion) ([]types.TailoringSuggestion, error) {
	out := make([]types.TailoringSuggestion, len(suggestions))
	copy(out, suggestions)
	if p == nil || p.client == nil || len(out) == 0 {
		return out, nil
	}

	failures := make([]error, len(out))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range out {
		g.Go(func() error {
			description, err := p.polishOne(ctx, jobTitle, out[i])
			if err != nil {
				failures[i] = fmt.Errorf("suggestion %s: %w", out[i].ID, err)
				return nil
			}
			out[i].Description = description
			return nil
		})
	}
	_ = g.Wait()

	return out, errors.Join(failures...)
}

func (p *Polisher) polishOne(ctx context.Context, jobTitle string, s types.TailoringSuggestion) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt, err := prompts.Render(polishPromptFile, polishPromptKey, map[string]string{
		"JobTitle":    jobTitle,
		"Section":     string(s.Section),
		"Title":       s.Title,
		"Description": s.Description,
	})
	if err != nil {
		return "", err
	}

	raw, err := p.complete(ctx, prompt, p.tier)
	if err != nil {
		return "", err
	}

	var resp polishResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &resp); err != nil {
		return "", fmt.Errorf("failed to parse polish response: %w", err)
	}
	description := strings.TrimSpace(resp.Description)
	if description == "" {
		return "", errors.New("empty polished description")
	}
	return description, nil
}

// RewriteSummary asks the standard tier for a rewritten professional summary
// that works in keywords. An empty summary, a nil Polisher or any failure
// returns the input summary; failures are also returned as the error.
func (p *Polisher) RewriteSummary(ctx context.Context, jobTitle, summary string, keywords []string) (string, error) {
	if p == nil || p.client == nil || strings.TrimSpace(summary) == "" {
		return summary, nil
	}
	prompt, err := prompts.Render(polishPromptFile, summaryPromptKey, map[string]string{
		"JobTitle": jobTitle,
		"Summary":  summary,
		"Keywords": strings.Join(firstN(keywords, maxRewriteKeywords), ", "),
	})
	if err != nil {
		return summary, err
	}

	raw, err := p.complete(ctx, prompt, llm.TierStandard)
	if err != nil {
		return summary, err
	}
	var resp summaryResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &resp); err != nil {
		return summary, fmt.Errorf("failed to parse summary response: %w", err)
	}
	rewritten := strings.TrimSpace(resp.Summary)
	if rewritten == "" {
		return summary, errors.New("empty rewritten summary")
	}
	return rewritten, nil
}

// SummaryKeywords lists the posting's must-have keywords, then its required
// skills, without case-insensitive repeats
func SummaryKeywords(jobCtx *types.JobContext) []string {
	if jobCtx == nil {
		return nil
	}
	out := make([]string, 0, len(jobCtx.MustHaveKeywords)+len(jobCtx.RequiredSkills))
	seen := make(map[string]bool)
	for _, list := range [][]string{jobCtx.MustHaveKeywords, jobCtx.RequiredSkills} {
		for _, k := range list {
			key := strings.ToLower(strings.TrimSpace(k))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, k)
		}
	}
	return out
}

func (p *Polisher) complete(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.client.GenerateJSON(ctx, prompt, tier)
}
