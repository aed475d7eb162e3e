package matching

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-fit/internal/types"
)

// MatchBatch scores every profile against one job context on a bounded
// worker pool. Results are returned in input order. workers <= 0 uses
// GOMAXPROCS. A cancelled ctx stops scheduling and returns ctx.Err(); a nil
// profile fails the batch with a BatchError wrapping an InvalidArgumentError.
func MatchBatch(ctx context.Context, profiles []*types.CandidateProfile, jobCtx *types.JobContext, workers int) ([]*types.JobAnalysisResult, error) {
	if jobCtx == nil {
		return nil, &InvalidArgumentError{Field: "context", Message: "must not be nil"}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*types.JobAnalysisResult, len(profiles))
	now := time.Now()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, profile := range profiles {
		if err := gCtx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := MatchProfileToJobAt(profile, jobCtx, now)
			if err != nil {
				return &BatchError{Index: i, Cause: err}
			}
			// Each goroutine owns its slot
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
