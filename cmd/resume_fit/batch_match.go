package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/server"
	"github.com/jonathan/resume-fit/internal/types"
)

var batchMatchCmd = &cobra.Command{
	Use:   "batch-match [profile.json | dir]...",
	Short: "Score many candidate profiles against one job posting",
	Long: "Score every given profile against one posting on a bounded worker pool. Directories are " +
		"expanded to the .json files they contain. Results are printed in input order.",
	Args: cobra.MinimumNArgs(1),
	RunE: runBatchMatch,
}

type batchMatchOptions struct {
	job     jobInput
	outFile string
	workers int
}

var batchMatchOpts batchMatchOptions

func init() {
	batchMatchCmd.Flags().StringVarP(&batchMatchOpts.job.jobFile, "job", "j", "", "Path to the job posting (.txt, .md, .html)")
	batchMatchCmd.Flags().StringVar(&batchMatchOpts.job.contextFile, "job-context", "", "Path to a job context JSON from extract-job")
	batchMatchCmd.Flags().StringVarP(&batchMatchOpts.job.title, "title", "t", "", "Job title (inferred from the posting when empty)")
	batchMatchCmd.Flags().StringVarP(&batchMatchOpts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	batchMatchCmd.Flags().IntVarP(&batchMatchOpts.workers, "workers", "w", 0, "Worker count (default batch.workers from config)")
	batchMatchCmd.MarkFlagsMutuallyExclusive("job", "job-context")
	batchMatchCmd.MarkFlagsOneRequired("job", "job-context")

	rootCmd.AddCommand(batchMatchCmd)
}

func runBatchMatch(cmd *cobra.Command, args []string) error {
	return batchMatchOpts.run(cmd.Context(), current, cmd.OutOrStdout(), args)
}

func (o batchMatchOptions) run(ctx context.Context, a *app, out io.Writer, args []string) error {
	paths, err := expandProfilePaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no profile files found")
	}

	profiles := make([]*types.CandidateProfile, len(paths))
	for i, path := range paths {
		if profiles[i], err = ingestion.LoadProfile(path); err != nil {
			return err
		}
	}

	jobCtx, _, err := o.job.load(a)
	if err != nil {
		return err
	}

	workers := o.workers
	if workers <= 0 {
		workers = a.cfg.Batch.Workers
	}
	a.log.Debug("matching batch", zap.Int("profiles", len(profiles)), zap.Int("workers", workers))

	results, err := matching.MatchBatch(ctx, profiles, jobCtx, workers)
	if err != nil {
		return err
	}

	if a.verbose {
		for i, res := range results {
			fmt.Fprintf(a.errOut, "%3d/100  %s\n", res.OverallMatchScore, paths[i])
		}
	}
	return a.writeJSON(out, o.outFile, server.BatchMatchResponse{Results: results}, "")
}
