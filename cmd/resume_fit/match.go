package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a candidate profile against a job posting",
	Long: "Score a candidate profile against a job posting or an extracted job context. The result lists " +
		"per-skill matches, the overall 0-100 score, missing skills and improvement hints.",
	RunE: runMatch,
}

type matchOptions struct {
	profileFile string
	job         jobInput
	outFile     string
	save        bool
}

var matchOpts matchOptions

func init() {
	matchCmd.Flags().StringVarP(&matchOpts.profileFile, "profile", "p", "", "Path to the candidate profile JSON")
	matchCmd.Flags().StringVarP(&matchOpts.job.jobFile, "job", "j", "", "Path to the job posting (.txt, .md, .html)")
	matchCmd.Flags().StringVar(&matchOpts.job.contextFile, "job-context", "", "Path to a job context JSON from extract-job")
	matchCmd.Flags().StringVarP(&matchOpts.job.title, "title", "t", "", "Job title (inferred from the posting when empty)")
	matchCmd.Flags().StringVarP(&matchOpts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	matchCmd.Flags().BoolVar(&matchOpts.save, "save", false, "Store the result in the database")
	_ = matchCmd.MarkFlagRequired("profile")
	matchCmd.MarkFlagsMutuallyExclusive("job", "job-context")
	matchCmd.MarkFlagsOneRequired("job", "job-context")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	return matchOpts.run(cmd.Context(), current, cmd.OutOrStdout())
}

func (o matchOptions) run(ctx context.Context, a *app, out io.Writer) error {
	profile, err := ingestion.LoadProfile(o.profileFile)
	if err != nil {
		return err
	}
	jobCtx, text, err := o.job.load(a)
	if err != nil {
		return err
	}

	result, err := matching.MatchProfileToJob(profile, jobCtx)
	if err != nil {
		return err
	}
	if p := a.printer(); p != nil {
		p.PrintAnalysis(result)
	}
	if err := a.writeJSON(out, o.outFile, result, schemaAnalysis); err != nil {
		return err
	}
	if o.save {
		return a.saveResult(ctx, store.KindMatch, text, jobCtx, profile, result)
	}
	return nil
}
