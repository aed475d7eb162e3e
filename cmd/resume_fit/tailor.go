package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/logger"
	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/store"
	"github.com/jonathan/resume-fit/internal/tailoring"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Suggest résumé edits for a job posting",
	Long: "Match a candidate profile against a job posting and generate prioritized tailoring suggestions. " +
		"With --auto-apply the output also carries a tailored copy of the profile; with --polish the " +
		"suggestion descriptions, and the tailored summary, are rewritten by the configured LLM.",
	RunE: runTailor,
}

type tailorOptions struct {
	profileFile string
	job         jobInput
	outFile     string
	autoApply   bool
	polish      bool
	save        bool
}

var tailorOpts tailorOptions

func init() {
	tailorCmd.Flags().StringVarP(&tailorOpts.profileFile, "profile", "p", "", "Path to the candidate profile JSON")
	tailorCmd.Flags().StringVarP(&tailorOpts.job.jobFile, "job", "j", "", "Path to the job posting (.txt, .md, .html)")
	tailorCmd.Flags().StringVar(&tailorOpts.job.contextFile, "job-context", "", "Path to a job context JSON from extract-job")
	tailorCmd.Flags().StringVarP(&tailorOpts.job.title, "title", "t", "", "Job title (inferred from the posting when empty)")
	tailorCmd.Flags().StringVarP(&tailorOpts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	tailorCmd.Flags().BoolVar(&tailorOpts.autoApply, "auto-apply", false, "Include an auto-tailored copy of the profile")
	tailorCmd.Flags().BoolVar(&tailorOpts.polish, "polish", false, "Rewrite suggestion descriptions with the LLM (requires llm.enabled)")
	tailorCmd.Flags().BoolVar(&tailorOpts.save, "save", false, "Store the result in the database")
	_ = tailorCmd.MarkFlagRequired("profile")
	tailorCmd.MarkFlagsMutuallyExclusive("job", "job-context")
	tailorCmd.MarkFlagsOneRequired("job", "job-context")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	return tailorOpts.run(cmd.Context(), current, cmd.OutOrStdout())
}

func (o tailorOptions) run(ctx context.Context, a *app, out io.Writer) error {
	profile, err := ingestion.LoadProfile(o.profileFile)
	if err != nil {
		return err
	}
	jobCtx, text, err := o.job.load(a)
	if err != nil {
		return err
	}

	analysis, err := matching.MatchProfileToJob(profile, jobCtx)
	if err != nil {
		return err
	}
	result, err := tailoring.Tailor(profile, analysis, o.autoApply)
	if err != nil {
		return err
	}

	if o.polish {
		if !a.cfg.LLM.Enabled {
			a.log.Warn("--polish ignored: llm.enabled is false")
		} else {
			polisher, closeFn, err := a.newPolisher(ctx)
			if err != nil {
				return err
			}
			defer closeFn()
			// Polish always returns a complete slice; failures keep templated text
			result.Suggestions, err = polisher.Polish(ctx, jobCtx.JobTitle, result.Suggestions)
			if err != nil {
				a.log.Warn("some suggestions kept their templated text",
					zap.String(logger.FieldJobTitle, jobCtx.JobTitle),
					zap.Error(err))
			}
			if result.TailoredProfile != nil {
				result.TailoredProfile.Summary, err = polisher.RewriteSummary(ctx, jobCtx.JobTitle,
					result.TailoredProfile.Summary, tailoring.SummaryKeywords(jobCtx))
				if err != nil {
					a.log.Warn("summary kept its templated text",
						zap.String(logger.FieldJobTitle, jobCtx.JobTitle),
						zap.Error(err))
				}
			}
		}
	}

	if p := a.printer(); p != nil {
		p.PrintAnalysis(result.Analysis)
		p.PrintSuggestions(result.Suggestions)
	}
	if err := a.writeJSON(out, o.outFile, result, ""); err != nil {
		return err
	}
	if o.save {
		return a.saveResult(ctx, store.KindTailor, text, jobCtx, profile, result)
	}
	return nil
}
