package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-fit/internal/analytics"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/server"
	"github.com/jonathan/resume-fit/internal/store"
	"github.com/jonathan/resume-fit/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score résumé sections and report strengths and next steps",
	Long: "Score each résumé section, roll the scores into an overall score and report strengths, " +
		"weaknesses, opportunities, a competitor estimate and an improvement roadmap. A posting is " +
		"optional; when given, skills coverage is checked against it. --applications adds response " +
		"and interview rates from a JSON list of past applications.",
	RunE: runAnalyze,
}

type analyzeOptions struct {
	profileFile      string
	job              jobInput
	applicationsFile string
	outFile          string
	save             bool
}

var analyzeOpts analyzeOptions

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOpts.profileFile, "profile", "p", "", "Path to the candidate profile JSON")
	analyzeCmd.Flags().StringVarP(&analyzeOpts.job.jobFile, "job", "j", "", "Optional job posting (.txt, .md, .html)")
	analyzeCmd.Flags().StringVar(&analyzeOpts.job.contextFile, "job-context", "", "Optional job context JSON from extract-job")
	analyzeCmd.Flags().StringVarP(&analyzeOpts.job.title, "title", "t", "", "Job title (inferred from the posting when empty)")
	analyzeCmd.Flags().StringVar(&analyzeOpts.applicationsFile, "applications", "", "Optional JSON list of applications to summarise")
	analyzeCmd.Flags().StringVarP(&analyzeOpts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.save, "save", false, "Store the result in the database")
	_ = analyzeCmd.MarkFlagRequired("profile")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-context")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	return analyzeOpts.run(cmd.Context(), current, cmd.OutOrStdout())
}

func (o analyzeOptions) run(ctx context.Context, a *app, out io.Writer) error {
	profile, err := ingestion.LoadProfile(o.profileFile)
	if err != nil {
		return err
	}

	var jobCtx *types.JobContext
	var text string
	if o.job.provided() {
		if jobCtx, text, err = o.job.load(a); err != nil {
			return err
		}
	}

	report, err := analytics.AnalyzeResumeSections(profile, jobCtx)
	if err != nil {
		return err
	}
	resp := server.AnalyzeResponse{ResumeAnalytics: report}
	if o.applicationsFile != "" {
		apps, err := loadApplications(o.applicationsFile)
		if err != nil {
			return err
		}
		perf := analytics.TrackApplicationPerformance(apps)
		resp.Performance = &perf
	}

	if p := a.printer(); p != nil {
		p.PrintAnalytics(report)
	}
	if err := a.writeJSON(out, o.outFile, resp, schemaAnalytics); err != nil {
		return err
	}
	if o.save {
		return a.saveResult(ctx, store.KindAnalytics, text, jobCtx, profile, report)
	}
	return nil
}

func loadApplications(path string) ([]types.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read applications file: %w", err)
	}
	var apps []types.Application
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&apps); err != nil {
		return nil, fmt.Errorf("failed to decode applications: %w", err)
	}
	return apps, nil
}
