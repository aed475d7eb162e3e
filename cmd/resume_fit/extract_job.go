package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

var extractJobCmd = &cobra.Command{
	Use:   "extract-job",
	Short: "Extract a structured job context from a posting",
	Long: "Extract skills, experience requirements, company signals, keywords and scoring weights from a " +
		"plain text, Markdown or HTML job posting and print them as JSON.",
	RunE: runExtractJob,
}

type extractJobOptions struct {
	job     jobInput
	outFile string
	save    bool
}

var extractJobOpts extractJobOptions

func init() {
	extractJobCmd.Flags().StringVarP(&extractJobOpts.job.jobFile, "job", "j", "", "Path to the job posting (.txt, .md, .html)")
	extractJobCmd.Flags().StringVarP(&extractJobOpts.job.title, "title", "t", "", "Job title (inferred from the posting when empty)")
	extractJobCmd.Flags().StringVarP(&extractJobOpts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	extractJobCmd.Flags().BoolVar(&extractJobOpts.save, "save", false, "Store the posting and its context in the database")
	_ = extractJobCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(extractJobCmd)
}

func runExtractJob(cmd *cobra.Command, _ []string) error {
	return extractJobOpts.run(cmd.Context(), current, cmd.OutOrStdout())
}

func (o extractJobOptions) run(ctx context.Context, a *app, out io.Writer) error {
	jobCtx, text, err := o.job.load(a)
	if err != nil {
		return err
	}
	if p := a.printer(); p != nil {
		p.PrintJobContext(jobCtx)
	}
	if err := a.writeJSON(out, o.outFile, jobCtx, schemaJobContext); err != nil {
		return err
	}
	if o.save {
		return a.savePosting(ctx, text, jobCtx)
	}
	return nil
}
