// Package main provides the resume_fit command line tool and HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/config"
	"github.com/jonathan/resume-fit/internal/logger"
)

var (
	configFile string
	verbose    bool
	jsonLog    bool
)

// current is the application state built before any subcommand runs
var current *app

var rootCmd = &cobra.Command{
	Use:   "resume_fit",
	Short: "Match résumé profiles against job postings",
	Long: "resume_fit extracts structured context from job postings, scores candidate profiles against them, " +
		"suggests résumé edits and reports section-by-section résumé analytics.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or JSON config file (default ./resume_fit.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print a readable report to stderr and enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Emit logs as JSON")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("json-log") {
		cfg.Log.JSON = jsonLog
	}
	if verbose {
		cfg.Log.Debug = true
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log = logger.WithFields(log, zap.String(logger.FieldCommand, cmd.Name()))

	current = newApp(cfg, log, verbose, cmd.ErrOrStderr())
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if current != nil {
		_ = current.log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
