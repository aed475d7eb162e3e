package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/observability"
	"github.com/jonathan/resume-fit/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server exposing job context extraction, matching, tailoring, analytics and batch " +
		"matching. Results are stored when a database URL is configured.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default server.port from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a := current
	ctx := cmd.Context()
	if servePort > 0 {
		a.cfg.Server.Port = servePort
	}

	deps := server.Deps{
		Logger:  a.log,
		Metrics: observability.NewMetrics(),
	}

	if a.cfg.Database.URL != "" {
		db, err := a.openStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer db.Close()
		deps.Store = db
	} else {
		a.log.Info("no database configured, results will not be stored")
	}

	polisher, closeFn, err := a.newPolisher(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	if polisher != nil {
		deps.Polisher = polisher
	}

	srv := server.New(server.Config{
		Addr:            a.cfg.Addr(),
		ReadTimeout:     a.cfg.Server.ReadTimeout,
		WriteTimeout:    a.cfg.Server.WriteTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		RateLimitRPM:    a.cfg.Server.RateLimit.RPM,
		RateLimitBurst:  a.cfg.Server.RateLimit.Burst,
		BatchWorkers:    a.cfg.Batch.Workers,
	}, deps)

	a.log.Info("starting server",
		zap.String("addr", a.cfg.Addr()),
		zap.Bool("store", deps.Store != nil),
		zap.Bool("polish", deps.Polisher != nil))
	return srv.Run(ctx)
}
