package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trendpulse/internal/config"
	"trendpulse/internal/logger"
	"trendpulse/internal/scheduler"
	"trendpulse/internal/server"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port        int
		host        string
		noScheduler bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the TrendPulse API server.

The server provides:
  • Keyword management endpoints
  • On-demand insight generation
  • Generated post retrieval
  • Health check and status endpoints

With the scheduler enabled (the default), insights are also generated
automatically for every active keyword at the configured hours.

Examples:
  # Start server on default port 8000
  trendpulse serve

  # Start on custom port without the scheduler
  trendpulse serve --port 3000 --no-scheduler`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, noScheduler)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8000)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Disable the daily generation schedule")

	return cmd
}

func runServe(port int, host string, noScheduler bool) error {
	cfg := config.Get()

	serverCfg := cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pl := buildPipeline(cfg, st)
	srv := server.New(st, pl, serverCfg)

	if cfg.Scheduler.Enabled && !noScheduler {
		sched := scheduler.New(pl, cfg.Scheduler.Hours)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	} else {
		logger.Info("scheduler disabled, insights are generated manually only")
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on http://%s:%d", serverCfg.Host, serverCfg.Port))
		logger.Info("Press Ctrl+C to stop")
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("server shutdown initiated", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("server stopped")
	}

	return nil
}
