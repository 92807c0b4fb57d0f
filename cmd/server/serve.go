package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/espresso/internal/server"
)

var warmOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the HTTP API and the scheduled cache warm-up and cleanup jobs. Stops gracefully on SIGINT or SIGTERM.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&warmOnStart, "warm", false, "run one cache warm-up pass at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := server.New(server.Config{
		Log:              log,
		Analytics:        container.Analytics,
		Gatherer:         container.Registry,
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
		OpportunityLimit: cfg.OpportunityLimit,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	container.Scheduler.Start()
	if warmOnStart {
		go func() {
			if err := container.Scheduler.RunNow(jobs.Warmup); err != nil {
				log.Warn().Err(err).Msg("Startup warm-up failed")
			}
		}()
	}
	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("HTTP server failed")
	}

	log.Info().Msg("Shutting down server...")
	container.Scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
	return runErr
}
