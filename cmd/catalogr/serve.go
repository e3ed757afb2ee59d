package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serveCmd runs the scheduler and the HTTP server until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled syncs and the status API",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		logger := application.Logger
		logger.Info("Starting catalogr")

		if err := application.Scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer application.Scheduler.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serverErrChan := make(chan error, 1)
		go func() {
			if err := application.Server.Start(ctx); err != nil {
				serverErrChan <- err
			}
		}()

		// Wait for shutdown signal
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		logger.Info("catalogr is running")

		select {
		case err := <-serverErrChan:
			return fmt.Errorf("server error: %w", err)
		case sig := <-sigChan:
			logger.WithField("signal", sig).Info("Received shutdown signal")
			cancel()
			if err := application.Server.Shutdown(); err != nil {
				logger.WithError(err).Error("Error during server shutdown")
			}
		}

		logger.Info("catalogr stopped")
		return nil
	},
}
