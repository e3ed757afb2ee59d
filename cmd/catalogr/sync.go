package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// syncCmd runs one source to completion in the foreground
var syncCmd = &cobra.Command{
	Use:   "sync <source>",
	Short: "Run one sync: movies, shows or a scraper name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		source := args[0]
		if !application.Sync.HasSource(source) {
			return fmt.Errorf("unknown source %q, expected one of: %s", source, strings.Join(application.Sync.Sources(), ", "))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stats, err := application.Sync.Run(ctx, source)
		if err != nil {
			return fmt.Errorf("sync %s failed: %w", source, err)
		}

		application.Logger.WithFields(logrus.Fields{
			"source":       source,
			"pages":        stats.Pages,
			"failed_pages": stats.FailedPages,
			"processed":    stats.Processed,
			"skipped":      stats.Skipped,
			"failed":       stats.Failed,
		}).Info("Sync finished")
		return nil
	},
}

// sourcesCmd lists the configured sources
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the sources sync accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		for _, source := range application.Sync.Sources() {
			fmt.Fprintln(cmd.OutOrStdout(), source)
		}
		return nil
	},
}
