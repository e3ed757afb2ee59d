package main

import (
	"fmt"
	"os"

	"github.com/amaumene/catalogr/internal/app"
	"github.com/amaumene/catalogr/internal/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "catalogr",
	Short:         "Movie and show catalog synchroniser",
	Long:          `catalogr keeps a catalog of movies and shows in sync with Trakt and merges torrents listed by YTS, EZTV and Torznab indexers into it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, syncCmd, sourcesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initialize loads the configuration and wires the application
func initialize() (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	application, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}

	return application, cleanup, nil
}
