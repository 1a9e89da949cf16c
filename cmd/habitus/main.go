package main

import (
	"fmt"
	"os"

	"github.com/arnold/habitus-api/internal/config"
	"github.com/arnold/habitus-api/internal/logger"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "habitus",
	Short: "Habitus habit tracking API",
	Long: `habitus serves the habit tracking API.

Goals are stored either in the database (DATA_BACKEND=database) or in a
single JSON block in a key-value store (DATA_BACKEND=mock).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.Init(!cfg.IsProduction(), cfg.LogLevel, cfg.SentryDSN)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		sentry.Flush(sentryFlushTimeout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, goalsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
