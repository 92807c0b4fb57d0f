// Package main is the entry point for espresso, the market analytics and
// trade idea service. `espresso serve` runs the HTTP API; the other
// subcommands print one analytics result as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/espresso/internal/config"
	"github.com/aristath/espresso/internal/di"
	"github.com/aristath/espresso/pkg/logger"
)

// Global state shared by subcommands, set in the root pre-run
var (
	cfg       *config.Config
	log       zerolog.Logger
	container *di.Container
	jobs      *di.JobInstances
)

var rootCmd = &cobra.Command{
	Use:           "espresso",
	Short:         "Market analytics and trade idea scoring",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log = logger.New(logger.Config{
			Level:  cfg.LogLevel,
			Pretty: cfg.LogPretty,
			Output: logOutput(cmd),
		})
		logger.SetGlobalLogger(log)

		container, jobs, err = di.Wire(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to wire dependencies: %w", err)
		}
		return nil
	},
}

// logOutput keeps stdout clean for the JSON printing subcommands
func logOutput(cmd *cobra.Command) *os.File {
	if cmd == serveCmd {
		return os.Stdout
	}
	return os.Stderr
}

func main() {
	rootCmd.AddCommand(serveCmd)
	addQueryCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "espresso:", err)
		os.Exit(1)
	}
}
