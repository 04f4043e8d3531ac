// Package main provides the pindora CLI: the report API server plus commands
// for fetching and normalizing molecule reports from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/pindora-shield/internal/config"
	"github.com/jonathan/pindora-shield/internal/logging"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "pindora",
		Short:         "Pindora molecule report service",
		Long:          "Pindora fetches molecule reports from the compute backend, normalizes them into structured markdown and serves them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON lines instead of console output")

	rootCmd.AddCommand(
		newServeCmd(a),
		newReportCmd(a),
		newBatchCmd(a),
		newNormalizeCmd(a),
	)
	return rootCmd
}

// init loads configuration and builds the logger. Logs go to stderr so
// command output on stdout stays machine-readable.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.log = logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:   cfg.LogLevel,
		Console: !a.logJSON,
	})
	cmd.SetContext(a.log.WithContext(cmd.Context()))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
