package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simaogato/stockwalk/internal/config"
	"github.com/simaogato/stockwalk/internal/logger"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "dev"

// RootConfig holds the persistent flags shared by every command
type RootConfig struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCmd builds the command tree
// Running the root command without a subcommand prints the averages report
func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "stockwalk",
		Short: "Synthetic ten-year closing price histories and averages",
		Long: `Stockwalk loads an instrument reference table, synthesizes a ten-year daily
closing-price history for every instrument with a random walk, and reports
each instrument's average closing price.

Use "stockwalk serve" to expose the memoized price lookups over gRPC.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, rc)
		},
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.AddCommand(
		newReportCmd(rc),
		newServeCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockwalk %s\n", version)
		},
	})

	return cmd
}

// Execute runs the command tree and exits non-zero on error
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("stockwalk failed", "error", err)
		os.Exit(1)
	}
}

// setup loads the configuration and installs the logger
func setup(cmd *cobra.Command, rc *RootConfig) (*config.Config, error) {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return nil, err
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger.InitWriter(cmd.ErrOrStderr(), "stockwalk", level, cfg.Log.Format)

	return cfg, nil
}
