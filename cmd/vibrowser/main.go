// Command vibrowser is the operational CLI surface around the
// deterministic browser-engine core: navigate a document through the
// render pipeline, evaluate the request policy engine standalone, or
// capture a stage-by-stage render trace.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vibrowser",
	Short: "Deterministic browser-engine core: parse, cascade, layout, render, and gate requests",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level diagnostics")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a viewport/policy YAML config file")

	rootCmd.AddCommand(navigateCmd, checkPolicyCmd, renderTraceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
