// Package main is the deskinput command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/frudas24/deskinput/internal/config"
	"github.com/frudas24/deskinput/internal/input"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/monitor"
	"github.com/frudas24/deskinput/internal/synth"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "deskinput",
	Short:         "Synthesize mouse and keyboard input",
	Long:          `deskinput injects mouse and keyboard input through the native backend of the host and serves it to a remote operator.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "deskinput %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(displaysCmd)
	rootCmd.AddCommand(calibrateCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path (default ./data/"+config.FileName+")")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose debug logging")
}

// main is the entrypoint for the deskinput CLI.
func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "deskinput:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config and installs the logger.
func loadConfig(cmd *cobra.Command) (config.Config, bool, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, false, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.Init(cfg.LogFormat, level, nil)
	return cfg, debug, nil
}

// openSystem selects the input backend and wraps it in the synth facade.
func openSystem(cfg config.Config) *synth.System {
	backend := input.New(input.Options{
		Backend:       cfg.InputBackend,
		DisplayWidth:  cfg.DisplayWidth,
		DisplayHeight: cfg.DisplayHeight,
	})
	return synth.New(backend, synth.Options{
		DragStepDelay: time.Duration(cfg.DragStepDelayMs) * time.Millisecond,
		Monitors:      monitor.ListMonitors,
	})
}
