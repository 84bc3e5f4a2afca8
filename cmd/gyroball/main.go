// gyroball rolls a ball around a walled playfield, steered by angular-rate
// samples from a keyboard, a synthetic oscillator, a CSV recording or a
// serial-attached gyroscope.
//
// Usage:
//
//	gyroball play              - Play in the terminal
//	gyroball run               - Run headless and log positions
//	gyroball serve             - Start SSH server for remote play
//	gyroball sources           - List sample sources
//	gyroball config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search path)
//	--preset <name>     - Feel preset: gentle, normal, twitchy, smoothed
//	--log-level <lvl>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gyroball/internal/config"

	// Import sensors to register them
	_ "github.com/vovakirdan/gyroball/internal/sensor"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gyroball",
	Short: "Gyroball - tilt a ball around the terminal",
	Long: `Gyroball integrates angular-rate samples into the velocity of a ball
and moves it around a bounded playfield with a single wall.

Available commands:
  play     - Play in the terminal
  run      - Run headless and log positions
  serve    - Start SSH server for remote play
  sources  - List sample sources
  config   - Print the effective configuration

Examples:
  gyroball play
  gyroball play --source synthetic --preset smoothed
  gyroball run --source replay --duration 30s
  gyroball serve --ssh :2222
  gyroball config --preset twitchy`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: search path)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Feel preset: gentle, normal, twitchy, smoothed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration from the search path and applies the
// preset flag on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyPreset(&cfg, config.Preset(flagPreset)); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newLogger creates a logger at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// fatal prints an error the way every command reports failures and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
