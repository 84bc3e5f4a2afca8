package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gyroball/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration gyroball would run with, after the search path
and --preset have been applied. Redirect it to a file to start a custom
configuration.

Search order:
  --config path -> ~/.gyroball/configs/gyroball.yaml -> ./configs/gyroball.yaml -> built-in

Examples:
  gyroball config
  gyroball config --preset twitchy > ~/.gyroball/configs/gyroball.yaml
  gyroball config --defaults`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in default file with comments")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigDefaults {
		//nolint:errcheck // Best-effort write to stdout
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal("%v", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fatal("%v", err)
	}

	//nolint:errcheck // Best-effort write to stdout
	os.Stdout.Write(data)
}
