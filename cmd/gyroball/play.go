package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/platform/tui"
	"github.com/vovakirdan/gyroball/internal/registry"
	"github.com/vovakirdan/gyroball/internal/sim"
)

var flagPlaySource string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Show the playfield in the terminal and steer the ball.

Controls:
  Arrows/WASD  - Tilt (keyboard source)
  R            - Recenter the ball
  ?            - Toggle help
  Ctrl+S       - Save a screenshot to ~/.gyroball/screenshots
  Q/Esc        - Quit

Logs go to ~/.gyroball/gyroball.log while the playfield is shown.

Examples:
  gyroball play
  gyroball play --source synthetic
  gyroball play --preset gentle
  gyroball play --config ./my-gyroball.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlaySource, "source", "", "Sample source (default: sensor.source from config)")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("%v", err)
	}

	name := flagPlaySource
	if name == "" {
		name = cfg.Sensor.Source
	}
	if !registry.Exists(name) {
		fatal("unknown source %q\nRun 'gyroball sources' to see available sources.", name)
	}

	// stderr belongs to the alt screen, so log to a file
	logFile, err := openLogFile()
	if err != nil {
		fatal("%v", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "gyroball")
	if err != nil {
		fatal("%v", err)
	}

	src, err := registry.Create(name, cfg.Sensor, registry.Env{Logger: logger})
	if err != nil {
		fatal("%v", err)
	}

	loop, err := sim.NewLoop(cfg.SimConfig(), sim.WithLogger(logger))
	if err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srcErr := loop.Attach(src)
	if err := loop.Start(ctx); err != nil {
		fatal("%v", err)
	}

	// Get terminal size
	rc := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}

	presser, _ := src.(tui.Presser)
	runErr := tui.Run(loop, presser, rc)

	loop.Stop()
	if err := <-srcErr; err != nil && !errors.Is(err, context.Canceled) {
		fatal("source %s: %v", name, err)
	}
	if runErr != nil {
		fatal("%v", runErr)
	}
}

// openLogFile opens ~/.gyroball/gyroball.log for appending.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".gyroball")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "gyroball.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
