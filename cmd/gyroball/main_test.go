package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gyroball/internal/sensor"
	"github.com/vovakirdan/gyroball/internal/sim"
)

func setFlags(t *testing.T, cfgPath, preset, level string) {
	t.Helper()
	oldCfg, oldPreset, oldLevel := flagConfig, flagPreset, flagLogLevel
	flagConfig, flagPreset, flagLogLevel = cfgPath, preset, level
	t.Cleanup(func() {
		flagConfig, flagPreset, flagLogLevel = oldCfg, oldPreset, oldLevel
	})
}

func TestLoadConfigAppliesPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gyroball.yaml")
	if err := os.WriteFile(path, []byte("ball:\n  radius: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	setFlags(t, path, "twitchy", "info")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Ball.Radius != 30 {
		t.Errorf("Radius = %v, expected 30 from file", cfg.Ball.Radius)
	}
	if cfg.Integrator.Sensitivity != 16 {
		t.Errorf("Sensitivity = %v, expected 16 from preset", cfg.Integrator.Sensitivity)
	}
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "info")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for missing config file")
	}

	path := filepath.Join(t.TempDir(), "gyroball.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	setFlags(t, path, "wobbly", "info")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	setFlags(t, "", "", "warn")

	var buf bytes.Buffer
	logger, err := newLogger(&buf, "test")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output %q", buf.String())
	}

	setFlags(t, "", "", "loud")
	if _, err := newLogger(&buf, "test"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestReporterLogsEveryN(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(log.New(&buf), 2)

	for i := 0; i < 5; i++ {
		r.OnPositionUpdated(float64(i), 0)
	}

	if got := strings.Count(buf.String(), "position"); got != 2 {
		t.Errorf("logged %d positions, expected 2:\n%s", got, buf.String())
	}
}

func newHeadlessLoop(t *testing.T) (*sim.Loop, *sim.MockClock) {
	t.Helper()
	clk := sim.NewMockClock(time.Unix(0, 0))
	loop, err := sim.NewLoop(sim.DefaultConfig(), sim.WithClock(clk), sim.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("NewLoop() error = %v", err)
	}
	return loop, clk
}

func TestHeadlessEndsWithSource(t *testing.T) {
	loop, clk := newHeadlessLoop(t)
	src := sensor.NewReplayReader(strings.NewReader("0,1,0\n0,1,0\n"), sensor.ReplayOptions{
		Clock:  clk,
		Logger: log.New(io.Discard),
	})

	if err := headless(context.Background(), loop, src); err != nil {
		t.Fatalf("headless() error = %v", err)
	}

	st := loop.Stats()
	if st.Accepted != 2 {
		t.Errorf("Accepted = %d, expected 2", st.Accepted)
	}
	if st.Running {
		t.Error("loop should be stopped")
	}
}

func TestHeadlessReportsSourceError(t *testing.T) {
	loop, _ := newHeadlessLoop(t)
	src := sensor.NewReplayFile(filepath.Join(t.TempDir(), "missing.csv"), sensor.ReplayOptions{Logger: log.New(io.Discard)})

	err := headless(context.Background(), loop, src)
	if err == nil || !strings.Contains(err.Error(), "open replay") {
		t.Errorf("expected open error, got %v", err)
	}
}

func TestHeadlessStopsOnContext(t *testing.T) {
	loop, _ := newHeadlessLoop(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- headless(ctx, loop, sensor.NewKeyboard(1)) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("headless() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("headless did not stop")
	}
}
