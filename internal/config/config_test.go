package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/motion"
	"github.com/vovakirdan/gyroball/internal/sim"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults differ from DefaultConfig():\n got %+v\nwant %+v", cfg, DefaultConfig())
	}
}

func TestDefaultSimConfigMatchesCore(t *testing.T) {
	got := DefaultConfig().SimConfig()
	want := sim.DefaultConfig()

	if got != want {
		t.Errorf("SimConfig() = %+v, expected %+v", got, want)
	}
}

func TestSimConfigConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loop.IntervalMS = 20
	cfg.Obstacle = Obstacle{Left: 1, Top: 2, Right: 3, Bottom: 4}
	cfg.Ball = Ball{Radius: 5, StartX: 6, StartY: 7}
	cfg.Integrator.Mode = "smoothed"

	sc := cfg.SimConfig()
	if sc.Interval != 20*time.Millisecond {
		t.Errorf("Interval = %v, expected 20ms", sc.Interval)
	}
	if sc.Obstacle != core.NewRect(1, 2, 3, 4) {
		t.Errorf("Obstacle = %+v", sc.Obstacle)
	}
	if sc.BallRadius != 5 || sc.Start != core.V(6, 7) {
		t.Errorf("ball = %v / %v", sc.BallRadius, sc.Start)
	}
	if sc.Motion.Mode != motion.ModeSmoothed {
		t.Errorf("Mode = %q, expected smoothed", sc.Motion.Mode)
	}
}

func TestParsePartialOverridesDefaults(t *testing.T) {
	data := []byte(`
integrator:
  decay: 0.5
ball:
  radius: 25
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Integrator.Decay != 0.5 {
		t.Errorf("Decay = %v, expected 0.5", cfg.Integrator.Decay)
	}
	if cfg.Integrator.Sensitivity != 10 {
		t.Errorf("Sensitivity = %v, expected default 10", cfg.Integrator.Sensitivity)
	}
	if cfg.Ball.Radius != 25 || cfg.Ball.StartX != 500 {
		t.Errorf("Ball = %+v", cfg.Ball)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("integrator:\n  sensitivty: 3\n")); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestParseEmptyAndCommentOnly(t *testing.T) {
	for _, data := range []string{"", "# nothing here\n"} {
		cfg, err := Parse([]byte(data))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", data, err)
		}
		if cfg != DefaultConfig() {
			t.Errorf("Parse(%q) should return defaults", data)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("integrator:\n  sensitivity: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Integrator.Sensitivity != 3 {
		t.Errorf("Sensitivity = %v, expected 3", cfg.Integrator.Sensitivity)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("integrator: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(path, []byte("integrator:\n  decay: 1.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var cfgErr *sim.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *sim.ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "motion" {
		t.Errorf("Field = %q, expected motion", cfgErr.Field)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", FileName), []byte("loop:\n  interval_ms: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Loop.IntervalMS != 30 {
		t.Errorf("IntervalMS = %d, expected 30", cfg.Loop.IntervalMS)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "sensitivity: 10") {
		t.Errorf("marshalled YAML missing sensitivity:\n%s", data)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset      Preset
		sensitivity float64
		decay       float64
		mode        string
	}{
		{PresetGentle, 6, 0.85, "literal"},
		{PresetNormal, 10, 0.90, "literal"},
		{PresetTwitchy, 16, 0.94, "literal"},
		{PresetSmoothed, 40, 0.90, "smoothed"},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultConfig()
			if err := ApplyPreset(&cfg, tc.preset); err != nil {
				t.Fatalf("ApplyPreset() error = %v", err)
			}
			if cfg.Integrator.Sensitivity != tc.sensitivity || cfg.Integrator.Decay != tc.decay || cfg.Integrator.Mode != tc.mode {
				t.Errorf("integrator = %+v", cfg.Integrator)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset produces invalid config: %v", err)
			}
		})
	}
}

func TestApplyPresetUnknownAndEmpty(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyPreset(&cfg, ""); err != nil || cfg != DefaultConfig() {
		t.Errorf("empty preset should be a no-op, err = %v", err)
	}
	if err := ApplyPreset(&cfg, "wobbly"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetsSorted(t *testing.T) {
	got := Presets()
	want := []Preset{PresetGentle, PresetNormal, PresetSmoothed, PresetTwitchy}
	if len(got) != len(want) {
		t.Fatalf("Presets() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Presets()[%d] = %q, expected %q", i, got[i], want[i])
		}
	}
}
