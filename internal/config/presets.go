package config

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/gyroball/internal/motion"
)

// Preset represents a named feel for the ball.
type Preset string

const (
	PresetGentle   Preset = "gentle"
	PresetNormal   Preset = "normal"
	PresetTwitchy  Preset = "twitchy"
	PresetSmoothed Preset = "smoothed"
)

// presetParams maps each preset to its integrator tuning.
var presetParams = map[Preset]motion.Params{
	PresetGentle:   {Sensitivity: 6, Decay: 0.85, Mode: motion.ModeLiteral},
	PresetNormal:   motion.DefaultParams(),
	PresetTwitchy:  {Sensitivity: 16, Decay: 0.94, Mode: motion.ModeLiteral},
	PresetSmoothed: {Sensitivity: 40, Decay: 0.90, Mode: motion.ModeSmoothed},
}

// Presets returns all preset names, sorted.
func Presets() []Preset {
	names := make([]Preset, 0, len(presetParams))
	for p := range presetParams {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ParamsForPreset returns the integrator tuning for a preset.
func ParamsForPreset(preset Preset) (motion.Params, bool) {
	p, ok := presetParams[preset]
	return p, ok
}

// ApplyPreset overwrites the integrator section of cfg with the preset's
// tuning. An empty preset leaves cfg untouched.
func ApplyPreset(cfg *Config, preset Preset) error {
	if preset == "" {
		return nil
	}
	p, ok := ParamsForPreset(preset)
	if !ok {
		return fmt.Errorf("config: unknown preset %q (want one of %v)", preset, Presets())
	}
	cfg.Integrator.Sensitivity = p.Sensitivity
	cfg.Integrator.Decay = p.Decay
	cfg.Integrator.Mode = string(p.Mode)
	return nil
}
