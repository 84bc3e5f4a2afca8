package config

import (
	_ "embed"
)

//go:embed defaults/gyroball.yaml
var defaultYAML []byte

// DefaultConfig returns the stock configuration, matching defaults/gyroball.yaml.
func DefaultConfig() Config {
	return Config{
		Integrator: Integrator{
			Sensitivity: 10.0,
			Decay:       0.90,
			Mode:        "literal",
		},
		Loop: Loop{
			IntervalMS: 15,
		},
		Playfield: Playfield{
			MinX: 50,
			MaxX: 950,
			MinY: 50,
			MaxY: 1600,
		},
		Obstacle: Obstacle{
			Left:   200,
			Top:    700,
			Right:  900,
			Bottom: 800,
		},
		Ball: Ball{
			Radius: 40,
			StartX: 500,
			StartY: 500,
		},
		Sensor: Sensor{
			Source:             "keyboard",
			KeyboardRate:       2.0,
			SyntheticAmplitude: 1.5,
			SyntheticPeriodMS:  4000,
			ReplaySpeed:        1.0,
			SerialBaud:         115200,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
