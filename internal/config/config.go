// Package config provides YAML-based configuration loading and feel presets
// for the ball simulation.
package config

import (
	"time"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/motion"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// Config contains the full gyroball configuration.
type Config struct {
	Integrator Integrator `yaml:"integrator"`
	Loop       Loop       `yaml:"loop"`
	Playfield  Playfield  `yaml:"playfield"`
	Obstacle   Obstacle   `yaml:"obstacle"`
	Ball       Ball       `yaml:"ball"`
	Sensor     Sensor     `yaml:"sensor"`
}

// Integrator defines how samples become velocity.
type Integrator struct {
	Sensitivity float64 `yaml:"sensitivity"`
	Decay       float64 `yaml:"decay"`
	Mode        string  `yaml:"mode"` // "literal" or "smoothed"
}

// Loop defines the tick cadence.
type Loop struct {
	IntervalMS int `yaml:"interval_ms"`
}

// Playfield defines the limits for the ball centre.
type Playfield struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// Obstacle defines the static wall.
type Obstacle struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// Ball defines the ball size and start point.
type Ball struct {
	Radius float64 `yaml:"radius"`
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
}

// Sensor selects and tunes the sample source.
type Sensor struct {
	Source             string  `yaml:"source"`              // Registry name
	KeyboardRate       float64 `yaml:"keyboard_rate"`       // Angular rate per key press
	SyntheticAmplitude float64 `yaml:"synthetic_amplitude"` // Peak angular rate
	SyntheticPeriodMS  int     `yaml:"synthetic_period_ms"` // Full oscillation period
	SyntheticSeed      int64   `yaml:"synthetic_seed"`      // 0 = time based
	ReplayPath         string  `yaml:"replay_path"`         // CSV recording
	ReplaySpeed        float64 `yaml:"replay_speed"`        // 2.0 = twice as fast
	SerialPort         string  `yaml:"serial_port"`         // e.g. /dev/ttyUSB0
	SerialBaud         int     `yaml:"serial_baud"`
}

// SimConfig converts the file representation to the simulation core's
// configuration. The result is not validated; sim.NewLoop does that.
func (c Config) SimConfig() sim.Config {
	return sim.Config{
		Motion: motion.Params{
			Sensitivity: c.Integrator.Sensitivity,
			Decay:       c.Integrator.Decay,
			Mode:        motion.Mode(c.Integrator.Mode),
		},
		Interval: time.Duration(c.Loop.IntervalMS) * time.Millisecond,
		Bounds: core.Bounds{
			MinX: c.Playfield.MinX,
			MaxX: c.Playfield.MaxX,
			MinY: c.Playfield.MinY,
			MaxY: c.Playfield.MaxY,
		},
		Obstacle:   core.NewRect(c.Obstacle.Left, c.Obstacle.Top, c.Obstacle.Right, c.Obstacle.Bottom),
		BallRadius: c.Ball.Radius,
		Start:      core.V(c.Ball.StartX, c.Ball.StartY),
	}
}

// Validate checks the simulation part of the configuration.
func (c Config) Validate() error {
	return c.SimConfig().Validate()
}
