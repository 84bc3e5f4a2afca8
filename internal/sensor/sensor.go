// Package sensor implements the angular-rate sources that drive the
// simulation: keyboard taps, a synthetic oscillator, CSV replay and a
// serial-attached gyroscope. Every source registers itself with the
// registry under its Name.
package sensor

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/gyroball/internal/config"
	"github.com/vovakirdan/gyroball/internal/registry"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// Registry names.
const (
	NameKeyboard  = "keyboard"
	NameSynthetic = "synthetic"
	NameReplay    = "replay"
	NameSerial    = "serial"
)

// ErrMissingSetting is returned by factories when a required setting is empty.
var ErrMissingSetting = errors.New("sensor: missing setting")

func init() {
	registry.Register(NameKeyboard, "arrow/WASD keys tap the tilt axes", func(cfg config.Sensor, _ registry.Env) (sim.Source, error) {
		return NewKeyboard(cfg.KeyboardRate), nil
	})

	registry.Register(NameSynthetic, "sine/cosine oscillation at jittered intervals", func(cfg config.Sensor, env registry.Env) (sim.Source, error) {
		if cfg.SyntheticPeriodMS <= 0 {
			return nil, fmt.Errorf("%w: synthetic_period_ms must be > 0", ErrMissingSetting)
		}
		return NewSynthetic(SyntheticOptions{
			Amplitude: cfg.SyntheticAmplitude,
			Period:    time.Duration(cfg.SyntheticPeriodMS) * time.Millisecond,
			Seed:      cfg.SyntheticSeed,
			Clock:     env.Clock,
		}), nil
	})

	registry.Register(NameReplay, "CSV recording of timestamp_ns,gyro_x,gyro_y", func(cfg config.Sensor, env registry.Env) (sim.Source, error) {
		if cfg.ReplayPath == "" {
			return nil, fmt.Errorf("%w: replay_path", ErrMissingSetting)
		}
		return NewReplayFile(cfg.ReplayPath, ReplayOptions{
			Speed:  cfg.ReplaySpeed,
			Clock:  env.Clock,
			Logger: env.Logger,
		}), nil
	})

	registry.Register(NameSerial, "gyroscope streaming \"x,y\" lines over a serial port", func(cfg config.Sensor, env registry.Env) (sim.Source, error) {
		if cfg.SerialPort == "" {
			return nil, fmt.Errorf("%w: serial_port", ErrMissingSetting)
		}
		return NewSerial(cfg.SerialPort, cfg.SerialBaud, env.Logger), nil
	})
}
