package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/motion"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10.0, cfg.Motion.Sensitivity)
	assert.Equal(t, 0.90, cfg.Motion.Decay)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, core.Bounds{MinX: 50, MaxX: 950, MinY: 50, MaxY: 1600}, cfg.Bounds)
	assert.Equal(t, core.NewRect(200, 700, 900, 800), cfg.Obstacle)
	assert.Equal(t, 40.0, cfg.BallRadius)
	assert.Equal(t, core.V(500, 500), cfg.Start)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"decay too high", func(c *Config) { c.Motion.Decay = 1 }, "motion"},
		{"decay zero", func(c *Config) { c.Motion.Decay = 0 }, "motion"},
		{"sensitivity zero", func(c *Config) { c.Motion.Sensitivity = 0 }, "motion"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval"},
		{"inverted x bounds", func(c *Config) { c.Bounds.MinX, c.Bounds.MaxX = 950, 50 }, "bounds"},
		{"inverted y bounds", func(c *Config) { c.Bounds.MinY, c.Bounds.MaxY = 1600, 50 }, "bounds"},
		{"nan bounds", func(c *Config) { c.Bounds.MaxX = math.NaN() }, "bounds"},
		{"degenerate obstacle", func(c *Config) { c.Obstacle.Right = c.Obstacle.Left }, "obstacle"},
		{"inverted obstacle", func(c *Config) { c.Obstacle.Top, c.Obstacle.Bottom = 800, 700 }, "obstacle"},
		{"infinite obstacle", func(c *Config) { c.Obstacle.Right = math.Inf(1) }, "obstacle"},
		{"zero radius", func(c *Config) { c.BallRadius = 0 }, "ball_radius"},
		{"start outside bounds", func(c *Config) { c.Start = core.V(10, 10) }, "start"},
		{"start inside obstacle", func(c *Config) { c.Start = core.V(500, 750) }, "start"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestConfigValidateWrapsMotionError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Motion.Decay = 2

	err := cfg.Validate()
	assert.ErrorIs(t, err, motion.ErrInvalidParams)
}

func TestNewLoopRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Motion.Sensitivity = -1

	l, err := NewLoop(cfg)
	assert.Nil(t, l)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
