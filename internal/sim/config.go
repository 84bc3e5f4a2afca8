package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/motion"
)

// Default simulation constants.
const (
	DefaultInterval   = 15 * time.Millisecond
	DefaultBallRadius = 40.0
)

// Config is the full configuration surface of the simulation core.
type Config struct {
	Motion     motion.Params
	Interval   time.Duration // Tick period
	Bounds     core.Bounds   // Playfield limits for the ball centre
	Obstacle   core.Rect     // Static wall
	BallRadius float64       // Used for drawing and for the collision envelope
	Start      core.Vec      // Initial ball centre
}

// DefaultConfig returns the stock playfield: 50..950 x 50..1600, a wall from
// (200,700) to (900,800), radius 40, starting at (500,500), 15ms ticks.
func DefaultConfig() Config {
	return Config{
		Motion:     motion.DefaultParams(),
		Interval:   DefaultInterval,
		Bounds:     core.Bounds{MinX: 50, MaxX: 950, MinY: 50, MaxY: 1600},
		Obstacle:   core.NewRect(200, 700, 900, 800),
		BallRadius: DefaultBallRadius,
		Start:      core.V(500, 500),
	}
}

// Validate checks every constraint and returns a *ConfigurationError for
// the first violation found.
func (c Config) Validate() error {
	if err := c.Motion.Validate(); err != nil {
		return &ConfigurationError{Field: "motion", Reason: err.Error(), Err: err}
	}
	if c.Interval <= 0 {
		return &ConfigurationError{Field: "interval", Reason: fmt.Sprintf("%v must be > 0", c.Interval)}
	}
	if !finite(c.Bounds.MinX, c.Bounds.MaxX, c.Bounds.MinY, c.Bounds.MaxY) {
		return &ConfigurationError{Field: "bounds", Reason: "values must be finite"}
	}
	if c.Bounds.Inverted() {
		return &ConfigurationError{Field: "bounds", Reason: fmt.Sprintf("inverted bounds %+v", c.Bounds)}
	}
	if !finite(c.Obstacle.Left, c.Obstacle.Top, c.Obstacle.Right, c.Obstacle.Bottom) {
		return &ConfigurationError{Field: "obstacle", Reason: "values must be finite"}
	}
	if c.Obstacle.Degenerate() {
		return &ConfigurationError{Field: "obstacle", Reason: fmt.Sprintf("degenerate rectangle %+v", c.Obstacle)}
	}
	if !(c.BallRadius > 0) || math.IsInf(c.BallRadius, 0) {
		return &ConfigurationError{Field: "ball_radius", Reason: fmt.Sprintf("%v must be a finite value > 0", c.BallRadius)}
	}
	if !core.IsFinite(c.Start) || !c.Bounds.Contains(c.Start) {
		return &ConfigurationError{Field: "start", Reason: fmt.Sprintf("%v must lie within bounds", c.Start)}
	}
	if c.Obstacle.Inset(c.BallRadius).Contains(c.Start) {
		return &ConfigurationError{Field: "start", Reason: fmt.Sprintf("%v lies inside the obstacle", c.Start)}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
