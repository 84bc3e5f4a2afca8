// Package motion converts angular-rate samples into ball velocity.
//
// The integrator is a pure function: the only state it touches is the
// velocity passed in, and the only state it produces is the velocity
// returned. Cell wraps that velocity for concurrent use.
package motion

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/gyroball/internal/core"
)

// Default tuning constants.
const (
	DefaultSensitivity = 10.0
	DefaultDecay       = 0.90
)

// ErrInvalidParams is wrapped by every Params validation failure.
var ErrInvalidParams = errors.New("motion: invalid parameters")

// Mode selects the velocity update rule.
type Mode string

const (
	// ModeLiteral is decay * (prev + sample*sensitivity). Velocity can grow
	// without bound under sustained input.
	ModeLiteral Mode = "literal"

	// ModeSmoothed is the bounded exponential moving average
	// decay*prev + (1-decay)*sample*sensitivity.
	ModeSmoothed Mode = "smoothed"
)

// Params holds the integrator tuning.
type Params struct {
	Sensitivity float64 // Scales raw angular rate into velocity units, > 0
	Decay       float64 // Per-sample retention factor, in (0, 1)
	Mode        Mode    // Update rule; empty means ModeLiteral
}

// DefaultParams returns the stock tuning: sensitivity 10, decay 0.9, literal rule.
func DefaultParams() Params {
	return Params{
		Sensitivity: DefaultSensitivity,
		Decay:       DefaultDecay,
		Mode:        ModeLiteral,
	}
}

// Validate checks sensitivity, decay and mode.
func (p Params) Validate() error {
	if !(p.Sensitivity > 0) || math.IsInf(p.Sensitivity, 0) {
		return fmt.Errorf("%w: sensitivity %v must be a finite value > 0", ErrInvalidParams, p.Sensitivity)
	}
	if !(p.Decay > 0 && p.Decay < 1) {
		return fmt.Errorf("%w: decay %v must be in (0, 1)", ErrInvalidParams, p.Decay)
	}
	switch p.Mode {
	case "", ModeLiteral, ModeSmoothed:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, p.Mode)
	}
	return nil
}

// Sample is one angular-rate reading about two axes.
type Sample struct {
	X, Y     float64
	Accuracy Accuracy  // Sensor-reported reliability, AccuracyUnknown if not reported
	At       time.Time // Arrival time; zero if the source does not timestamp
}

// Vec returns the rate as a vector.
func (s Sample) Vec() core.Vec {
	return core.V(s.X, s.Y)
}

// Finite reports whether both axes are finite numbers.
func (s Sample) Finite() bool {
	return core.IsFinite(s.Vec())
}

// Integrate returns the velocity after applying one sample to prev.
// It never fails; non-finite inputs propagate.
func Integrate(prev core.Vec, s Sample, p Params) core.Vec {
	scaled := r2.Scale(p.Sensitivity, s.Vec())
	if p.Mode == ModeSmoothed {
		return r2.Add(r2.Scale(p.Decay, prev), r2.Scale(1-p.Decay, scaled))
	}
	return r2.Scale(p.Decay, r2.Add(prev, scaled))
}

// Accuracy is the reliability a sensor reports for its readings.
type Accuracy int

const (
	AccuracyUnknown Accuracy = iota
	AccuracyUnreliable
	AccuracyLow
	AccuracyMedium
	AccuracyHigh
)

// String returns the display name used in the HUD and logs.
func (a Accuracy) String() string {
	switch a {
	case AccuracyHigh:
		return "High"
	case AccuracyMedium:
		return "Medium"
	case AccuracyLow:
		return "Low"
	case AccuracyUnreliable:
		return "Unreliable"
	default:
		return "Unknown"
	}
}
