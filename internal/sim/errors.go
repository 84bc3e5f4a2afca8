package sim

import (
	"errors"
	"fmt"
)

// Lifecycle errors returned by Loop.Start.
var (
	ErrLoopRunning = errors.New("sim: loop already running")
	ErrLoopStopped = errors.New("sim: loop stopped")
)

// ConfigurationError reports a configuration value that violates its
// constraints. It is returned at construction time, never while running.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error // Underlying cause, if any
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sim: invalid configuration %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InvalidSampleError reports a non-finite angular-rate sample that was
// dropped at the inbound boundary.
type InvalidSampleError struct {
	X, Y float64
}

func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("sim: invalid sample (%v, %v): values must be finite", e.X, e.Y)
}
