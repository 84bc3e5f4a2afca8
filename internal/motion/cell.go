package motion

import (
	"sync/atomic"

	"github.com/vovakirdan/gyroball/internal/core"
)

// Cell holds the current velocity and can be updated from any goroutine.
// Readers always see a complete vector, never one axis of an update.
type Cell struct {
	v atomic.Pointer[core.Vec]
}

// NewCell creates a cell holding zero velocity.
func NewCell() *Cell {
	c := &Cell{}
	c.Store(core.Vec{})
	return c
}

// Load returns the current velocity.
func (c *Cell) Load() core.Vec {
	if p := c.v.Load(); p != nil {
		return *p
	}
	return core.Vec{}
}

// Store replaces the current velocity.
func (c *Cell) Store(v core.Vec) {
	c.v.Store(&v)
}

// Apply integrates one sample into the current velocity and returns the
// result. Concurrent callers are serialised by compare-and-swap, so no
// sample is lost.
func (c *Cell) Apply(s Sample, p Params) core.Vec {
	for {
		old := c.v.Load()
		var prev core.Vec
		if old != nil {
			prev = *old
		}
		next := Integrate(prev, s, p)
		if c.v.CompareAndSwap(old, &next) {
			return next
		}
	}
}
