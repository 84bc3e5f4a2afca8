// Package sim runs the ball simulation: a fixed-interval loop that advances
// position from the current velocity, clamps it to the playfield and rejects
// moves into the obstacle.
package sim

import (
	"github.com/vovakirdan/gyroball/internal/core"
)

// World holds the static geometry of one simulation and performs the pure
// per-tick position update.
type World struct {
	bounds   core.Bounds
	obstacle core.Rect
	inset    core.Rect
	radius   float64
}

// NewWorld builds the geometry for cfg. cfg is assumed valid.
func NewWorld(cfg Config) World {
	return World{
		bounds:   cfg.Bounds,
		obstacle: cfg.Obstacle,
		inset:    cfg.Obstacle.Inset(cfg.BallRadius),
		radius:   cfg.BallRadius,
	}
}

// Bounds returns the playfield limits.
func (w World) Bounds() core.Bounds { return w.bounds }

// Obstacle returns the wall rectangle.
func (w World) Obstacle() core.Rect { return w.obstacle }

// Radius returns the ball radius.
func (w World) Radius() float64 { return w.radius }

// Colliding reports whether a ball centred at p touches the obstacle's
// collision envelope.
func (w World) Colliding(p core.Vec) bool {
	return w.inset.Contains(p)
}

// Step computes the position after one tick.
//
// X advances by velocity; Y moves against it (screen Y grows downward, a
// positive rate means up). The tentative point is clamped to the playfield.
// If it lands in the obstacle envelope the whole move is discarded and pos
// is returned unchanged with collided set.
func (w World) Step(pos, vel core.Vec) (next core.Vec, collided bool) {
	tentative := w.bounds.Clamp(core.V(pos.X+vel.X, pos.Y-vel.Y))
	if !core.IsFinite(tentative) {
		// Only NaN survives the clamp; hold position.
		return pos, false
	}
	if w.Colliding(tentative) {
		return pos, true
	}
	return tentative, false
}
