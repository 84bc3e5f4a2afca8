// Package core provides fundamental types and utilities for the ball simulation.
// It contains no Bubble Tea dependencies to keep simulation logic pure and testable.
package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector in playfield units. Used for both velocity and position.
type Vec = r2.Vec

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func IsFinite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Rect is an axis-aligned rectangle in playfield coordinates.
// Screen-space convention: Top < Bottom numerically.
type Rect struct {
	Left, Top     float64
	Right, Bottom float64
}

// NewRect creates a rectangle from its top-left and bottom-right corners.
func NewRect(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Degenerate returns true if the rectangle has no positive area.
func (r Rect) Degenerate() bool {
	return !(r.Left < r.Right) || !(r.Top < r.Bottom)
}

// Contains returns true if p lies inside the rectangle, edges included.
// An inverted rectangle contains nothing.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Inset returns the collision envelope used for a body of the given radius.
//
// Left/right move inward by radius while top/bottom move outward; the
// signs differ per axis and must stay that way.
func (r Rect) Inset(radius float64) Rect {
	return Rect{
		Left:   r.Left + radius,
		Top:    r.Top - radius,
		Right:  r.Right - radius,
		Bottom: r.Bottom + radius,
	}
}

// Bounds is the rectangular region the ball centre is confined to.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Inverted returns true if either axis has min > max.
func (b Bounds) Inverted() bool {
	return !(b.MinX <= b.MaxX) || !(b.MinY <= b.MaxY)
}

// Clamp restricts p to the bounds on each axis.
func (b Bounds) Clamp(p Vec) Vec {
	return Vec{
		X: ClampF(p.X, b.MinX, b.MaxX),
		Y: ClampF(p.Y, b.MinY, b.MaxY),
	}
}

// Contains returns true if p lies within the bounds, edges included.
func (b Bounds) Contains(p Vec) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Box is an integer cell rectangle used for screen drawing.
type Box struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewBox creates a new cell box with the given position and dimensions.
func NewBox(x, y, w, h int) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (b Box) Right() int {
	return b.X + b.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (b Box) Bottom() int {
	return b.Y + b.H
}

// Contains returns true if the cell (x, y) is inside this box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
// NaN is passed through unchanged.
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
