package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// Smallest screen the framed playfield is drawn on.
const (
	minSceneW = 12
	minSceneH = 6
)

// Scene glyphs.
const (
	glyphBall     = '●'
	glyphObstacle = '█'
)

// Viewport maps world coordinates onto a box of screen cells. The visible
// world region is the playfield bounds grown by the ball radius, so a ball
// resting against a bound is drawn whole.
type Viewport struct {
	area   core.Rect
	box    core.Box
	sx, sy float64
}

// NewViewport fits the playfield of cfg into box.
func NewViewport(cfg sim.Config, box core.Box) Viewport {
	r := cfg.BallRadius
	area := core.NewRect(cfg.Bounds.MinX-r, cfg.Bounds.MinY-r, cfg.Bounds.MaxX+r, cfg.Bounds.MaxY+r)

	v := Viewport{area: area, box: box}
	if w := area.Width(); w > 0 {
		v.sx = float64(box.W) / w
	}
	if h := area.Height(); h > 0 {
		v.sy = float64(box.H) / h
	}
	return v
}

// ToCell returns the fractional cell coordinates of world point p.
func (v Viewport) ToCell(p core.Vec) (x, y float64) {
	return float64(v.box.X) + (p.X-v.area.Left)*v.sx,
		float64(v.box.Y) + (p.Y-v.area.Top)*v.sy
}

// Scale returns cells per world unit on each axis.
func (v Viewport) Scale() (sx, sy float64) {
	return v.sx, v.sy
}

// RectToBox returns the smallest cell box covering world rectangle r,
// clipped to the viewport.
func (v Viewport) RectToBox(r core.Rect) core.Box {
	x0, y0 := v.ToCell(core.V(r.Left, r.Top))
	x1, y1 := v.ToCell(core.V(r.Right, r.Bottom))

	left := core.Clamp(int(math.Floor(x0)), v.box.X, v.box.Right())
	top := core.Clamp(int(math.Floor(y0)), v.box.Y, v.box.Bottom())
	right := core.Clamp(int(math.Ceil(x1)), v.box.X, v.box.Right())
	bottom := core.Clamp(int(math.Ceil(y1)), v.box.Y, v.box.Bottom())

	return core.NewBox(left, top, core.Max(right-left, 1), core.Max(bottom-top, 1))
}

// Scene is everything needed to draw one frame.
type Scene struct {
	Config   sim.Config
	Position core.Vec
	Stats    sim.Stats
}

// DrawScene renders the HUD on the first row and the framed playfield below it.
func DrawScene(dst *core.Screen, sc Scene) {
	dst.Clear()
	if dst.Width() < minSceneW || dst.Height() < minSceneH {
		dst.DrawTextCentered(dst.Height()/2, "too small")
		return
	}

	dst.DrawTextColored(0, 0, hudLine(sc), core.ColorCyan)

	frame := core.NewBox(0, 1, dst.Width(), dst.Height()-1)
	dst.DrawFrame(frame, core.ColorGray)

	inner := core.NewBox(frame.X+1, frame.Y+1, frame.W-2, frame.H-2)
	vp := NewViewport(sc.Config, inner)

	dst.DrawBox(vp.RectToBox(sc.Config.Obstacle), glyphObstacle, core.ColorRed)

	cx, cy := vp.ToCell(sc.Position)
	sx, sy := vp.Scale()
	dst.DrawEllipse(cx, cy, sc.Config.BallRadius*sx, sc.Config.BallRadius*sy, glyphBall, core.ColorBrightBlue)
}

// hudLine puts source and accuracy first so narrow terminals clip the
// numbers rather than the labels.
func hudLine(sc Scene) string {
	st := sc.Stats
	line := sourceLabel(st.Source) + " " + st.Accuracy.String()
	if st.Rejected > 0 {
		line += fmt.Sprintf("  rejected %d", st.Rejected)
	}
	return line + fmt.Sprintf("  pos %4.0f,%4.0f  vel %5.1f,%5.1f",
		sc.Position.X, sc.Position.Y, st.Velocity.X, st.Velocity.Y)
}

func sourceLabel(name string) string {
	if name == "" {
		return "no source"
	}
	return name
}
