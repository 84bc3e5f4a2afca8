package sensor

import (
	"context"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/motion"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// keyboardBuffer bounds the queue of pending taps; extra taps are dropped.
const keyboardBuffer = 32

// Keyboard turns tilt actions into single angular-rate samples.
type Keyboard struct {
	rate float64
	taps chan core.Vec
}

// NewKeyboard creates a keyboard source. Each tap is a sample of magnitude
// rate on one axis.
func NewKeyboard(rate float64) *Keyboard {
	return &Keyboard{
		rate: rate,
		taps: make(chan core.Vec, keyboardBuffer),
	}
}

// Name implements sim.Source.
func (k *Keyboard) Name() string { return NameKeyboard }

// Press queues a tap for a tilt action. It never blocks and reports whether
// the tap was queued; non-tilt actions and taps over a full queue are not.
func (k *Keyboard) Press(a core.Action) bool {
	x, y, ok := a.Tilt()
	if !ok {
		return false
	}
	select {
	case k.taps <- core.V(x*k.rate, y*k.rate):
		return true
	default:
		return false
	}
}

// Run forwards queued taps to sink until ctx is cancelled.
func (k *Keyboard) Run(ctx context.Context, sink sim.Sink) error {
	sink.SetAccuracy(motion.AccuracyHigh)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-k.taps:
			_ = sink.OnSample(v.X, v.Y)
		}
	}
}
