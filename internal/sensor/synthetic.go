package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/gyroball/internal/motion"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// Jitter window for synthetic sample spacing.
const (
	SyntheticMinGap = 8 * time.Millisecond
	SyntheticMaxGap = 24 * time.Millisecond
)

// SyntheticOptions configures a Synthetic source.
type SyntheticOptions struct {
	Amplitude float64       // Peak angular rate on each axis
	Period    time.Duration // Full oscillation period
	Seed      int64         // 0 seeds from the clock
	Clock     sim.Clock
}

// Synthetic emits x = A*sin(2πt/P), y = A*cos(2πt/P) at irregular
// intervals, imitating a sensor that reports on its own schedule.
type Synthetic struct {
	opts SyntheticOptions
}

// NewSynthetic creates a synthetic source.
func NewSynthetic(opts SyntheticOptions) *Synthetic {
	if opts.Clock == nil {
		opts.Clock = sim.RealClock{}
	}
	return &Synthetic{opts: opts}
}

// Name implements sim.Source.
func (s *Synthetic) Name() string { return NameSynthetic }

// At returns the sample emitted at elapsed time t.
func (s *Synthetic) At(t time.Duration) (x, y float64) {
	if s.opts.Period <= 0 {
		return 0, s.opts.Amplitude
	}
	phase := 2 * math.Pi * float64(t) / float64(s.opts.Period)
	return s.opts.Amplitude * math.Sin(phase), s.opts.Amplitude * math.Cos(phase)
}

// Run emits samples until ctx is cancelled.
func (s *Synthetic) Run(ctx context.Context, sink sim.Sink) error {
	clk := s.opts.Clock
	start := clk.Now()

	seed := s.opts.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sink.SetAccuracy(motion.AccuracyHigh)
	for {
		gap := SyntheticMinGap + time.Duration(rng.Int63n(int64(SyntheticMaxGap-SyntheticMinGap)+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-clk.After(gap):
			_ = sink.OnSample(s.At(now.Sub(start)))
		}
	}
}
