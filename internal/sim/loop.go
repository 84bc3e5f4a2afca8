package sim

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/motion"
)

// Renderer receives the committed position once per tick.
// Implementations must not call Stop or Attach on the loop that drives them.
type Renderer interface {
	OnPositionUpdated(x, y float64)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(x, y float64)

// OnPositionUpdated calls f(x, y).
func (f RendererFunc) OnPositionUpdated(x, y float64) { f(x, y) }

// Sink accepts angular-rate samples from a source.
type Sink interface {
	OnSample(x, y float64) error
	SetAccuracy(a motion.Accuracy)
}

// Source produces angular-rate samples until its context is cancelled or
// it runs out of input. Sources are compared by identity, so they should be
// pointer types.
type Source interface {
	Name() string
	Run(ctx context.Context, sink Sink) error
}

// Stats is a point-in-time snapshot of the loop's counters and state.
type Stats struct {
	Ticks      uint64
	Collisions uint64
	Accepted   uint64
	Rejected   uint64
	Accuracy   motion.Accuracy
	Velocity   core.Vec
	Position   core.Vec
	Source     string
	Running    bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithLogger sets the logger used for lifecycle events and rejected samples.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithRenderer registers a renderer at construction time.
func WithRenderer(r Renderer) Option {
	return func(l *Loop) { l.renderers = append(l.renderers, r) }
}

// Loop owns the ball's velocity and position and advances them on a fixed
// interval. Samples may arrive from any goroutine; ticks run on one
// goroutine owned by the loop.
type Loop struct {
	cfg    Config
	world  World
	clock  Clock
	logger *log.Logger

	velocity *motion.Cell
	position atomic.Pointer[core.Vec]
	accuracy atomic.Int32

	ticks      atomic.Uint64
	collisions atomic.Uint64
	accepted   atomic.Uint64
	rejected   atomic.Uint64

	// stepMu makes each tick atomic with respect to position and
	// orders ticks against cancellation.
	stepMu sync.Mutex

	subMu     sync.Mutex
	renderers []Renderer
	subs      map[int]chan core.Vec
	nextSub   int

	mu         sync.Mutex
	parent     context.Context
	parentStop func() bool
	running    bool
	stopped    bool
	tickCancel context.CancelFunc
	tickDone   chan struct{}
	source     Source
	srcCancel  context.CancelFunc
	srcDone    chan struct{}
	srcErr     chan error
}

// NewLoop validates cfg and creates a stopped loop positioned at cfg.Start
// with zero velocity. Invalid configuration yields a *ConfigurationError.
func NewLoop(cfg Config, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Loop{
		cfg:      cfg,
		world:    NewWorld(cfg),
		clock:    RealClock{},
		logger:   log.Default(),
		velocity: motion.NewCell(),
		subs:     make(map[int]chan core.Vec),
	}
	for _, opt := range opts {
		opt(l)
	}

	start := cfg.Start
	l.position.Store(&start)
	return l, nil
}

// Config returns the configuration the loop was built with.
func (l *Loop) Config() Config { return l.cfg }

// World returns the loop's static geometry.
func (l *Loop) World() World { return l.world }

// Position returns the last committed ball centre.
func (l *Loop) Position() core.Vec { return *l.position.Load() }

// Velocity returns the current velocity.
func (l *Loop) Velocity() core.Vec { return l.velocity.Load() }

// OnSample is the inbound sample entry point. Non-finite samples are dropped
// and reported with *InvalidSampleError; the loop keeps running.
func (l *Loop) OnSample(x, y float64) error {
	return l.Accept(motion.Sample{X: x, Y: y})
}

// Accept validates a sample and integrates it into the velocity. O(1).
func (l *Loop) Accept(s motion.Sample) error {
	if !s.Finite() {
		err := &InvalidSampleError{X: s.X, Y: s.Y}
		if n := l.rejected.Add(1); n == 1 || n%100 == 0 {
			l.logger.Warn("dropping sample", "x", s.X, "y", s.Y, "rejected", n)
		}
		return err
	}
	if s.Accuracy != motion.AccuracyUnknown {
		l.SetAccuracy(s.Accuracy)
	}
	l.velocity.Apply(s, l.cfg.Motion)
	l.accepted.Add(1)
	return nil
}

// SetAccuracy records the accuracy most recently reported by the source.
func (l *Loop) SetAccuracy(a motion.Accuracy) {
	if old := motion.Accuracy(l.accuracy.Swap(int32(a))); old != a {
		l.logger.Debug("sensor accuracy changed", "from", old, "to", a)
	}
}

// Tick advances the simulation by one step and publishes the result.
// The background loop calls it on every tick; tests may call it directly.
func (l *Loop) Tick() core.Vec {
	l.stepMu.Lock()
	defer l.stepMu.Unlock()
	return l.step()
}

// step runs one tick. stepMu must be held.
func (l *Loop) step() core.Vec {
	pos := l.Position()
	next, collided := l.world.Step(pos, l.velocity.Load())
	if collided {
		l.collisions.Add(1)
	} else {
		l.position.Store(&next)
	}
	l.ticks.Add(1)
	l.publish(next)
	return next
}

// Recenter moves the ball back to the start point and zeroes its velocity.
func (l *Loop) Recenter() {
	l.stepMu.Lock()
	defer l.stepMu.Unlock()

	start := l.cfg.Start
	l.position.Store(&start)
	l.velocity.Store(core.Vec{})
	l.publish(start)
}

// AddRenderer registers r to receive every published position.
func (l *Loop) AddRenderer(r Renderer) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.renderers = append(l.renderers, r)
}

// Subscribe returns a channel carrying the latest published position.
// A slow reader only ever sees the newest value. The returned function
// unsubscribes and closes the channel.
func (l *Loop) Subscribe() (<-chan core.Vec, func()) {
	l.subMu.Lock()
	defer l.subMu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan core.Vec, 1)
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subMu.Lock()
			defer l.subMu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}
}

func (l *Loop) publish(p core.Vec) {
	l.subMu.Lock()
	for _, ch := range l.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- p:
		default:
		}
	}
	renderers := l.renderers
	l.subMu.Unlock()

	for _, r := range renderers {
		r.OnPositionUpdated(p.X, p.Y)
	}
}

// Start begins ticking in the background until ctx is cancelled or Stop is
// called. An attached source is started too. Cancelling ctx stops the loop
// as Stop does, and a stopped loop cannot be restarted.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return ErrLoopStopped
	}
	if l.running {
		return ErrLoopRunning
	}

	l.parent = ctx
	l.parentStop = context.AfterFunc(ctx, l.Stop)
	l.running = true
	l.startTicking()
	if l.source != nil {
		l.startSource()
	}
	l.logger.Debug("loop started", "interval", l.cfg.Interval, "position", l.Position())
	return nil
}

// Stop cancels ticking and the attached source and waits for both to exit.
// No tick runs once Stop has begun cancelling. Stop is idempotent.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.stopped = true
	if l.parentStop != nil {
		l.parentStop()
	}
	l.releaseSource()

	if l.running {
		l.stopTicking()
		l.running = false
		l.logger.Debug("loop stopped", "ticks", l.ticks.Load(), "position", l.Position())
	}
}

// Attach makes src the velocity source. If src differs from the current
// source, the old one is cancelled and ticking restarts from the last
// committed position; velocity is kept. The returned channel receives the
// source's final error (nil on clean exit or cancellation) and is then
// closed. Attaching the current source again is a no-op.
func (l *Loop) Attach(src Source) <-chan error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.srcErr != nil && sameSource(l.source, src) {
		return l.srcErr
	}

	l.releaseSource()
	l.source = src

	errc := make(chan error, 1)
	switch {
	case l.stopped:
		errc <- ErrLoopStopped
		close(errc)
		return errc
	case src == nil:
		errc <- nil
		close(errc)
	default:
		l.srcErr = errc
	}

	if l.running {
		l.stopTicking()
		l.startTicking()
		if src != nil {
			l.startSource()
		}
		l.logger.Info("source attached, loop restarted", "source", sourceName(src), "position", l.Position())
	}
	return errc
}

// Stats returns a snapshot of counters and state.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	name := sourceName(l.source)
	running := l.running
	l.mu.Unlock()

	return Stats{
		Ticks:      l.ticks.Load(),
		Collisions: l.collisions.Load(),
		Accepted:   l.accepted.Load(),
		Rejected:   l.rejected.Load(),
		Accuracy:   motion.Accuracy(l.accuracy.Load()),
		Velocity:   l.Velocity(),
		Position:   l.Position(),
		Source:     name,
		Running:    running,
	}
}

// startTicking launches the tick goroutine. mu must be held.
func (l *Loop) startTicking() {
	ctx, cancel := context.WithCancel(l.parent)
	done := make(chan struct{})
	l.tickCancel = cancel
	l.tickDone = done
	go l.run(ctx, done)
}

// stopTicking cancels the tick goroutine and waits for it. mu must be held.
func (l *Loop) stopTicking() {
	// Cancel under stepMu so a tick either finished before cancellation or
	// observes it.
	l.stepMu.Lock()
	l.tickCancel()
	l.stepMu.Unlock()
	<-l.tickDone
}

func (l *Loop) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := l.clock.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			l.stepMu.Lock()
			if ctx.Err() != nil {
				l.stepMu.Unlock()
				return
			}
			l.step()
			l.stepMu.Unlock()
		}
	}
}

// startSource runs the current source in its own goroutine. mu must be held.
func (l *Loop) startSource() {
	ctx, cancel := context.WithCancel(l.parent)
	done := make(chan struct{})
	l.srcCancel = cancel
	l.srcDone = done

	src, errc := l.source, l.srcErr
	go func() {
		defer close(done)
		err := src.Run(ctx, l)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			l.logger.Error("source failed", "source", src.Name(), "err", err)
		} else {
			l.logger.Debug("source finished", "source", src.Name())
		}
		errc <- err
		close(errc)
	}()
}

// stopSource cancels the running source and waits for it. mu must be held.
func (l *Loop) stopSource() {
	if l.srcCancel == nil {
		return
	}
	l.srcCancel()
	<-l.srcDone
	l.srcCancel = nil
	l.srcDone = nil
}

// releaseSource stops the current source, or resolves its error channel if
// it never started. mu must be held.
func (l *Loop) releaseSource() {
	if l.srcCancel != nil {
		// The source goroutine delivers to and closes srcErr.
		l.stopSource()
	} else if l.srcErr != nil {
		l.srcErr <- nil
		close(l.srcErr)
	}
	l.srcErr = nil
}

func sameSource(a, b Source) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func sourceName(src Source) string {
	if src == nil {
		return ""
	}
	return src.Name()
}
