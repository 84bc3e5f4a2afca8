package sensor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gyroball/internal/motion"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// ReplayOptions configures a Replay source.
type ReplayOptions struct {
	Speed  float64 // 2.0 plays twice as fast; <= 0 means 1.0
	Clock  sim.Clock
	Logger *log.Logger
}

// Replay plays back a recorded CSV of timestamp_ns,gyro_x,gyro_y rows,
// honouring the gaps between timestamps. A header row is optional and lines
// starting with '#' are comments. Malformed rows are skipped with a warning.
// Non-finite values are forwarded unchanged; the loop rejects them.
type Replay struct {
	name string
	open func() (io.ReadCloser, error)
	opts ReplayOptions
}

// ReplayStats summarises one playback.
type ReplayStats struct {
	Rows    int
	Emitted int
	Skipped int
}

// NewReplayFile replays the CSV file at path. The file is opened on Run.
func NewReplayFile(path string, opts ReplayOptions) *Replay {
	return newReplay(func() (io.ReadCloser, error) { return os.Open(path) }, opts)
}

// NewReplayReader replays CSV data from r. It can only be run once.
func NewReplayReader(r io.Reader, opts ReplayOptions) *Replay {
	return newReplay(func() (io.ReadCloser, error) { return io.NopCloser(r), nil }, opts)
}

func newReplay(open func() (io.ReadCloser, error), opts ReplayOptions) *Replay {
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	if opts.Clock == nil {
		opts.Clock = sim.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Replay{name: NameReplay, open: open, opts: opts}
}

// Name implements sim.Source.
func (r *Replay) Name() string { return r.name }

// Run plays the recording and returns nil when it ends.
func (r *Replay) Run(ctx context.Context, sink sim.Sink) error {
	_, err := r.Play(ctx, sink)
	return err
}

// Play is Run with playback statistics.
func (r *Replay) Play(ctx context.Context, sink sim.Sink) (ReplayStats, error) {
	var stats ReplayStats

	rc, err := r.open()
	if err != nil {
		return stats, fmt.Errorf("sensor: open replay: %w", err)
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true

	sink.SetAccuracy(motion.AccuracyHigh)

	var (
		prev    int64
		started bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			r.opts.Logger.Debug("replay finished", "rows", stats.Rows, "emitted", stats.Emitted, "skipped", stats.Skipped)
			return stats, nil
		}
		stats.Rows++

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			stats.Skipped++
			r.opts.Logger.Warn("skipping malformed replay row", "line", perr.Line, "err", perr.Err)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("sensor: read replay: %w", err)
		}

		ts, x, y, err := parseReplayRow(rec)
		if err != nil {
			if stats.Rows == 1 && isHeader(rec) {
				continue
			}
			stats.Skipped++
			line, _ := cr.FieldPos(0)
			r.opts.Logger.Warn("skipping malformed replay row", "line", line, "err", err)
			continue
		}

		if started {
			if gap := r.scale(ts - prev); gap > 0 {
				select {
				case <-ctx.Done():
					return stats, ctx.Err()
				case <-r.opts.Clock.After(gap):
				}
			}
		}
		prev, started = ts, true

		_ = sink.OnSample(x, y)
		stats.Emitted++
	}
}

// scale converts a recorded gap to wall time at the configured speed.
func (r *Replay) scale(deltaNS int64) time.Duration {
	if deltaNS <= 0 {
		return 0
	}
	return time.Duration(float64(deltaNS) / r.opts.Speed)
}

func parseReplayRow(rec []string) (ts int64, x, y float64, err error) {
	if len(rec) < 3 {
		return 0, 0, 0, fmt.Errorf("want 3 fields, got %d", len(rec))
	}
	if ts, err = strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("timestamp: %w", err)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
		return 0, 0, 0, fmt.Errorf("gyro_x: %w", err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(rec[2]), 64); err != nil {
		return 0, 0, 0, fmt.Errorf("gyro_y: %w", err)
	}
	return ts, x, y, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "timestamp_ns")
}
