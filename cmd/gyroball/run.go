package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/gyroball/internal/registry"
	"github.com/vovakirdan/gyroball/internal/sensor"
	"github.com/vovakirdan/gyroball/internal/sim"
)

var (
	flagRunSource   string
	flagDuration    time.Duration
	flagReportEvery int
)

// errSourceFinished ends a headless run when the source runs out of input.
var errSourceFinished = errors.New("source finished")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run headless and log positions",
	Long: `Run the simulation without a terminal UI. Positions are logged every
--report-every ticks. The run ends on --duration, Ctrl+C, or when the source
runs out of input (replay).

Examples:
  gyroball run
  gyroball run --source replay --config ./recording.yaml
  gyroball run --source serial --duration 1m --report-every 10
  gyroball run --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunSource, "source", sensor.NameSynthetic, "Sample source: synthetic, replay, serial")
	runCmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop after this long (0 = until interrupted)")
	runCmd.Flags().IntVar(&flagReportEvery, "report-every", 60, "Log the position every N ticks")
}

func runRun(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("%v", err)
	}
	if flagRunSource == sensor.NameKeyboard {
		fatal("the keyboard source needs 'gyroball play'")
	}
	if flagReportEvery <= 0 {
		fatal("--report-every must be > 0")
	}

	logger, err := newLogger(os.Stderr, "gyroball")
	if err != nil {
		fatal("%v", err)
	}

	src, err := registry.Create(flagRunSource, cfg.Sensor, registry.Env{Logger: logger})
	if err != nil {
		fatal("%v", err)
	}

	loop, err := sim.NewLoop(cfg.SimConfig(), sim.WithLogger(logger))
	if err != nil {
		fatal("%v", err)
	}
	loop.AddRenderer(newReporter(logger, flagReportEvery))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	if err := headless(ctx, loop, src); err != nil {
		fatal("%v", err)
	}

	st := loop.Stats()
	logger.Info("run finished",
		"ticks", st.Ticks,
		"collisions", st.Collisions,
		"accepted", st.Accepted,
		"rejected", st.Rejected,
		"x", st.Position.X,
		"y", st.Position.Y,
	)
}

// headless runs loop with src until ctx ends or the source finishes.
func headless(ctx context.Context, loop *sim.Loop, src sim.Source) error {
	g, gctx := errgroup.WithContext(ctx)

	srcErr := loop.Attach(src)
	if err := loop.Start(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		select {
		case err := <-srcErr:
			if err != nil {
				return err
			}
			return errSourceFinished
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		loop.Stop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errSourceFinished) {
		return err
	}
	return nil
}

// reporter logs every nth published position. The loop serialises calls.
type reporter struct {
	logger *log.Logger
	every  int
	n      int
}

func newReporter(logger *log.Logger, every int) *reporter {
	return &reporter{logger: logger, every: every}
}

// OnPositionUpdated implements sim.Renderer.
func (r *reporter) OnPositionUpdated(x, y float64) {
	r.n++
	if r.n%r.every == 0 {
		r.logger.Info("position", "tick", r.n, "x", x, "y", y)
	}
}
