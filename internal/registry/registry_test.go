package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gyroball/internal/config"
	"github.com/vovakirdan/gyroball/internal/sim"
)

type stubSource struct {
	name string
	env  Env
	cfg  config.Sensor
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Run(ctx context.Context, _ sim.Sink) error {
	<-ctx.Done()
	return ctx.Err()
}

func register(t *testing.T, name string, f Factory) {
	t.Helper()
	Register(name, name+" test source", f)
	t.Cleanup(func() { unregister(name) })
}

func TestRegisterAndCreate(t *testing.T) {
	register(t, "stub-a", func(cfg config.Sensor, env Env) (sim.Source, error) {
		return &stubSource{name: "stub-a", env: env, cfg: cfg}, nil
	})

	require.True(t, Exists("stub-a"))

	cfg := config.DefaultConfig().Sensor
	cfg.KeyboardRate = 7
	src, err := Create("stub-a", cfg, Env{})
	require.NoError(t, err)

	stub, ok := src.(*stubSource)
	require.True(t, ok)
	assert.Equal(t, 7.0, stub.cfg.KeyboardRate)
	assert.NotNil(t, stub.env.Clock, "clock defaulted")
	assert.NotNil(t, stub.env.Logger, "logger defaulted")
}

func TestCreateKeepsProvidedClock(t *testing.T) {
	clk := sim.NewMockClock(sim.RealClock{}.Now())
	register(t, "stub-clock", func(_ config.Sensor, env Env) (sim.Source, error) {
		return &stubSource{name: "stub-clock", env: env}, nil
	})

	src, err := Create("stub-clock", config.Sensor{}, Env{Clock: clk})
	require.NoError(t, err)
	assert.Same(t, clk, src.(*stubSource).env.Clock)
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no-such-source", config.Sensor{}, Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
	assert.False(t, Exists("no-such-source"))
}

func TestCreateWrapsFactoryError(t *testing.T) {
	boom := errors.New("boom")
	register(t, "stub-fail", func(config.Sensor, Env) (sim.Source, error) {
		return nil, boom
	})

	_, err := Create("stub-fail", config.Sensor{}, Env{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "registry: create stub-fail")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(config.Sensor, Env) (sim.Source, error) { return &stubSource{}, nil }
	register(t, "stub-dup", f)

	assert.Panics(t, func() { Register("stub-dup", "again", f) })
}

func TestListSorted(t *testing.T) {
	f := func(config.Sensor, Env) (sim.Source, error) { return &stubSource{}, nil }
	register(t, "stub-z", f)
	register(t, "stub-m", f)

	list := List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}

	var found int
	for _, info := range list {
		if info.Name == "stub-z" || info.Name == "stub-m" {
			assert.Equal(t, info.Name+" test source", info.Description)
			found++
		}
	}
	assert.Equal(t, 2, found)
}
