// Package registry provides a global registry for sample-source factories.
// Sources register themselves in init() functions, allowing the CLI and the
// SSH server to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gyroball/internal/config"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// Env carries the collaborators a source may need besides its settings.
type Env struct {
	Clock  sim.Clock
	Logger *log.Logger
}

// withDefaults fills in a real clock and the default logger.
func (e Env) withDefaults() Env {
	if e.Clock == nil {
		e.Clock = sim.RealClock{}
	}
	if e.Logger == nil {
		e.Logger = log.Default()
	}
	return e
}

// Info contains metadata about a registered source.
type Info struct {
	Name        string
	Description string
}

// Factory builds a source from the sensor section of the configuration.
type Factory func(cfg config.Sensor, env Env) (sim.Source, error)

type entry struct {
	info    Info
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a source factory to the registry.
// Typically called from a source's init() function.
// Panics if a source with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		panic(fmt.Sprintf("registry: source %q already registered", name))
	}
	entries[name] = entry{info: Info{Name: name, Description: description}, factory: f}
}

// List returns information about all registered sources, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a source by name.
// Returns an error if the name is not registered or the factory fails.
func Create(name string, cfg config.Sensor, env Env) (sim.Source, error) {
	mu.RLock()
	e, ok := entries[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown source %q", name)
	}

	src, err := e.factory(cfg, env.withDefaults())
	if err != nil {
		return nil, fmt.Errorf("registry: create %s: %w", name, err)
	}
	return src, nil
}

// Exists checks if a source with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[name]
	return ok
}

// unregister removes a source. Only tests use it.
func unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(entries, name)
}
