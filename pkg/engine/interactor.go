package engine

import (
	"log"
	"sort"

	"github.com/decker502/particlefield/pkg/components"
)

// FrameDuration60 is the length of one frame at the reference rate (ms).
const FrameDuration60 = 1000.0 / 60.0

// Delta is the simulated time advanced by one tick.
type Delta struct {
	// Value is the elapsed time in milliseconds.
	Value float64
	// Factor is Value relative to a 60 FPS frame; velocities are per-frame
	// displacements scaled by it.
	Factor float64
}

// NewDelta builds a Delta from elapsed milliseconds. Negative input is treated as zero.
func NewDelta(elapsedMs float64) Delta {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	return Delta{Value: elapsedMs, Factor: elapsedMs / FrameDuration60}
}

// Interactor is one pluggable behaviour run by the container every frame.
//
// IsEnabled must be a pure function of the current options and interactivity
// state. Reset is called once per frame before Interact for every enabled
// interactor. Interact may query the spatial index and mutate particles.
type Interactor interface {
	Name() string
	IsEnabled() bool
	Reset()
	Interact(delta Delta)
}

// Optional hooks an interactor may implement. The container calls them on
// every built interactor regardless of IsEnabled; each hook checks its own
// options.

// ParticleInitializer is notified of every new particle.
type ParticleInitializer interface {
	ParticleCreated(p *components.Particle)
}

// ParticleUpdater advances per-particle auxiliary state after physics.
type ParticleUpdater interface {
	ParticleUpdate(p *components.Particle, delta Delta)
}

// ParticleStyler adjusts the published view of a particle.
type ParticleStyler interface {
	ParticleStyle(p *components.Particle, view *ParticleView)
}

// Starter runs once after the initial population is created.
type Starter interface {
	Start()
}

// Detacher is called when a reload drops the interactor; it removes the
// auxiliary components it attached to particles.
type Detacher interface {
	Detach()
}

// Respawner may take over replacing a destroyed particle. It returns true
// when it handled the respawn.
type Respawner interface {
	Respawn(dead *components.Particle) bool
}

// InteractorFactory builds an interactor bound to a container.
type InteractorFactory func(c *Container) Interactor

// Registry maps interactor names to factories.
type Registry struct {
	factories map[string]InteractorFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]InteractorFactory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory InteractorFactory) {
	r.factories[name] = factory
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// build instantiates the interactors in order, skipping unknown and
// duplicate names. Interactors found in reuse are kept instead of rebuilt.
func (r *Registry) build(c *Container, order []string, reuse []Interactor) (result []Interactor, created []Interactor) {
	existing := make(map[string]Interactor, len(reuse))
	for _, it := range reuse {
		existing[it.Name()] = it
	}

	result = make([]Interactor, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true

		if it, ok := existing[name]; ok {
			result = append(result, it)
			continue
		}

		factory, ok := r.factories[name]
		if !ok {
			log.Printf("[Container] Warning: unknown interactor %q, skipping", name)
			continue
		}
		if it := factory(c); it != nil {
			result = append(result, it)
			created = append(created, it)
		}
	}
	return result, created
}
