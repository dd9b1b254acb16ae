package engine

import (
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/spatial"
)

// State is the container lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StatePaused
	StateDestroyed
)

// String returns a readable state name for logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// maxFrameDelta caps the elapsed time of a single tick (ms).
const maxFrameDelta = 100.0

// canvasSize is a pending resize.
type canvasSize struct {
	width, height float64
}

// Container owns the particle population, the spatial index, the
// interactivity state and the ordered interactors, and drives one frame per
// Update call.
//
// Everything except Reload and Resize must be called from the frame goroutine.
type Container struct {
	registry *Registry

	options        *config.Options
	pendingOptions atomic.Pointer[config.Options]
	pendingSize    atomic.Pointer[canvasSize]

	state  State
	width  float64
	height float64

	entities  *ecs.EntityManager
	particles []*components.Particle
	tree      *spatial.QuadTree

	interactivity  Interactivity
	attractSession ClickSession
	repulseSession ClickSession

	interactors []Interactor
	overlay     Overlay

	rng   *rand.Rand
	noise *perlin.Perlin
	clock float64 // simulated time (ms)

	frame    uint64
	snapshot Snapshot
}

// NewContainer creates an uninitialized container. A nil registry gives a
// container without interactors; nil options use config.Default().
func NewContainer(registry *Registry, opts *config.Options, width, height float64) *Container {
	if registry == nil {
		registry = NewRegistry()
	}
	if opts == nil {
		opts = config.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c := &Container{
		registry: registry,
		options:  opts,
		entities: ecs.NewEntityManager(),
		tree:     spatial.NewQuadTree(spatial.Rectangle{}, spatial.DefaultCapacity),
		rng:      rand.New(rand.NewSource(seed)),
		noise:    perlin.NewPerlin(2, 2, 3, seed),
	}
	c.setSize(width, height)
	return c
}

// Start builds the interactors, fills the initial population and starts
// running. It only has an effect on an uninitialized container.
func (c *Container) Start() bool {
	if c.state != StateUninitialized {
		log.Printf("[Container] Start ignored in state %s", c.state)
		return false
	}

	c.adoptPending()
	c.interactors, _ = c.registry.build(c, c.options.Interactors, nil)
	c.fill()
	for _, it := range c.interactors {
		if s, ok := it.(Starter); ok {
			s.Start()
		}
	}

	c.state = StateRunning
	log.Printf("[Container] Started: %d particles, %d interactors, canvas %.0fx%.0f",
		len(c.particles), len(c.interactors), c.width, c.height)
	return true
}

// Pause stops advancing the simulation; Update keeps returning the last snapshot.
func (c *Container) Pause() bool {
	if c.state != StateRunning {
		return false
	}
	c.state = StatePaused
	return true
}

// Play resumes a paused container.
func (c *Container) Play() bool {
	if c.state != StatePaused {
		return false
	}
	c.state = StateRunning
	return true
}

// Destroy releases the population. A destroyed container cannot be restarted.
func (c *Container) Destroy() {
	if c.state == StateDestroyed {
		return
	}
	c.Clear()
	c.interactors = nil
	c.snapshot = Snapshot{}
	c.state = StateDestroyed
	log.Printf("[Container] Destroyed")
}

// State returns the lifecycle state.
func (c *Container) State() State {
	return c.state
}

// Reload schedules opts to be adopted at the start of the next frame.
// Safe to call from any goroutine. opts must not be modified afterwards.
func (c *Container) Reload(opts *config.Options) {
	if opts == nil {
		return
	}
	c.pendingOptions.Store(opts)
}

// Resize schedules a canvas size change for the next frame boundary.
// Safe to call from any goroutine. Particles are kept.
func (c *Container) Resize(width, height float64) {
	c.pendingSize.Store(&canvasSize{width: width, height: height})
}

// adoptPending applies the latest Reload and Resize.
func (c *Container) adoptPending() {
	if size := c.pendingSize.Swap(nil); size != nil {
		c.setSize(size.width, size.height)
	}

	opts := c.pendingOptions.Swap(nil)
	if opts == nil || opts == c.options {
		return
	}

	previous := c.options
	c.options = opts
	if c.state != StateUninitialized && !sameNames(previous.Interactors, opts.Interactors) {
		var created []Interactor
		dropped := c.interactors
		c.interactors, created = c.registry.build(c, opts.Interactors, c.interactors)
		c.detachDropped(dropped)
		// 新加入的交互器需要为现有粒子初始化辅助状态
		for _, it := range created {
			if initializer, ok := it.(ParticleInitializer); ok {
				for _, p := range c.particles {
					initializer.ParticleCreated(p)
				}
			}
		}
		log.Printf("[Container] Interactors changed: %v", opts.Interactors)
	}
	c.reapplyGroupOverrides()
	log.Printf("[Container] Options reloaded")
}

// detachDropped notifies interactors of previous that are no longer built.
func (c *Container) detachDropped(previous []Interactor) {
	kept := make(map[Interactor]bool, len(c.interactors))
	for _, it := range c.interactors {
		kept[it] = true
	}
	for _, it := range previous {
		if kept[it] {
			continue
		}
		if detacher, ok := it.(Detacher); ok {
			detacher.Detach()
		}
	}
}

func (c *Container) setSize(width, height float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width = width
	c.height = height
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Options returns the options in effect for the current frame.
func (c *Container) Options() *config.Options {
	return c.options
}

// CanvasSize returns the canvas size in effect for the current frame.
func (c *Container) CanvasSize() (width, height float64) {
	return c.width, c.height
}

// Particles returns the live population. Callers may mutate particles but
// must not retain the slice across frames.
func (c *Container) Particles() []*components.Particle {
	return c.particles
}

// Count returns the population size.
func (c *Container) Count() int {
	return len(c.particles)
}

// QuadTree returns the spatial index built at the start of the frame.
func (c *Container) QuadTree() *spatial.QuadTree {
	return c.tree
}

// Entities returns the component tables holding auxiliary particle state.
func (c *Container) Entities() *ecs.EntityManager {
	return c.entities
}

// Interactivity returns the input state.
func (c *Container) Interactivity() *Interactivity {
	return &c.interactivity
}

// AttractSession returns the click-attract gesture state.
func (c *Container) AttractSession() *ClickSession {
	return &c.attractSession
}

// RepulseSession returns the click-repulse gesture state.
func (c *Container) RepulseSession() *ClickSession {
	return &c.repulseSession
}

// Overlay returns the per-frame drawing output of interactors.
func (c *Container) Overlay() *Overlay {
	return &c.overlay
}

// Rand returns the simulation random source.
func (c *Container) Rand() *rand.Rand {
	return c.rng
}

// Interactors returns the built interactors in execution order.
func (c *Container) Interactors() []Interactor {
	return c.interactors
}

// Interactor returns the built interactor with the given name.
func (c *Container) Interactor(name string) (Interactor, bool) {
	for _, it := range c.interactors {
		if it.Name() == name {
			return it, true
		}
	}
	return nil, false
}
