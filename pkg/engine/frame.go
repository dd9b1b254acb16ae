package engine

import (
	"log"
	"math"

	"github.com/decker502/particlefield/pkg/spatial"
)

// Update advances a running container by elapsedMs and returns the frame's
// snapshot. Paused containers return the last snapshot; uninitialized and
// destroyed ones return an empty snapshot.
//
// A panic inside the frame is recovered: the population is cleared and an
// empty snapshot is returned.
func (c *Container) Update(elapsedMs float64) (snap Snapshot) {
	switch c.state {
	case StatePaused:
		return c.snapshot
	case StateUninitialized, StateDestroyed:
		return Snapshot{}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Container] Error: frame %d panicked: %v (population cleared)", c.frame, r)
			c.Clear()
			c.snapshot = Snapshot{Frame: c.frame, Width: c.width, Height: c.height}
			snap = c.snapshot
		}
	}()

	c.adoptPending()

	if math.IsNaN(elapsedMs) {
		elapsedMs = 0
	}
	delta := NewDelta(math.Min(elapsedMs, maxFrameDelta))
	c.frame++

	if c.width <= 0 || c.height <= 0 {
		c.snapshot = Snapshot{Frame: c.frame}
		return c.snapshot
	}

	c.clock += delta.Value
	c.advanceSessions(delta)

	// 1. spatial index（树会扩展到画布外的存活粒子）
	c.tree.Build(spatial.NewRectangle(0, 0, c.width, c.height), c.particles)

	// 2. interactors
	c.overlay.reset()
	enabled := make([]Interactor, 0, len(c.interactors))
	for _, it := range c.interactors {
		if it.IsEnabled() {
			enabled = append(enabled, it)
		}
	}
	for _, it := range enabled {
		it.Reset()
	}
	for _, it := range enabled {
		it.Interact(delta)
	}
	c.releaseSessions()

	// 3. physics
	c.integrate(delta)

	// 4. auxiliary state
	for _, it := range c.interactors {
		if u, ok := it.(ParticleUpdater); ok {
			for _, p := range c.particles {
				if !p.Destroyed {
					u.ParticleUpdate(p, delta)
				}
			}
		}
	}

	// 5. cleanup
	c.removeDestroyed(true)

	// 6. publish
	c.snapshot = c.buildSnapshot()
	return c.snapshot
}

// releaseSessions restores released gestures no interactor processed, e.g.
// when the click mode was removed by a reload mid-gesture.
func (c *Container) releaseSessions() {
	for _, s := range []*ClickSession{&c.attractSession, &c.repulseSession} {
		if s.Clicking == ClickReleased && len(s.Particles) > 0 {
			s.ReleaseCaptured()
		}
	}
}

// Snapshot returns the last published snapshot.
func (c *Container) Snapshot() Snapshot {
	return c.snapshot
}

// Frame returns the number of frames advanced.
func (c *Container) Frame() uint64 {
	return c.frame
}
