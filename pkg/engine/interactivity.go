package engine

import (
	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/utils"
)

// MouseStatus is the last pointer event seen by the container.
type MouseStatus int

const (
	// MouseNone: no pointer event yet.
	MouseNone MouseStatus = iota
	// MouseMove: the pointer is over the canvas.
	MouseMove
	// MouseLeave: the pointer left the canvas.
	MouseLeave
)

// MouseState is the pointer position and button state.
type MouseState struct {
	// Position is nil while the pointer is outside the canvas.
	Position *utils.Vector
	// ClickPosition is where the last click started; nil before any click.
	ClickPosition *utils.Vector
	// Clicking is true while the button is held.
	Clicking bool
}

// Interactivity is the input state read by interactors. It is written only
// by the container's input methods.
type Interactivity struct {
	Mouse  MouseState
	Status MouseStatus
}

// ClickPhase tracks a held-click gesture.
type ClickPhase int

const (
	// ClickIdle: no gesture since start (no release pending).
	ClickIdle ClickPhase = iota
	// ClickHeld: the button is held; particles may be captured.
	ClickHeld
	// ClickReleased: the gesture ended; captured particles must be restored.
	ClickReleased
)

// ClickSession is the bookkeeping of a click attract/repulse gesture.
//
// Particles only holds particles captured while Clicking == ClickHeld. On the
// frame the gesture is released every captured particle's velocity is
// restored to its InitialVelocity and the set is cleared in one step.
type ClickSession struct {
	Clicking ClickPhase
	// Count is the number of distinct particles captured in this gesture.
	Count int
	// Finish is set once Count reached the population size. It has no
	// behavioural effect.
	Finish bool
	// Particles captured, in first-capture order, without duplicates.
	Particles []*components.Particle
	// HeldFor is how long the gesture has been held (ms).
	HeldFor float64

	captured map[ecs.EntityID]bool
}

// Begin starts a new gesture, restoring anything still captured.
func (s *ClickSession) Begin() {
	s.ReleaseCaptured()
	s.Clicking = ClickHeld
	s.Count = 0
	s.Finish = false
	s.HeldFor = 0
}

// End marks the gesture released. Restoration happens on the next frame.
func (s *ClickSession) End() {
	if s.Clicking == ClickHeld {
		s.Clicking = ClickReleased
	}
}

// Held reports whether particles may be captured.
func (s *ClickSession) Held() bool {
	return s.Clicking == ClickHeld
}

// Capture records p if it is not already captured.
func (s *ClickSession) Capture(p *components.Particle) {
	if s.captured == nil {
		s.captured = make(map[ecs.EntityID]bool)
	}
	if s.captured[p.ID] {
		return
	}
	s.captured[p.ID] = true
	s.Particles = append(s.Particles, p)
	s.Count++
}

// UpdateFinish sets Finish once every live particle has been captured.
func (s *ClickSession) UpdateFinish(population int) {
	if !s.Finish && population > 0 && s.Count >= population {
		s.Finish = true
	}
}

// ReleaseCaptured restores every captured particle's velocity and clears
// the captured set.
func (s *ClickSession) ReleaseCaptured() {
	for _, p := range s.Particles {
		p.Velocity = p.InitialVelocity
	}
	s.Particles = nil
	s.captured = nil
}

// forget drops references to particles removed from the population.
func (s *ClickSession) forget(removed map[ecs.EntityID]bool) {
	if len(s.Particles) == 0 {
		return
	}
	kept := s.Particles[:0]
	for _, p := range s.Particles {
		if removed[p.ID] {
			delete(s.captured, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	s.Particles = kept
}
