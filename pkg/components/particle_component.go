package components

import (
	"image/color"

	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/utils"
)

// Velocity is a per-frame displacement direction. It is scaled by the move
// speed and the frame delta factor during physics integration.
type Velocity struct {
	Horizontal float64
	Vertical   float64
}

// Particle represents a single simulated particle.
//
// Core state lives here and is iterated every frame. Behaviour-specific state
// (infection, links) is stored in ecs component tables keyed by ID so that a
// missing entry is a typed "not applicable" rather than a zero value.
//
// This is a pure data component following ECS principles - it contains no methods.
type Particle struct {
	ID ecs.EntityID

	// Position (canvas coordinates, pixels)
	Position utils.Vector

	// Velocity is the current direction/speed; InitialVelocity is the restore
	// point used after temporary forces (click attract/repulse) are released.
	Velocity        Velocity
	InitialVelocity Velocity

	// Size is the radius used for bounds checks and rendering. Always >= 0.
	Size float64

	// OutMode governs behaviour at the canvas edges.
	OutMode OutMode

	// Group is "" for the main particle group, otherwise the emitter name the
	// particle was spawned from. Used to resolve group options on hot reload.
	Group string

	// Visual style
	Color   color.RGBA
	Opacity float64

	// Destroyed marks the particle for removal at the end of the frame.
	Destroyed bool
}
