package components

import "github.com/decker502/particlefield/pkg/ecs"

// LinkPartner is one outgoing link from a particle.
type LinkPartner struct {
	ID      ecs.EntityID
	Opacity float64
}

// LinkComponent holds the links computed for a particle this frame.
// The Linker clears Partners in its per-frame reset.
type LinkComponent struct {
	Partners []LinkPartner
}
