package interactions

import (
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
)

// Attractor pulls particles towards the pointer on hover and, while a click
// is held, sets their velocity towards the click position.
type Attractor struct {
	container *engine.Container
}

// NewAttractor creates the attract interactor.
func NewAttractor(c *engine.Container) engine.Interactor {
	return &Attractor{container: c}
}

// Name implements engine.Interactor.
func (a *Attractor) Name() string {
	return config.InteractorAttract
}

// IsEnabled implements engine.Interactor.
func (a *Attractor) IsEnabled() bool {
	return mouseEnabled(a.container, config.ModeAttract, a.container.AttractSession())
}

// Reset implements engine.Interactor.
func (a *Attractor) Reset() {}

// Interact implements engine.Interactor.
func (a *Attractor) Interact(delta engine.Delta) {
	modes := a.container.Options().Interactivity.Modes
	mouseInteract(a.container, config.ModeAttract, a.container.AttractSession(),
		modes.Attract.Distance, modes.Attract.Speed, true)
}

// Repulser pushes particles away from the pointer on hover and, while a
// click is held, sets their velocity away from the click position.
type Repulser struct {
	container *engine.Container
}

// NewRepulser creates the repulse interactor.
func NewRepulser(c *engine.Container) engine.Interactor {
	return &Repulser{container: c}
}

// Name implements engine.Interactor.
func (r *Repulser) Name() string {
	return config.InteractorRepulse
}

// IsEnabled implements engine.Interactor.
func (r *Repulser) IsEnabled() bool {
	return mouseEnabled(r.container, config.ModeRepulse, r.container.RepulseSession())
}

// Reset implements engine.Interactor.
func (r *Repulser) Reset() {}

// Interact implements engine.Interactor.
func (r *Repulser) Interact(delta engine.Delta) {
	modes := r.container.Options().Interactivity.Modes
	mouseInteract(r.container, config.ModeRepulse, r.container.RepulseSession(),
		modes.Repulse.Distance, modes.Repulse.Speed, false)
}
