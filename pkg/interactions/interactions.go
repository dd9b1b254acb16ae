// Package interactions provides the built-in interactors: mouse attract,
// repulse, bounce and grab, particle links, infection and emitters.
package interactions

import (
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
)

// Load registers every built-in interactor under its option name.
func Load(reg *engine.Registry) {
	reg.Register(config.InteractorAttract, NewAttractor)
	reg.Register(config.InteractorRepulse, NewRepulser)
	reg.Register(config.InteractorBounce, NewBouncer)
	reg.Register(config.InteractorGrab, NewGrabber)
	reg.Register(config.InteractorLinks, NewLinker)
	reg.Register(config.InteractorInfection, NewInfecter)
	reg.Register(config.InteractorEmitters, NewEmitterSpawner)
}

// NewRegistry returns a registry with the built-in interactors loaded.
func NewRegistry() *engine.Registry {
	reg := engine.NewRegistry()
	Load(reg)
	return reg
}
