package interactions

import (
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// Grabber draws lines from nearby particles to the pointer.
type Grabber struct {
	container *engine.Container
}

// NewGrabber creates the grab interactor.
func NewGrabber(c *engine.Container) engine.Interactor {
	return &Grabber{container: c}
}

// Name implements engine.Interactor.
func (g *Grabber) Name() string {
	return config.InteractorGrab
}

// IsEnabled implements engine.Interactor.
func (g *Grabber) IsEnabled() bool {
	ia := g.container.Interactivity()
	return ia.Status == engine.MouseMove && ia.Mouse.Position != nil &&
		g.container.Options().Interactivity.Events.OnHover.Has(config.ModeGrab)
}

// Reset implements engine.Interactor.
func (g *Grabber) Reset() {}

// Interact implements engine.Interactor.
func (g *Grabber) Interact(delta engine.Delta) {
	opts := g.container.Options()
	grab := opts.Interactivity.Modes.Grab
	if grab.Distance <= 0 {
		return
	}

	lineColor := opts.Particles.Links.Color
	if grab.Links.Color != nil {
		lineColor = *grab.Links.Color
	}
	rgba := lineColor.Resolve(g.container.Rand())

	mouse := *g.container.Interactivity().Mouse.Position
	for _, p := range g.container.QuadTree().QueryCircle(mouse, grab.Distance) {
		if p.Destroyed {
			continue
		}
		d := utils.GetDistance(p.Position, mouse)
		opacity := grab.Links.Opacity * (1 - d/grab.Distance)
		if opacity <= 0 {
			continue
		}
		g.container.Overlay().AddMouseLink(engine.OverlayMouseLink{
			ID:      p.ID,
			Opacity: opacity,
			Width:   opts.Particles.Links.Width,
			Color:   rgba,
		})
	}
}
