package interactions

import (
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// Bouncer treats a circle around the pointer as a solid obstacle: particles
// inside it heading towards the pointer are reflected and pushed back to
// the circle edge, as far as a bounce out mode allows.
type Bouncer struct {
	container *engine.Container
}

// NewBouncer creates the bounce interactor.
func NewBouncer(c *engine.Container) engine.Interactor {
	return &Bouncer{container: c}
}

// Name implements engine.Interactor.
func (b *Bouncer) Name() string {
	return config.InteractorBounce
}

// IsEnabled implements engine.Interactor.
func (b *Bouncer) IsEnabled() bool {
	ia := b.container.Interactivity()
	return ia.Status == engine.MouseMove && ia.Mouse.Position != nil &&
		b.container.Options().Interactivity.Events.OnHover.Has(config.ModeBounce)
}

// Reset implements engine.Interactor.
func (b *Bouncer) Reset() {}

// Interact implements engine.Interactor.
func (b *Bouncer) Interact(delta engine.Delta) {
	mouse := *b.container.Interactivity().Mouse.Position
	radius := b.container.Options().Interactivity.Modes.Bounce.Distance
	if radius <= 0 {
		return
	}

	width, height := b.container.CanvasSize()
	for _, p := range b.container.QuadTree().QueryCircle(mouse, radius) {
		if p.Destroyed {
			continue
		}
		// 从鼠标指向粒子的外法线
		dist := utils.GetDistances(p.Position, mouse)
		if dist.Distance <= 0 || dist.Distance > radius {
			continue
		}
		normal := utils.Vector{X: dist.DX / dist.Distance, Y: dist.DY / dist.Distance}
		velocity := utils.Vector{X: p.Velocity.Horizontal, Y: p.Velocity.Vertical}

		dot := velocity.Dot(normal)
		if dot >= 0 {
			continue
		}
		reflected := velocity.Sub(normal.Scale(2 * dot))
		p.Velocity.Horizontal = reflected.X
		p.Velocity.Vertical = reflected.Y
		// 推回圆周，bounce 出界模式下不越过画布边界
		edge := mouse.Add(normal.Scale(radius))
		displaceParticle(p, edge.Sub(p.Position), width, height)
	}
}
