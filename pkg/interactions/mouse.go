package interactions

import (
	"math"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// maxHoverFactor caps the per-frame hover displacement (px).
const maxHoverFactor = 50.0

// HoverFactor is the hover attract/repulse displacement for a particle at
// distance d from the pointer: clamp((1-(d/radius)²)·speed·100, 0, 50).
// It is non-increasing in d and zero at d >= radius.
func HoverFactor(d, radius, speed float64) float64 {
	if radius <= 0 {
		return 0
	}
	ratio := d / radius
	return utils.Clamp((1-ratio*ratio)*speed*100, 0, maxHoverFactor)
}

// displaceParticle moves p by offset, honouring bounce out modes: an axis
// that bounces only moves if the destination stays strictly inside
// [size, extent-size].
func displaceParticle(p *components.Particle, offset utils.Vector, width, height float64) {
	target := p.Position.Add(offset)
	if !p.OutMode.IsBounce() {
		p.Position = target
		return
	}

	if !p.OutMode.BouncesHorizontally() || (target.X > p.Size && target.X < width-p.Size) {
		p.Position.X = target.X
	}
	if !p.OutMode.BouncesVertically() || (target.Y > p.Size && target.Y < height-p.Size) {
		p.Position.Y = target.Y
	}
}

// hoverDisplace applies the hover force law around the pointer. toward
// selects attraction (true) or repulsion (false).
func hoverDisplace(c *engine.Container, mouse utils.Vector, radius, speed float64, toward bool) {
	width, height := c.CanvasSize()
	for _, p := range c.QuadTree().QueryCircle(mouse, radius) {
		if p.Destroyed {
			continue
		}
		// dx 指向鼠标
		dist := utils.GetDistances(mouse, p.Position)
		if dist.Distance <= 0 || dist.Distance > radius {
			continue
		}

		amount := HoverFactor(dist.Distance, radius, speed)
		if amount <= 0 {
			continue
		}
		dir := utils.Vector{X: dist.DX / dist.Distance, Y: dist.DY / dist.Distance}
		if toward {
			// Never carry a particle past the pointer.
			amount = math.Min(amount, dist.Distance)
		} else {
			dir = dir.Scale(-1)
		}
		displaceParticle(p, dir.Scale(amount), width, height)
	}
}

// clickRadius is the squared-distance threshold of a click session,
// (distance/6)³.
func clickRadius(distance float64) float64 {
	r := distance / 6
	return r * r * r
}

// clickForce sets the velocity of every particle in range of the click and
// captures it into the session. toward selects attraction or repulsion.
func clickForce(c *engine.Container, session *engine.ClickSession, click utils.Vector, distance, speed float64, toward bool) {
	radius := clickRadius(distance)
	if radius <= 0 {
		return
	}
	width, height := c.CanvasSize()

	for _, p := range c.QuadTree().QueryCircle(click, math.Sqrt(radius)) {
		if p.Destroyed {
			continue
		}
		dist := utils.GetDistances(click, p.Position)
		d2 := dist.DX*dist.DX + dist.DY*dist.DY
		if d2 == 0 || d2 > radius {
			continue
		}

		force := -radius * speed / d2
		angle := math.Atan2(dist.DY, dist.DX)
		if toward {
			p.Velocity = components.Velocity{Horizontal: -force * math.Cos(angle), Vertical: -force * math.Sin(angle)}
		} else {
			p.Velocity = components.Velocity{Horizontal: force * math.Cos(angle), Vertical: force * math.Sin(angle)}
		}
		reflectIfLeaving(p, width, height)
		session.Capture(p)
	}
	session.UpdateFinish(c.Count())
}

// reflectIfLeaving inverts a velocity component whose next step would cross
// a bound on an axis the out mode bounces on.
func reflectIfLeaving(p *components.Particle, width, height float64) {
	next := utils.Vector{
		X: p.Position.X + p.Velocity.Horizontal,
		Y: p.Position.Y + p.Velocity.Vertical,
	}
	if p.OutMode.BouncesHorizontally() && (next.X+p.Size > width || next.X-p.Size < 0) {
		p.Velocity.Horizontal = -p.Velocity.Horizontal
	}
	if p.OutMode.BouncesVertically() && (next.Y+p.Size > height || next.Y-p.Size < 0) {
		p.Velocity.Vertical = -p.Velocity.Vertical
	}
}

// mouseInteract runs the hover branch when the pointer moved over the canvas
// and hover lists mode, otherwise the click branch when click lists mode.
// Released sessions are restored every frame regardless of the branch taken.
func mouseInteract(c *engine.Container, mode string, session *engine.ClickSession, distance, speed float64, toward bool) {
	opts := c.Options()
	ia := c.Interactivity()
	events := opts.Interactivity.Events

	if ia.Status == engine.MouseMove && ia.Mouse.Position != nil && events.OnHover.Has(mode) {
		hoverDisplace(c, *ia.Mouse.Position, distance, speed, toward)
	} else if ia.Mouse.ClickPosition != nil && events.OnClick.Has(mode) && session.Held() {
		clickForce(c, session, *ia.Mouse.ClickPosition, distance, speed, toward)
	}

	if session.Clicking == engine.ClickReleased {
		session.ReleaseCaptured()
	}
}

// mouseEnabled reports whether a hover or click binding for mode can act.
func mouseEnabled(c *engine.Container, mode string, session *engine.ClickSession) bool {
	events := c.Options().Interactivity.Events
	mouse := c.Interactivity().Mouse
	hover := mouse.Position != nil && events.OnHover.Has(mode)
	click := mouse.ClickPosition != nil && events.OnClick.Has(mode)
	return hover || click || len(session.Particles) > 0
}
