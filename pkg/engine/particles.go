package engine

import (
	"github.com/decker502/particlefield/internal/particle"
	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/utils"
)

// fill creates the initial population.
func (c *Container) fill() {
	number := c.options.Particles.Number
	count := number.Value
	if number.Limit > 0 && count > number.Limit {
		count = number.Limit
	}
	for i := 0; i < count; i++ {
		if c.SpawnParticle(nil, "") == nil {
			break
		}
	}
}

// SpawnParticle adds a particle to group ("" for the main group, otherwise an
// emitter name). A nil position picks a random point on the canvas. It
// returns nil when the population limit is reached.
func (c *Container) SpawnParticle(position *utils.Vector, group string) *components.Particle {
	opts := c.options
	if limit := opts.Particles.Number.Limit; limit > 0 && len(c.particles) >= limit {
		return nil
	}

	style := c.groupStyle(group)
	size := style.size.Sample(c.rng)
	if size < 0 {
		size = 0
	}

	var pos utils.Vector
	if position != nil {
		pos = *position
	} else {
		pos = utils.Vector{
			X: utils.RandomInRange(c.rng, 0, c.width),
			Y: utils.RandomInRange(c.rng, 0, c.height),
		}
		if style.outMode.IsBounce() {
			pos.X = clampInside(pos.X, size, c.width)
			pos.Y = clampInside(pos.Y, size, c.height)
		}
	}

	velocity := c.baseVelocity(style.direction)
	p := &components.Particle{
		ID:              c.entities.CreateEntity(),
		Position:        pos,
		Velocity:        velocity,
		InitialVelocity: velocity,
		Size:            size,
		OutMode:         style.outMode,
		Group:           group,
		Color:           style.color.Resolve(c.rng),
		Opacity:         opts.Particles.Opacity,
	}
	c.entities.AddComponent(p.ID, p)
	c.particles = append(c.particles, p)

	for _, it := range c.interactors {
		if initializer, ok := it.(ParticleInitializer); ok {
			initializer.ParticleCreated(p)
		}
	}
	return p
}

// RemoveParticles removes the n oldest particles immediately.
func (c *Container) RemoveParticles(n int) {
	if n <= 0 {
		return
	}
	if n > len(c.particles) {
		n = len(c.particles)
	}
	for _, p := range c.particles[:n] {
		p.Destroyed = true
	}
	c.removeDestroyed(false)
}

// Clear removes the whole population and resets gesture state.
func (c *Container) Clear() {
	c.particles = nil
	c.entities.Clear()
	c.tree.Clear()
	c.attractSession = ClickSession{}
	c.repulseSession = ClickSession{}
	c.overlay.reset()
}

// removeDestroyed drops every particle marked Destroyed, optionally
// replacing each one when respawn is enabled.
func (c *Container) removeDestroyed(allowRespawn bool) {
	var dead []*components.Particle
	kept := c.particles[:0]
	for _, p := range c.particles {
		if p.Destroyed {
			dead = append(dead, p)
			continue
		}
		kept = append(kept, p)
	}
	// Clear the tail so removed particles can be collected.
	for i := len(kept); i < len(c.particles); i++ {
		c.particles[i] = nil
	}
	c.particles = kept

	if len(dead) == 0 {
		return
	}

	removed := make(map[ecs.EntityID]bool, len(dead))
	for _, p := range dead {
		removed[p.ID] = true
		c.entities.DestroyEntity(p.ID)
	}
	c.entities.RemoveMarkedEntities()
	c.attractSession.forget(removed)
	c.repulseSession.forget(removed)

	if allowRespawn && c.options.Particles.Number.Respawn {
		for _, p := range dead {
			c.respawn(p)
		}
	}
}

// respawn replaces a destroyed particle, preferring a Respawner interactor.
func (c *Container) respawn(dead *components.Particle) {
	for _, it := range c.interactors {
		if r, ok := it.(Respawner); ok && r.Respawn(dead) {
			return
		}
	}
	c.SpawnParticle(nil, dead.Group)
}

// groupStyle is the resolved spawn style for a particle group.
type groupStyle struct {
	color     config.Color
	size      particle.RangeValue
	outMode   components.OutMode
	direction string
}

// groupStyle resolves the main group options with emitter overrides applied.
func (c *Container) groupStyle(group string) groupStyle {
	main := c.options.Particles
	style := groupStyle{
		color:     main.Color,
		size:      main.Size,
		outMode:   main.Move.ResolvedOutMode(),
		direction: "none",
	}
	if group == "" {
		return style
	}

	emitter, ok := c.options.EmitterByName(group)
	if !ok {
		return style
	}
	style.direction = emitter.Direction
	if emitter.Particles.Color != nil {
		style.color = *emitter.Particles.Color
	}
	if emitter.Particles.Size != nil {
		style.size = *emitter.Particles.Size
	}
	if mode, ok := emitter.Particles.ResolvedOutMode(); ok {
		style.outMode = mode
	}
	return style
}

// reapplyGroupOverrides re-resolves per-group out modes after a reload.
func (c *Container) reapplyGroupOverrides() {
	for _, p := range c.particles {
		p.OutMode = c.groupStyle(p.Group).outMode
	}
}

// baseVelocity returns a new particle velocity for an emit direction.
func (c *Container) baseVelocity(direction string) components.Velocity {
	var base utils.Vector
	switch direction {
	case "top":
		base = utils.Vector{Y: -1}
	case "bottom":
		base = utils.Vector{Y: 1}
	case "left":
		base = utils.Vector{X: -1}
	case "right":
		base = utils.Vector{X: 1}
	}
	return components.Velocity{
		Horizontal: base.X + c.rng.Float64() - 0.5,
		Vertical:   base.Y + c.rng.Float64() - 0.5,
	}
}

// clampInside keeps a coordinate within [size, extent-size] when that
// interval is not empty.
func clampInside(v, size, extent float64) float64 {
	if extent <= 2*size {
		return extent / 2
	}
	return utils.Clamp(v, size, extent-size)
}
