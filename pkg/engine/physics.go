package engine

import (
	"math"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
)

// noiseTimeScale converts simulated milliseconds to the third perlin axis.
const noiseTimeScale = 0.0003

// integrate moves every particle by its velocity and applies out modes.
func (c *Container) integrate(delta Delta) {
	move := c.options.Particles.Move
	for _, p := range c.particles {
		if p.Destroyed {
			continue
		}
		if move.Enable {
			c.moveParticle(p, move, delta)
		}
		c.applyOutMode(p)
	}
}

// moveParticle applies position += velocity * speed/2 * factor and the
// optional noise drift.
func (c *Container) moveParticle(p *components.Particle, move config.MoveOptions, delta Delta) {
	speed := move.Speed / 2 * delta.Factor
	p.Position.X += p.Velocity.Horizontal * speed
	p.Position.Y += p.Velocity.Vertical * speed

	if !move.Noise.Enable || move.Noise.Strength == 0 {
		return
	}
	n := c.noise.Noise3D(p.Position.X*move.Noise.Scale, p.Position.Y*move.Noise.Scale, c.clock*noiseTimeScale)
	angle := n * 4 * math.Pi
	drift := move.Noise.Strength * delta.Factor
	p.Position.X += math.Cos(angle) * drift
	p.Position.Y += math.Sin(angle) * drift
}

// applyOutMode handles a particle at or beyond the canvas edges.
//
// Bounce modes keep the particle inside [size, extent-size] on their axes and
// reflect the velocity component pointing outwards. A single-axis bounce mode
// wraps on the other axis.
func (c *Container) applyOutMode(p *components.Particle) {
	switch p.OutMode {
	case components.OutModeNone:
		return
	case components.OutModeDestroy:
		if c.outside(p) {
			p.Destroyed = true
		}
		return
	case components.OutModeWrap:
		wrapAxis(&p.Position.X, p.Size, c.width)
		wrapAxis(&p.Position.Y, p.Size, c.height)
		return
	}

	if p.OutMode.BouncesHorizontally() {
		bounceAxis(&p.Position.X, &p.Velocity.Horizontal, p.Size, c.width)
	} else {
		wrapAxis(&p.Position.X, p.Size, c.width)
	}
	if p.OutMode.BouncesVertically() {
		bounceAxis(&p.Position.Y, &p.Velocity.Vertical, p.Size, c.height)
	} else {
		wrapAxis(&p.Position.Y, p.Size, c.height)
	}
}

// outside reports whether the particle is entirely off the canvas.
func (c *Container) outside(p *components.Particle) bool {
	return p.Position.X+p.Size < 0 || p.Position.X-p.Size > c.width ||
		p.Position.Y+p.Size < 0 || p.Position.Y-p.Size > c.height
}

func bounceAxis(pos, velocity *float64, size, extent float64) {
	if extent <= 2*size {
		*pos = extent / 2
		return
	}
	if *pos+size >= extent {
		*pos = extent - size
		if *velocity > 0 {
			*velocity = -*velocity
		}
	} else if *pos-size <= 0 {
		*pos = size
		if *velocity < 0 {
			*velocity = -*velocity
		}
	}
}

func wrapAxis(pos *float64, size, extent float64) {
	if *pos-size > extent {
		*pos = -size
	} else if *pos+size < 0 {
		*pos = extent + size
	}
}
