package engine

import (
	"image/color"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/utils"
)

// ParticleView is the published, read-only copy of one particle.
type ParticleView struct {
	ID       ecs.EntityID
	Position utils.Vector
	Size     float64
	Color    color.RGBA
	Opacity  float64
	Group    string
	// InfectionStage is the active infection stage, or -1.
	InfectionStage int
}

// LinkView is a line between two points.
type LinkView struct {
	From    utils.Vector
	To      utils.Vector
	Opacity float64
	Width   float64
	Color   color.RGBA
}

// TriangleView is a filled triangle between three linked particles.
type TriangleView struct {
	A, B, C utils.Vector
	Opacity float64
	Color   color.RGBA
}

// Snapshot is the immutable frame output handed to renderers. It never
// aliases live particle state.
type Snapshot struct {
	Frame      uint64
	Width      float64
	Height     float64
	Particles  []ParticleView
	Links      []LinkView
	Triangles  []TriangleView
	MouseLinks []LinkView
}

// Empty reports whether the snapshot has nothing to draw.
func (s Snapshot) Empty() bool {
	return len(s.Particles) == 0 && len(s.Links) == 0 && len(s.Triangles) == 0 && len(s.MouseLinks) == 0
}

// OverlayLink is a link between two particles recorded during a frame.
type OverlayLink struct {
	From, To ecs.EntityID
	Opacity  float64
	Width    float64
	Color    color.RGBA
}

// OverlayTriangle is a triangle between three particles recorded during a frame.
type OverlayTriangle struct {
	A, B, C ecs.EntityID
	Opacity float64
	Color   color.RGBA
}

// OverlayMouseLink is a line from a particle to the pointer.
type OverlayMouseLink struct {
	ID      ecs.EntityID
	Opacity float64
	Width   float64
	Color   color.RGBA
}

// Overlay collects what interactors want drawn this frame. Entries refer to
// particles by ID and are resolved to positions when the snapshot is built,
// after physics.
type Overlay struct {
	Links      []OverlayLink
	Triangles  []OverlayTriangle
	MouseLinks []OverlayMouseLink
}

// AddLink records a particle-particle link.
func (o *Overlay) AddLink(link OverlayLink) {
	o.Links = append(o.Links, link)
}

// AddTriangle records a filled triangle.
func (o *Overlay) AddTriangle(tri OverlayTriangle) {
	o.Triangles = append(o.Triangles, tri)
}

// AddMouseLink records a particle-pointer link.
func (o *Overlay) AddMouseLink(link OverlayMouseLink) {
	o.MouseLinks = append(o.MouseLinks, link)
}

func (o *Overlay) reset() {
	o.Links = o.Links[:0]
	o.Triangles = o.Triangles[:0]
	o.MouseLinks = o.MouseLinks[:0]
}

// buildSnapshot copies the population and resolves the overlay.
func (c *Container) buildSnapshot() Snapshot {
	snap := Snapshot{
		Frame:     c.frame,
		Width:     c.width,
		Height:    c.height,
		Particles: make([]ParticleView, 0, len(c.particles)),
	}

	byID := make(map[ecs.EntityID]*components.Particle, len(c.particles))
	for _, p := range c.particles {
		byID[p.ID] = p
		view := ParticleView{
			ID:             p.ID,
			Position:       p.Position,
			Size:           p.Size,
			Color:          p.Color,
			Opacity:        p.Opacity,
			Group:          p.Group,
			InfectionStage: -1,
		}
		for _, it := range c.interactors {
			if styler, ok := it.(ParticleStyler); ok {
				styler.ParticleStyle(p, &view)
			}
		}
		snap.Particles = append(snap.Particles, view)
	}

	for _, l := range c.overlay.Links {
		from, ok1 := byID[l.From]
		to, ok2 := byID[l.To]
		if !ok1 || !ok2 {
			continue
		}
		snap.Links = append(snap.Links, LinkView{
			From: from.Position, To: to.Position,
			Opacity: l.Opacity, Width: l.Width, Color: l.Color,
		})
	}

	for _, t := range c.overlay.Triangles {
		a, ok1 := byID[t.A]
		b, ok2 := byID[t.B]
		v, ok3 := byID[t.C]
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		snap.Triangles = append(snap.Triangles, TriangleView{
			A: a.Position, B: b.Position, C: v.Position,
			Opacity: t.Opacity, Color: t.Color,
		})
	}

	if mouse := c.interactivity.Mouse.Position; mouse != nil {
		for _, l := range c.overlay.MouseLinks {
			p, ok := byID[l.ID]
			if !ok {
				continue
			}
			snap.MouseLinks = append(snap.MouseLinks, LinkView{
				From: p.Position, To: *mouse,
				Opacity: l.Opacity, Width: l.Width, Color: l.Color,
			})
		}
	}
	return snap
}
