package spatial

import (
	"math"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/utils"
)

const (
	// DefaultCapacity is the number of particles a node holds before it splits.
	DefaultCapacity = 4

	// maxDepth stops subdivision when many particles share one position.
	maxDepth = 16
)

// QuadTree is a point quadtree over particle positions.
//
// The tree never owns particles: it stores references captured at Build time
// and is meant to be rebuilt wholesale every frame, so that query results
// always reflect exactly the positions passed to the last Build.
type QuadTree struct {
	bounds    Rectangle
	capacity  int
	depth     int
	particles []*components.Particle
	children  [4]*QuadTree // NW, NE, SW, SE; nil until the node splits
	divided   bool
}

// NewQuadTree creates an empty tree covering bounds.
// A capacity below 1 falls back to DefaultCapacity.
func NewQuadTree(bounds Rectangle, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return newNode(bounds, capacity, 0)
}

func newNode(bounds Rectangle, capacity, depth int) *QuadTree {
	return &QuadTree{
		bounds:    bounds,
		capacity:  capacity,
		depth:     depth,
		particles: make([]*components.Particle, 0, capacity),
	}
}

// Bounds returns the area covered by the tree.
func (qt *QuadTree) Bounds() Rectangle {
	return qt.bounds
}

// Build discards the current contents and inserts every live particle.
// Destroyed particles are skipped.
//
// bounds is the canvas. The tree grows beyond it to cover live particles
// that are off the canvas (wrap and none out modes, destroy particles still
// partly visible), so every live particle is indexed. Empty bounds mean no
// canvas and leave the tree empty.
func (qt *QuadTree) Build(bounds Rectangle, particles []*components.Particle) {
	qt.Clear()

	if bounds.Empty() {
		qt.bounds = bounds
		return
	}

	for _, p := range particles {
		if indexable(p) {
			bounds = bounds.Extend(p.Position)
		}
	}
	qt.bounds = bounds

	for _, p := range particles {
		if indexable(p) {
			qt.Insert(p)
		}
	}
}

// indexable 非 NaN/Inf 坐标的存活粒子
// NaN 坐标不会被任何查询区域包含，跳过不会产生漏报
func indexable(p *components.Particle) bool {
	if p == nil || p.Destroyed {
		return false
	}
	return !math.IsNaN(p.Position.X) && !math.IsNaN(p.Position.Y) &&
		!math.IsInf(p.Position.X, 0) && !math.IsInf(p.Position.Y, 0)
}

// Clear removes every particle and child node.
func (qt *QuadTree) Clear() {
	qt.particles = qt.particles[:0]
	qt.children = [4]*QuadTree{}
	qt.divided = false
}

// Insert adds a particle reference. It returns false when the particle lies
// outside the tree bounds or the tree has no area.
func (qt *QuadTree) Insert(p *components.Particle) bool {
	if qt.bounds.Empty() || !qt.bounds.Contains(p.Position) {
		return false
	}

	if !qt.divided {
		if len(qt.particles) < qt.capacity || qt.depth >= maxDepth {
			qt.particles = append(qt.particles, p)
			return true
		}
		qt.subdivide()
	}

	for _, child := range qt.children {
		if child.Insert(p) {
			return true
		}
	}

	// Floating point edge case: the point is inside this node but no child
	// accepted it. Keep it here rather than losing it.
	qt.particles = append(qt.particles, p)
	return true
}

// subdivide splits the node into four quadrants and moves its particles down.
func (qt *QuadTree) subdivide() {
	x, y := qt.bounds.X, qt.bounds.Y
	w, h := qt.bounds.Width/2, qt.bounds.Height/2
	d := qt.depth + 1

	qt.children[0] = newNode(Rectangle{X: x, Y: y, Width: w, Height: h}, qt.capacity, d)
	qt.children[1] = newNode(Rectangle{X: x + w, Y: y, Width: w, Height: h}, qt.capacity, d)
	qt.children[2] = newNode(Rectangle{X: x, Y: y + h, Width: w, Height: h}, qt.capacity, d)
	qt.children[3] = newNode(Rectangle{X: x + w, Y: y + h, Width: w, Height: h}, qt.capacity, d)
	qt.divided = true

	existing := qt.particles
	qt.particles = make([]*components.Particle, 0, qt.capacity)
	for _, p := range existing {
		placed := false
		for _, child := range qt.children {
			if child.Insert(p) {
				placed = true
				break
			}
		}
		if !placed {
			qt.particles = append(qt.particles, p)
		}
	}
}

// Query returns every indexed particle whose position lies inside area.
// Results have no particular order.
func (qt *QuadTree) Query(area Range) []*components.Particle {
	return qt.query(area, nil)
}

// QueryCircle is a shortcut for Query(NewCircle(center.X, center.Y, radius)).
func (qt *QuadTree) QueryCircle(center utils.Vector, radius float64) []*components.Particle {
	if radius < 0 {
		return nil
	}
	return qt.Query(Circle{Center: center, Radius: radius})
}

// QueryRectangle is a shortcut for Query(rect).
func (qt *QuadTree) QueryRectangle(rect Rectangle) []*components.Particle {
	return qt.Query(rect)
}

func (qt *QuadTree) query(area Range, found []*components.Particle) []*components.Particle {
	if qt.bounds.Empty() || !area.Intersects(qt.bounds) {
		return found
	}

	for _, p := range qt.particles {
		if area.Contains(p.Position) {
			found = append(found, p)
		}
	}

	if qt.divided {
		for _, child := range qt.children {
			found = child.query(area, found)
		}
	}

	return found
}

// Size returns the number of particles stored in the tree.
func (qt *QuadTree) Size() int {
	n := len(qt.particles)
	if qt.divided {
		for _, child := range qt.children {
			n += child.Size()
		}
	}
	return n
}
