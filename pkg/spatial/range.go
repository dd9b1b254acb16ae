// Package spatial provides the per-frame spatial index used for neighbour
// queries: a point quadtree over the canvas plane and the query shapes it
// accepts.
package spatial

import (
	"math"

	"github.com/decker502/particlefield/pkg/utils"
)

// Range is a query area. Contains is exact for the shape; Intersects is used
// to prune whole quadrants.
type Range interface {
	Contains(point utils.Vector) bool
	Intersects(rect Rectangle) bool
}

// Rectangle is an axis-aligned box anchored at its top-left corner.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRectangle creates a rectangle from its top-left corner and size.
func NewRectangle(x, y, width, height float64) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle has no area.
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether point lies within the rectangle (edges inclusive).
func (r Rectangle) Contains(point utils.Vector) bool {
	return point.X >= r.X && point.X <= r.X+r.Width &&
		point.Y >= r.Y && point.Y <= r.Y+r.Height
}

// Extend returns the smallest rectangle covering r and point.
func (r Rectangle) Extend(point utils.Vector) Rectangle {
	minX, minY := math.Min(r.X, point.X), math.Min(r.Y, point.Y)
	maxX, maxY := math.Max(r.X+r.Width, point.X), math.Max(r.Y+r.Height, point.Y)
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Intersects reports whether the two rectangles overlap (touching counts).
func (r Rectangle) Intersects(other Rectangle) bool {
	return !(other.X > r.X+r.Width ||
		other.X+other.Width < r.X ||
		other.Y > r.Y+r.Height ||
		other.Y+other.Height < r.Y)
}

// Circle is a disc query area.
type Circle struct {
	Center utils.Vector
	Radius float64
}

// NewCircle creates a circle centred at (x, y).
func NewCircle(x, y, radius float64) Circle {
	return Circle{Center: utils.Vector{X: x, Y: y}, Radius: radius}
}

// Contains reports whether point lies within the circle (boundary inclusive).
func (c Circle) Contains(point utils.Vector) bool {
	return utils.GetDistance(point, c.Center) <= c.Radius
}

// Intersects reports whether the circle overlaps the rectangle, using the
// closest point of the rectangle to the circle centre.
func (c Circle) Intersects(rect Rectangle) bool {
	closestX := utils.Clamp(c.Center.X, rect.X, rect.X+rect.Width)
	closestY := utils.Clamp(c.Center.Y, rect.Y, rect.Y+rect.Height)
	dx := c.Center.X - closestX
	dy := c.Center.Y - closestY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}
