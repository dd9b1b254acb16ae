package utils

import (
	"math"
	"math/rand"
)

// Vector is a point or displacement in canvas space (pixels).
type Vector struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * f.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Length returns the euclidean length of v.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Distances holds the component and euclidean distance between two points.
type Distances struct {
	DX       float64
	DY       float64
	Distance float64
}

// GetDistances returns the offsets p1 - p2 and their euclidean length.
func GetDistances(p1, p2 Vector) Distances {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return Distances{DX: dx, DY: dy, Distance: math.Hypot(dx, dy)}
}

// GetDistance returns the euclidean distance between p1 and p2.
func GetDistance(p1, p2 Vector) float64 {
	return GetDistances(p1, p2).Distance
}

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

// RandomInRange returns a uniformly distributed value in [min, max).
// A nil rng falls back to the package-level source.
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	if rng == nil {
		return min + rand.Float64()*(max-min)
	}
	return min + rng.Float64()*(max-min)
}
