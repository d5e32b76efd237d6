// Package geom provides the 2D primitives used by the thread map layout engine.
//
// All values are in logical layout units, the same unit space as the node
// radius constants in package layout. Nothing here knows about screen pixels,
// viewports or zoom.
package geom

import "math"

// Point is a position in the layout plane.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Origin is the zero point, the default layout center.
var Origin = Point{}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by v.
func (p Point) Add(v Vector) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Near reports whether p and q differ by at most tol on both axes.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Vector is a displacement in the layout plane.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector { return Vector{X: x, Y: y} }

// Len returns the Euclidean length of v.
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector { return Vector{X: v.X * s, Y: v.Y * s} }

// Neg returns -v.
func (v Vector) Neg() Vector { return Vector{X: -v.X, Y: -v.Y} }

// Unit returns v scaled to length 1.
// The zero vector has no direction; Unit returns fallback for it.
func (v Vector) Unit(fallback Vector) Vector {
	l := v.Len()
	if l == 0 {
		return fallback
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Size is the width and height of a rectangular footprint.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// HalfExtent returns half of the larger side, the radius of the smallest
// axis-aligned square centered on the footprint that contains it.
func (s Size) HalfExtent() float64 { return max(s.Width, s.Height) / 2 }

// Centroid returns the arithmetic mean of pts and false if pts is empty.
func Centroid(pts []Point) (Point, bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}, true
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }
