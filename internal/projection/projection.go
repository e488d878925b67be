// Package projection maps points in world space onto the drawing surface.
package projection

import "math"

// MinScale is the floor applied when the perspective denominator is not
// positive, which only happens for degenerate viewports.
const MinScale = 1e-6

// Point is a position in world space. Z grows away from the viewer.
type Point struct {
	X, Y, Z float64
}

// Params are the viewport values the projection depends on.
type Params struct {
	Perspective      float64
	CenterX, CenterY float64
}

// Projected is a point on the drawing surface plus its depth scale.
type Projected struct {
	X, Y  float64
	Scale float64
}

// Scale returns P/(P+z).
//
// A zero perspective disables perspective scaling and yields 1. When P+z
// is not positive the result is clamped to MinScale instead of dividing
// by zero or flipping the sign.
func Scale(perspective, z float64) float64 {
	if perspective == 0 {
		return 1
	}
	denom := perspective + z
	if denom <= 0 || math.IsNaN(denom) {
		return MinScale
	}
	s := perspective / denom
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return MinScale
	}
	return s
}

// Project maps p onto the surface.
func Project(p Point, v Params) Projected {
	s := Scale(v.Perspective, p.Z)
	return Projected{
		X:     p.X*s + v.CenterX,
		Y:     p.Y*s + v.CenterY,
		Scale: s,
	}
}

// Opacity returns |1 - z/width|. The value is not clamped and exceeds 1
// for depths beyond twice the width; surfaces clamp it when drawing.
func Opacity(z, width float64) float64 {
	if width == 0 {
		return 1
	}
	return math.Abs(1 - z/width)
}
