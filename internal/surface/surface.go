// Package surface defines the drawing surface the dot field paints on.
package surface

// Surface is a 2D drawing target with a canvas-like immediate API.
// Coordinates are layout pixels; SetScale maps them onto the pixel buffer.
type Surface interface {
	SetBufferSize(w, h int)
	SetScale(s float64)
	ClearRect(x, y, w, h float64)
	// SetGlobalAlpha sets the alpha of subsequent fills. Values outside
	// [0,1] are clamped by the implementation.
	SetGlobalAlpha(a float64)
	FillRect(x, y, w, h float64)
	// FillArc fills the circular sector from start to end (radians).
	FillArc(x, y, r, start, end float64)
}

// ClampAlpha limits a to [0,1].
func ClampAlpha(a float64) float64 {
	if a < 0 || a != a {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
