// Package viewport owns the surface geometry and everything derived from it.
package viewport

import (
	"math"

	"github.com/iburimskiy/dotfield/internal/projection"
)

// Factors used when deriving State from a layout size.
type Factors struct {
	Perspective float64 // perspective distance = width * Perspective
	GlobeRadius float64 // globe radius = width * GlobeRadius
	HiDPIScale  float64 // buffer multiplier when the pixel ratio exceeds 1
}

// DefaultFactors are the stock derivation factors.
var DefaultFactors = Factors{
	Perspective: 0.8,
	GlobeRadius: 1.0 / 3.0,
	HiDPIScale:  2,
}

// State is the settled viewport every projection reads from.
type State struct {
	Width, Height float64 // layout pixels
	PixelRatio    float64

	BufferWidth, BufferHeight int
	Scale                     float64 // uniform transform applied to drawing

	Perspective      float64
	CenterX, CenterY float64
	GlobeRadius      float64
}

// Derive computes the full state for a layout size and pixel ratio.
func Derive(width, height, pixelRatio float64, f Factors) State {
	width = sanitize(width)
	height = sanitize(height)

	bw, bh, scale := Buffer(width, height, pixelRatio, f.HiDPIScale)
	return State{
		Width:        width,
		Height:       height,
		PixelRatio:   pixelRatio,
		BufferWidth:  bw,
		BufferHeight: bh,
		Scale:        scale,
		Perspective:  width * f.Perspective,
		CenterX:      width / 2,
		CenterY:      height / 2,
		GlobeRadius:  width * f.GlobeRadius,
	}
}

// Buffer returns the pixel buffer size and drawing scale for a layout size.
// High density displays get a hidpi-times larger buffer and a matching
// transform so drawing code keeps working in layout pixels.
func Buffer(width, height, pixelRatio, hidpi float64) (int, int, float64) {
	scale := 1.0
	if pixelRatio > 1 && hidpi > 0 {
		scale = hidpi
	}
	return int(math.Round(sanitize(width) * scale)), int(math.Round(sanitize(height) * scale)), scale
}

// Projection returns the parameters the projector needs.
func (s State) Projection() projection.Params {
	return projection.Params{
		Perspective: s.Perspective,
		CenterX:     s.CenterX,
		CenterY:     s.CenterY,
	}
}

func sanitize(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
