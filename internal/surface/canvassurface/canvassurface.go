// Package canvassurface rasterises frames in memory with the canvas
// software backend, for headless export.
package canvassurface

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/iburimskiy/dotfield/internal/surface"
)

// Surface draws into an in-memory RGBA image.
type Surface struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas

	width, height int
	scale         float64
	alpha         float64

	fill       color.NRGBA
	background color.NRGBA
}

var _ surface.Surface = (*Surface)(nil)

// New creates a w×h surface.
func New(w, h int, fill, background color.NRGBA) *Surface {
	s := &Surface{
		scale:      1,
		alpha:      1,
		fill:       fill,
		background: background,
	}
	s.SetBufferSize(w, h)
	return s
}

// SetBufferSize reallocates the raster when the size changes.
func (s *Surface) SetBufferSize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if s.cv != nil && w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.backend = softwarebackend.New(w, h)
	s.cv = canvas.New(s.backend)
	s.cv.SetTransform(s.scale, 0, 0, s.scale, 0, 0)
	s.cv.SetGlobalAlpha(s.alpha)
}

func (s *Surface) SetScale(scale float64) {
	s.scale = scale
	s.cv.SetTransform(scale, 0, 0, scale, 0, 0)
}

// ClearRect paints the background over the rectangle.
func (s *Surface) ClearRect(x, y, w, h float64) {
	s.cv.ClearRect(x, y, w, h)
	s.cv.SetGlobalAlpha(1)
	s.cv.SetFillStyle(s.background)
	s.cv.FillRect(x, y, w, h)
	s.cv.SetGlobalAlpha(s.alpha)
}

func (s *Surface) SetGlobalAlpha(a float64) {
	s.alpha = surface.ClampAlpha(a)
	s.cv.SetGlobalAlpha(s.alpha)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	s.cv.SetFillStyle(s.fill)
	s.cv.FillRect(x, y, w, h)
}

func (s *Surface) FillArc(x, y, r, start, end float64) {
	if r <= 0 {
		return
	}
	s.cv.SetFillStyle(s.fill)
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, start, end, false)
	s.cv.ClosePath()
	s.cv.Fill()
}

// Image returns the raster of the last frame.
func (s *Surface) Image() *image.RGBA {
	return s.backend.Image
}

// WritePNG encodes the current raster to path.
func (s *Surface) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame file: %w", err)
	}
	if err := png.Encode(f, s.backend.Image); err != nil {
		f.Close()
		return fmt.Errorf("encoding frame: %w", err)
	}
	return f.Close()
}
