// Package ebitensurface draws onto an ebiten screen image.
package ebitensurface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/dotfield/internal/surface"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Surface adapts an ebiten image to surface.Surface. The target image is
// swapped in every frame with Begin.
type Surface struct {
	dst *ebiten.Image

	width, height int
	scale         float64
	alpha         float64

	fill       color.NRGBA
	background color.NRGBA
	antialias  bool
}

var _ surface.Surface = (*Surface)(nil)

// New creates a surface painting dots in fill over background.
func New(fill, background color.NRGBA) *Surface {
	return &Surface{
		scale:      1,
		alpha:      1,
		fill:       fill,
		background: background,
		antialias:  true,
	}
}

// Begin sets the image the next frame draws on.
func (s *Surface) Begin(dst *ebiten.Image) {
	s.dst = dst
}

// BufferSize returns the pixel buffer size ebiten should lay out.
func (s *Surface) BufferSize() (int, int) {
	return s.width, s.height
}

func (s *Surface) SetBufferSize(w, h int) {
	s.width, s.height = w, h
}

func (s *Surface) SetScale(scale float64) {
	s.scale = scale
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	if s.dst == nil {
		return
	}
	b := s.dst.Bounds()
	if x <= 0 && y <= 0 && (x+w)*s.scale >= float64(b.Dx()) && (y+h)*s.scale >= float64(b.Dy()) {
		s.dst.Fill(s.background)
		return
	}
	vector.DrawFilledRect(s.dst,
		float32(x*s.scale), float32(y*s.scale), float32(w*s.scale), float32(h*s.scale),
		s.background, false)
}

func (s *Surface) SetGlobalAlpha(a float64) {
	s.alpha = surface.ClampAlpha(a)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	if s.dst == nil || s.alpha == 0 {
		return
	}
	vector.DrawFilledRect(s.dst,
		float32(x*s.scale), float32(y*s.scale), float32(w*s.scale), float32(h*s.scale),
		s.color(), s.antialias)
}

func (s *Surface) FillArc(x, y, r, start, end float64) {
	if s.dst == nil || s.alpha == 0 || r <= 0 {
		return
	}
	cx, cy, cr := float32(x*s.scale), float32(y*s.scale), float32(r*s.scale)
	if math.Abs(end-start) >= 2*math.Pi {
		vector.DrawFilledCircle(s.dst, cx, cy, cr, s.color(), s.antialias)
		return
	}

	var path vector.Path
	path.MoveTo(cx, cy)
	path.Arc(cx, cy, cr, float32(start), float32(end), vector.Clockwise)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	c := s.color()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(c.R) / 0xff
		vs[i].ColorG = float32(c.G) / 0xff
		vs[i].ColorB = float32(c.B) / 0xff
		vs[i].ColorA = float32(c.A) / 0xff
	}
	s.dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: s.antialias})
}

func (s *Surface) color() color.NRGBA {
	c := s.fill
	c.A = uint8(math.Round(float64(c.A) * s.alpha))
	return c
}
