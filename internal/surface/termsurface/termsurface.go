// Package termsurface draws the dot field into terminal cells with tcell.
package termsurface

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/dotfield/internal/surface"
)

// Surface maps layout pixels onto terminal cells. One cell is one pixel
// wide and aspect pixels tall, so circles stay round on screen.
type Surface struct {
	screen tcell.Screen
	aspect float64
	glyph  rune

	scale float64
	alpha float64

	fill       colorful.Color
	background colorful.Color
	bgStyle    tcell.Style
}

var _ surface.Surface = (*Surface)(nil)

// New creates a surface on an initialised screen.
func New(screen tcell.Screen, aspect float64, glyph rune, fill, background color.NRGBA) *Surface {
	if aspect <= 0 {
		aspect = 2
	}
	bg := toColorful(background)
	return &Surface{
		screen:     screen,
		aspect:     aspect,
		glyph:      glyph,
		scale:      1,
		alpha:      1,
		fill:       toColorful(fill),
		background: bg,
		bgStyle:    tcell.StyleDefault.Background(tcellColor(bg)),
	}
}

// LayoutSize converts the screen size in cells into layout pixels.
func (s *Surface) LayoutSize() (float64, float64) {
	cols, rows := s.screen.Size()
	return float64(cols), float64(rows) * s.aspect
}

// SetBufferSize is a no-op: the terminal owns its cell grid.
func (s *Surface) SetBufferSize(w, h int) {}

func (s *Surface) SetScale(scale float64) { s.scale = scale }

func (s *Surface) ClearRect(x, y, w, h float64) {
	c0, r0, c1, r1 := s.cells(x, y, x+w, y+h)
	cols, rows := s.screen.Size()
	if c0 <= 0 && r0 <= 0 && c1 >= cols-1 && r1 >= rows-1 {
		s.screen.Fill(' ', s.bgStyle)
		return
	}
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			s.screen.SetContent(col, row, ' ', nil, s.bgStyle)
		}
	}
}

func (s *Surface) SetGlobalAlpha(a float64) {
	s.alpha = surface.ClampAlpha(a)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	if s.alpha == 0 {
		return
	}
	style := s.style()
	c0, r0, c1, r1 := s.cells(x, y, x+w, y+h)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			s.screen.SetContent(col, row, s.glyph, nil, style)
		}
	}
}

func (s *Surface) FillArc(x, y, r, start, end float64) {
	if s.alpha == 0 || r < 0 {
		return
	}
	style := s.style()
	full := math.Abs(end-start) >= 2*math.Pi
	c0, r0, c1, r1 := s.cells(x-r, y-r, x+r, y+r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			// centre of the cell in layout pixels
			px := (float64(col) + 0.5) / s.scale
			py := (float64(row) + 0.5) * s.aspect / s.scale
			dx, dy := px-x, py-y
			if dx*dx+dy*dy > r*r && !(col == c0 && row == r0 && c0 == c1 && r0 == r1) {
				continue
			}
			if !full && !inSweep(math.Atan2(dy, dx), start, end) {
				continue
			}
			s.screen.SetContent(col, row, s.glyph, nil, style)
		}
	}
}

// Show flushes the frame to the terminal.
func (s *Surface) Show() { s.screen.Show() }

// cells returns the inclusive cell range covering the layout rectangle.
// A rectangle smaller than a cell still covers the cell it starts in.
func (s *Surface) cells(x0, y0, x1, y1 float64) (int, int, int, int) {
	c0 := int(math.Floor(x0 * s.scale))
	r0 := int(math.Floor(y0 * s.scale / s.aspect))
	c1 := int(math.Ceil(x1*s.scale)) - 1
	r1 := int(math.Ceil(y1*s.scale/s.aspect)) - 1
	if c1 < c0 {
		c1 = c0
	}
	if r1 < r0 {
		r1 = r0
	}
	return c0, r0, c1, r1
}

// style blends the fill over the background by the global alpha, since a
// terminal cell has no transparency.
func (s *Surface) style() tcell.Style {
	c := s.background.BlendRgb(s.fill, s.alpha).Clamped()
	return s.bgStyle.Foreground(tcellColor(c))
}

func inSweep(a, start, end float64) bool {
	if end < start {
		start, end = end, start
	}
	a = math.Mod(a-start, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a <= end-start
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
