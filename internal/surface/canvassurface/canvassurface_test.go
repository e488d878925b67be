package canvassurface

import (
	"image/color"
	"math"
	"path/filepath"
	"testing"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestSurface_ClearAndFill(t *testing.T) {
	s := New(40, 30, black, white)
	s.ClearRect(0, 0, 40, 30)

	if got := s.Image().RGBAAt(5, 5); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Fatalf("clear should paint the background, got %+v", got)
	}

	s.SetGlobalAlpha(1)
	s.FillRect(10, 10, 10, 10)
	if got := s.Image().RGBAAt(15, 15); got.R > 10 {
		t.Errorf("expected a black pixel inside the rect, got %+v", got)
	}
	if got := s.Image().RGBAAt(30, 25); got.R != 255 {
		t.Errorf("pixel outside the rect changed: %+v", got)
	}
}

func TestSurface_AlphaIsClamped(t *testing.T) {
	s := New(20, 20, black, white)
	s.ClearRect(0, 0, 20, 20)

	s.SetGlobalAlpha(2)
	s.FillArc(10, 10, 5, 0, 2*math.Pi)
	if got := s.Image().RGBAAt(10, 10); got.R > 10 {
		t.Errorf("alpha above 1 should draw fully opaque, got %+v", got)
	}

	s.ClearRect(0, 0, 20, 20)
	s.SetGlobalAlpha(0)
	s.FillArc(10, 10, 5, 0, 2*math.Pi)
	if got := s.Image().RGBAAt(10, 10); got.R != 255 {
		t.Errorf("alpha 0 should leave the background, got %+v", got)
	}
}

func TestSurface_ScaleAndResize(t *testing.T) {
	s := New(10, 10, black, white)
	s.SetBufferSize(40, 40)
	s.SetScale(2)
	s.ClearRect(0, 0, 20, 20)
	s.SetGlobalAlpha(1)
	s.FillRect(10, 10, 5, 5)

	if b := s.Image().Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Fatalf("expected a 40x40 raster, got %v", b)
	}
	if got := s.Image().RGBAAt(25, 25); got.R > 10 {
		t.Errorf("scaled rect should cover (25,25), got %+v", got)
	}
	if got := s.Image().RGBAAt(12, 12); got.R != 255 {
		t.Errorf("scaled rect should not cover (12,12), got %+v", got)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.WritePNG(path); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
}
