package termsurface

import (
	"image/color"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	sim.SetSize(cols, rows)
	t.Cleanup(sim.Fini)
	return sim
}

func glyphAt(s tcell.Screen, col, row int) rune {
	r, _, _, _ := s.GetContent(col, row)
	return r
}

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestSurface_LayoutSize(t *testing.T) {
	sim := newSimScreen(t, 80, 24)
	s := New(sim, 2, '*', black, white)
	w, h := s.LayoutSize()
	if w != 80 || h != 48 {
		t.Errorf("expected 80x48 layout pixels, got %vx%v", w, h)
	}
}

func TestSurface_FillRectCoversCells(t *testing.T) {
	sim := newSimScreen(t, 20, 10)
	s := New(sim, 2, '*', black, white)
	s.ClearRect(0, 0, 20, 20)
	s.SetGlobalAlpha(1)

	// x 4..8, y 4..8 covers cols 4..7 and rows 2..3
	s.FillRect(4, 4, 4, 4)
	for row := 0; row < 10; row++ {
		for col := 0; col < 20; col++ {
			inside := col >= 4 && col <= 7 && row >= 2 && row <= 3
			got := glyphAt(sim, col, row)
			if inside && got != '*' {
				t.Errorf("cell (%d,%d) should be filled, got %q", col, row, got)
			}
			if !inside && got == '*' {
				t.Errorf("cell (%d,%d) should be empty", col, row)
			}
		}
	}
}

func TestSurface_TinyDotStillVisible(t *testing.T) {
	sim := newSimScreen(t, 20, 10)
	s := New(sim, 2, '*', black, white)
	s.ClearRect(0, 0, 20, 20)
	s.SetGlobalAlpha(0.5)
	s.FillArc(10.2, 6.1, 0.1, 0, 2*math.Pi)
	if got := glyphAt(sim, 10, 3); got != '*' {
		t.Errorf("sub-cell dot should light its cell, got %q", got)
	}
}

func TestSurface_AlphaBlendsTowardBackground(t *testing.T) {
	sim := newSimScreen(t, 4, 2)
	s := New(sim, 2, '*', black, white)
	s.ClearRect(0, 0, 4, 4)

	s.SetGlobalAlpha(0.25)
	s.FillRect(0, 0, 1, 1)
	_, _, style, _ := sim.GetContent(0, 0)
	fg, _, _ := style.Decompose()
	r, _, _ := fg.RGB()
	if r < 180 || r > 200 {
		t.Errorf("25%% black over white should be light grey, got red=%d", r)
	}

	s.ClearRect(0, 0, 4, 4)
	s.SetGlobalAlpha(0)
	s.FillRect(0, 0, 1, 1)
	if got := glyphAt(sim, 0, 0); got == '*' {
		t.Error("transparent fill should draw nothing")
	}
}

func TestInSweep(t *testing.T) {
	if !inSweep(math.Pi/4, 0, math.Pi/2) {
		t.Error("45° should be inside a quarter sweep")
	}
	if inSweep(math.Pi, 0, math.Pi/2) {
		t.Error("180° should be outside a quarter sweep")
	}
	if !inSweep(-math.Pi/2, math.Pi, 2*math.Pi) {
		t.Error("-90° equals 270° and lies in the lower half sweep")
	}
}
