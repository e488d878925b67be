// Package game hosts the dot field in an ebiten window.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/dotfield/internal/scene"
	"github.com/iburimskiy/dotfield/internal/soundtrack"
	"github.com/iburimskiy/dotfield/internal/surface/ebitensurface"
)

// Game implements ebiten.Game. ebiten calls Layout, Update and Draw on one
// goroutine, once per display refresh.
type Game struct {
	scene      *scene.Scene
	surface    *ebitensurface.Surface
	soundtrack *soundtrack.Player
	logger     *slog.Logger

	// PixelRatio reports the display density; defaults to the monitor's
	// device scale factor.
	PixelRatio func() float64
	// Now is the frame clock; defaults to time.Now.
	Now func() time.Time

	showHUD bool
	running bool
	started time.Time

	outsideW, outsideH int
}

// NewGame creates an idle game; the scene starts on the first Layout.
func NewGame(sc *scene.Scene, surf *ebitensurface.Surface, player *soundtrack.Player, showHUD bool, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		scene:      sc,
		surface:    surf,
		soundtrack: player,
		logger:     logger,
		showHUD:    showHUD,
		PixelRatio: func() float64 { return ebiten.Monitor().DeviceScaleFactor() },
		Now:        time.Now,
	}
}

// Running reports whether the first frame has been scheduled.
func (g *Game) Running() bool { return g.running }

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.running {
		return
	}
	g.surface.Begin(screen)
	g.scene.Frame(g.Now(), g.surface)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.scene.State()
	status := fmt.Sprintf("TPS %.0f  FPS %.0f  dots %d  %gx%g  up %s",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		g.scene.Field().Len(), st.Width, st.Height,
		formatDuration(g.Now().Sub(g.started)))
	if g.soundtrack != nil {
		status += "  sound " + levelBar(g.soundtrack.Level(), 16)
	}
	if ws, ok := g.scene.Telemetry().Last(); ok {
		status += fmt.Sprintf("\nframe %.2fms ±%.2f (max %.2f)", ws.MeanFrameMS, ws.StdFrameMS, ws.MaxFrameMS)
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout starts the scene on the first call and turns every later size
// change into a resize signal. It returns the pixel buffer size, which is
// larger than the window on high density displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := g.PixelRatio()
	switch {
	case !g.running:
		g.running = true
		g.started = g.Now()
		g.scene.Start(float64(outsideWidth), float64(outsideHeight), ratio)
	case outsideWidth != g.outsideW || outsideHeight != g.outsideH:
		g.logger.Debug("window resized", "width", outsideWidth, "height", outsideHeight)
		g.scene.Resize(float64(outsideWidth), float64(outsideHeight), ratio)
	}
	g.outsideW, g.outsideH = outsideWidth, outsideHeight

	w, h := g.surface.BufferSize()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
