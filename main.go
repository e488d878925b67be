package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/iburimskiy/dotfield/internal/field"
	"github.com/iburimskiy/dotfield/internal/game"
	"github.com/iburimskiy/dotfield/internal/loop"
	"github.com/iburimskiy/dotfield/internal/scene"
	"github.com/iburimskiy/dotfield/internal/soundtrack"
	"github.com/iburimskiy/dotfield/internal/surface/canvassurface"
	"github.com/iburimskiy/dotfield/internal/surface/ebitensurface"
	"github.com/iburimskiy/dotfield/internal/surface/termsurface"
	"github.com/iburimskiy/dotfield/internal/telemetry"
	"github.com/iburimskiy/dotfield/internal/viewport"
)

type options struct {
	configPath     string
	variant        string
	backend        string
	count          int
	radius         float64
	seed           uint64
	frames         int
	outDir         string
	statsCSV       string
	soundtrackPath string
	pickSoundtrack bool
	hud            bool
	logLevel       string
	logJSON        bool
	logFile        string
	writeConfig    string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.StringVar(&opts.variant, "variant", "", "Particle layout: plane or globe (empty = use config)")
	flag.StringVar(&opts.backend, "backend", "window", "Renderer: window, terminal or png")
	flag.IntVar(&opts.count, "count", 0, "Number of dots (0 = use config)")
	flag.Float64Var(&opts.radius, "radius", 0, "Dot radius in pixels (0 = use config)")
	flag.Uint64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&opts.frames, "frames", 120, "Frames to export with -backend png")
	flag.StringVar(&opts.outDir, "out", "frames", "Output directory for -backend png")
	flag.StringVar(&opts.statsCSV, "stats-csv", "", "Write frame statistics to this CSV file")
	flag.StringVar(&opts.soundtrackPath, "soundtrack", "", "Loop this wav/mp3/flac file while rendering")
	flag.BoolVar(&opts.pickSoundtrack, "pick-soundtrack", false, "Choose the soundtrack with a file dialog")
	flag.BoolVar(&opts.hud, "hud", false, "Show frame statistics in the window")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.logJSON, "log-json", false, "Log JSON instead of text")
	flag.StringVar(&opts.logFile, "log-file", "", "Log to this file (terminal backend discards logs otherwise)")
	flag.StringVar(&opts.writeConfig, "write-config", "", "Write the effective config to this YAML file and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		reportFailure(os.Stderr, err)
		os.Exit(1)
	}
}

// reportFailure logs err to w. The default logger may discard its output
// (terminal backend) or point at a log file run has already closed.
func reportFailure(w io.Writer, err error) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
	slog.Error("dotfield failed", "error", err)
}

func run(opts options) error {
	switch opts.backend {
	case "window", "terminal", "png":
	default:
		return fmt.Errorf("unknown backend %q", opts.backend)
	}

	closeLog, err := setupLogging(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, variant, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.writeConfig != "" {
		if err := cfg.WriteYAML(opts.writeConfig); err != nil {
			return err
		}
		slog.Info("config written", "path", opts.writeConfig)
		return nil
	}

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	output, err := telemetry.NewOutput(opts.statsCSV)
	if err != nil {
		return err
	}
	defer output.Close()

	sceneOpts := scene.Options{
		Field:        fieldConfig(cfg, variant),
		Seed:         seed,
		Quiet:        cfg.Viewport.Debounce,
		Factors:      factors(cfg),
		LagThreshold: cfg.Motion.LagThreshold,
		LagStep:      cfg.Motion.LagStep,
		Telemetry:    telemetry.NewCollector(cfg.Telemetry.Window, output, slog.Default()),
		Logger:       slog.Default(),
	}

	player, err := startSoundtrack(opts)
	if err != nil {
		return err
	}
	defer player.Close()

	slog.Info("starting",
		"backend", opts.backend,
		"variant", variant,
		"count", cfg.Dots.Count,
		"radius", cfg.Dots.Radius,
		"seed", seed,
	)

	switch opts.backend {
	case "window":
		return runWindow(cfg, sceneOpts, player, opts.hud)
	case "terminal":
		return runTerminal(cfg, sceneOpts)
	case "png":
		return runFrames(cfg, sceneOpts, opts.frames, opts.outDir)
	}
	return nil
}

// loadConfig loads the config file and applies the flag overrides.
func loadConfig(opts options) (*config.Config, field.Variant, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if opts.variant != "" {
		cfg.Dots.Variant = opts.variant
	}
	if opts.count > 0 {
		cfg.Dots.Count = opts.count
	}
	if opts.radius > 0 {
		cfg.Dots.Radius = opts.radius
	} else if opts.backend == "terminal" {
		cfg.Dots.Radius = cfg.Terminal.Radius
	}
	if err := cfg.Refresh(); err != nil {
		return nil, "", fmt.Errorf("applying flags: %w", err)
	}

	variant, err := field.ParseVariant(cfg.Dots.Variant)
	if err != nil {
		return nil, "", err
	}
	return cfg, variant, nil
}

func setupLogging(opts options) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case opts.logFile != "":
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	case opts.backend == "terminal":
		// stderr shares the terminal with the screen
		w = io.Discard
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if opts.logJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return closeLog, nil
}

func fieldConfig(cfg *config.Config, variant field.Variant) field.Config {
	timing := field.Timing{
		MinDuration: cfg.Plane.MinDuration,
		MaxDuration: cfg.Plane.MaxDuration,
		MaxDelay:    cfg.Plane.MaxDelay,
	}
	if variant == field.Globe {
		timing = field.Timing{
			MinDuration: cfg.Globe.MinDuration,
			MaxDuration: cfg.Globe.MaxDuration,
			MaxDelay:    cfg.Globe.MaxDelay,
		}
	}
	return field.Config{
		Variant: variant,
		Count:   cfg.Dots.Count,
		Radius:  cfg.Dots.Radius,
		Timing:  timing,
	}
}

func factors(cfg *config.Config) viewport.Factors {
	return viewport.Factors{
		Perspective: cfg.Viewport.PerspectiveFactor,
		GlobeRadius: cfg.Globe.RadiusFactor,
		HiDPIScale:  cfg.Viewport.HiDPIScale,
	}
}

func startSoundtrack(opts options) (*soundtrack.Player, error) {
	path := opts.soundtrackPath
	if opts.pickSoundtrack {
		picked, err := soundtrack.Pick()
		if err != nil {
			return nil, err
		}
		if picked != "" {
			path = picked
		}
	}
	if path == "" {
		return nil, nil
	}
	return soundtrack.Play(path, slog.Default())
}

func runWindow(cfg *config.Config, sceneOpts scene.Options, player *soundtrack.Player, hud bool) error {
	surf := ebitensurface.New(cfg.Derived.DotColor, cfg.Derived.BackgroundColor)
	sc := scene.New(sceneOpts, surf)
	defer sc.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.NewGame(sc, surf, player, hud, slog.Default())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// terminalTicker ticks at the frame rate and handles terminal events on the
// loop goroutine between ticks.
type terminalTicker struct {
	frames *loop.FrameTicker
	events <-chan tcell.Event
	surf   *termsurface.Surface
	scene  *scene.Scene
	quit   context.CancelFunc
}

func (t *terminalTicker) Next(ctx context.Context) (time.Time, error) {
	for {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}
		select {
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		case ev := <-t.events:
			t.handle(ev)
		case now := <-t.frames.C():
			return now, nil
		}
	}
}

func (t *terminalTicker) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := t.surf.LayoutSize()
		t.scene.Resize(w, h, 1)
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
			t.quit()
		}
	}
}

func runTerminal(cfg *config.Config, sceneOpts scene.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising terminal screen: %w", err)
	}
	defer screen.Fini()

	surf := termsurface.New(screen, cfg.Terminal.CellAspect, cfg.Derived.Glyph, cfg.Derived.DotColor, cfg.Derived.BackgroundColor)
	sc := scene.New(sceneOpts, surf)
	defer sc.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frames := loop.NewFrameTicker(cfg.Derived.FrameInterval)
	defer frames.Stop()

	w, h := surf.LayoutSize()
	sc.Start(w, h, 1)

	ticker := &terminalTicker{frames: frames, events: events, surf: surf, scene: sc, quit: cancel}
	l := loop.New(ticker, func(now time.Time) error {
		sc.Frame(now, surf)
		surf.Show()
		return nil
	})
	if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runFrames(cfg *config.Config, sceneOpts scene.Options, frames int, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := viewport.NewManualClock(start)
	sceneOpts.Clock = clock

	surf := canvassurface.New(cfg.Window.Width, cfg.Window.Height, cfg.Derived.DotColor, cfg.Derived.BackgroundColor)
	sc := scene.New(sceneOpts, surf)
	defer sc.Close()
	sc.Start(float64(cfg.Window.Width), float64(cfg.Window.Height), 1)

	ticker := loop.NewCountTicker(start, cfg.Derived.FrameInterval, frames)
	ticker.Before = func(now time.Time) {
		clock.Advance(now.Sub(clock.Now()))
	}

	n := 0
	l := loop.New(ticker, func(now time.Time) error {
		sc.Frame(now, surf)
		path := filepath.Join(outDir, fmt.Sprintf("frame_%05d.png", n))
		n++
		return surf.WritePNG(path)
	})
	if err := l.Run(context.Background()); err != nil {
		return fmt.Errorf("exporting frames: %w", err)
	}
	slog.Info("frames exported", "count", n, "dir", outDir)
	return nil
}
