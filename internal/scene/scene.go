// Package scene wires the particle field, its motion and the viewport
// together and renders one frame at a time.
package scene

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/dotfield/internal/field"
	"github.com/iburimskiy/dotfield/internal/motion"
	"github.com/iburimskiy/dotfield/internal/surface"
	"github.com/iburimskiy/dotfield/internal/telemetry"
	"github.com/iburimskiy/dotfield/internal/viewport"
)

// Options configure a Scene.
type Options struct {
	Field   field.Config
	Seed    uint64
	Quiet   time.Duration
	Factors viewport.Factors

	LagThreshold time.Duration
	LagStep      time.Duration

	// Clock drives the resize debounce. Defaults to the system clock.
	Clock viewport.Clock
	// Telemetry may be nil.
	Telemetry *telemetry.Collector
	Logger    *slog.Logger
}

// Scene is the simulation behind every backend. It is driven from a single
// goroutine: Resize and Frame never run concurrently.
type Scene struct {
	field     *field.Field
	motion    *motion.Scheduler
	viewport  *viewport.Manager
	telemetry *telemetry.Collector
	logger    *slog.Logger
}

// New creates a scene. buf receives pixel buffer updates on resize and may
// be nil when the host sizes the buffer itself.
func New(opts Options, buf viewport.Buffered) *Scene {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = viewport.SystemClock{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewCollector(0, nil, opts.Logger)
	}

	s := &Scene{
		motion:    motion.NewScheduler(opts.LagThreshold, opts.LagStep),
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
	}
	s.field = field.New(opts.Field, field.NewSampler(opts.Seed), s.motion, opts.Logger)
	s.viewport = viewport.NewManager(opts.Clock, opts.Quiet, opts.Factors, buf, s.settled, opts.Logger)
	return s
}

func (s *Scene) settled(st viewport.State) {
	s.field.Populate(st)
}

// Start sizes the viewport and populates the field right away.
func (s *Scene) Start(width, height, pixelRatio float64) viewport.State {
	st := s.viewport.Start(width, height, pixelRatio)
	s.logger.Info("scene started",
		"variant", s.field.Variant(),
		"particles", s.field.Len(),
		"width", st.Width,
		"height", st.Height,
		"pixel_ratio", st.PixelRatio,
	)
	return st
}

// Resize forwards a raw resize signal to the debounced viewport manager.
func (s *Scene) Resize(width, height, pixelRatio float64) {
	s.viewport.Signal(width, height, pixelRatio)
}

// Frame renders one frame for tick time now: settle a pending resize,
// advance motion, clear and redraw the field. The resize debounce follows
// the scene clock, not now.
func (s *Scene) Frame(now time.Time, surf surface.Surface) {
	began := time.Now()

	if s.viewport.Poll() {
		s.telemetry.Settled()
	}
	s.motion.Tick(now)

	st := s.viewport.State()
	surf.ClearRect(0, 0, st.Width, st.Height)
	s.field.Render(surf, st)

	s.telemetry.Record(now, time.Since(began), s.field.Len())
}

// State returns the settled viewport.
func (s *Scene) State() viewport.State { return s.viewport.State() }

// Field returns the particle field.
func (s *Scene) Field() *field.Field { return s.field }

// Telemetry returns the frame statistics collector.
func (s *Scene) Telemetry() *telemetry.Collector { return s.telemetry }

// Close cancels a pending resize and stops all particle motion.
func (s *Scene) Close() {
	s.viewport.Cancel()
	s.field.Close()
}
