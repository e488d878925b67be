// Package telemetry aggregates per-frame timing into windowed statistics.
package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats summarises the frames of one telemetry window.
type WindowStats struct {
	WindowEnd   string  `csv:"window_end"`
	Frames      int     `csv:"frames"`
	FPS         float64 `csv:"fps"`
	MeanFrameMS float64 `csv:"mean_frame_ms"`
	StdFrameMS  float64 `csv:"std_frame_ms"`
	MaxFrameMS  float64 `csv:"max_frame_ms"`
	Particles   int     `csv:"particles"`
	Settles     int     `csv:"settles"`
}

// Collector accumulates frame costs and flushes a WindowStats every window.
type Collector struct {
	window time.Duration
	output *Output
	logger *slog.Logger

	start   time.Time
	opened  bool // the frame at start belongs to this window and is not an interval
	costs   []float64 // milliseconds
	settles int
	last    WindowStats
	flushed int
}

// NewCollector creates a collector. output may be nil; a window of zero
// disables aggregation.
func NewCollector(window time.Duration, output *Output, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		window: window,
		output: output,
		logger: logger,
		costs:  make([]float64, 0, 512),
	}
}

// Settled counts a viewport settle in the current window.
func (c *Collector) Settled() { c.settles++ }

// Record adds one frame rendered at now that took cost. It returns true
// when the frame closed a window.
func (c *Collector) Record(now time.Time, cost time.Duration, particles int) bool {
	if c.window <= 0 {
		return false
	}
	if c.start.IsZero() {
		c.start = now
		c.opened = true
	}
	c.costs = append(c.costs, float64(cost)/float64(time.Millisecond))

	elapsed := now.Sub(c.start)
	if elapsed < c.window {
		return false
	}
	c.flush(now, elapsed, particles)
	return true
}

func (c *Collector) flush(now time.Time, elapsed time.Duration, particles int) {
	intervals := len(c.costs)
	if c.opened {
		intervals--
	}
	mean, std := stat.MeanStdDev(c.costs, nil)
	if len(c.costs) < 2 {
		std = 0
	}
	ws := WindowStats{
		WindowEnd:   now.UTC().Format(time.RFC3339Nano),
		Frames:      len(c.costs),
		FPS:         float64(intervals) / elapsed.Seconds(),
		MeanFrameMS: mean,
		StdFrameMS:  std,
		MaxFrameMS:  floats.Max(c.costs),
		Particles:   particles,
		Settles:     c.settles,
	}
	c.last = ws
	c.flushed++

	c.logger.Debug("frame window",
		"frames", ws.Frames,
		"fps", ws.FPS,
		"mean_frame_ms", ws.MeanFrameMS,
		"std_frame_ms", ws.StdFrameMS,
		"max_frame_ms", ws.MaxFrameMS,
		"particles", ws.Particles,
		"settles", ws.Settles,
	)
	if err := c.output.Write(ws); err != nil {
		c.logger.Warn("telemetry write failed", "error", err)
	}

	c.start = now
	c.opened = false
	c.costs = c.costs[:0]
	c.settles = 0
}

// Last returns the most recent window, and false if none closed yet.
func (c *Collector) Last() (WindowStats, bool) {
	return c.last, c.flushed > 0
}
