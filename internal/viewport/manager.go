package viewport

import (
	"log/slog"
	"time"
)

// DefaultQuiet is how long resize signals must stop before a settle runs.
const DefaultQuiet = 500 * time.Millisecond

// Buffered is the part of a drawing surface the manager resizes directly.
type Buffered interface {
	SetBufferSize(w, h int)
	SetScale(s float64)
}

// Manager tracks the viewport and debounces resize signals.
//
// Raw signals resize the surface buffer right away so nothing stretches,
// but derived values and the settle callback wait until signals have been
// quiet for the configured period. It is not safe for concurrent use; all
// calls come from the frame loop.
type Manager struct {
	clock    Clock
	quiet    time.Duration
	factors  Factors
	surface  Buffered
	onSettle func(State)
	logger   *slog.Logger

	state State

	pending  bool
	deadline time.Time
	width    float64
	height   float64
	ratio    float64
	signals  int
}

// NewManager creates a manager. surface may be nil for hosts that size the
// buffer themselves. onSettle runs after every full recomputation.
func NewManager(clock Clock, quiet time.Duration, factors Factors, surface Buffered, onSettle func(State), logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if onSettle == nil {
		onSettle = func(State) {}
	}
	return &Manager{
		clock:    clock,
		quiet:    quiet,
		factors:  factors,
		surface:  surface,
		onSettle: onSettle,
		logger:   logger,
	}
}

// Start performs the initial recomputation without waiting for the quiet
// period.
func (m *Manager) Start(width, height, pixelRatio float64) State {
	m.width, m.height, m.ratio = width, height, pixelRatio
	m.syncBuffer()
	m.settle()
	return m.state
}

// Signal records a raw resize. The surface buffer follows immediately and
// the settle deadline is pushed back to now + quiet.
func (m *Manager) Signal(width, height, pixelRatio float64) {
	m.width, m.height, m.ratio = width, height, pixelRatio
	m.syncBuffer()

	m.pending = true
	m.deadline = m.clock.Now().Add(m.quiet)
	m.signals++
}

// Poll runs the pending settle once the quiet period has passed on the
// manager's clock, the same clock Signal schedules against. It reports
// whether a settle ran.
func (m *Manager) Poll() bool {
	if !m.pending || m.clock.Now().Before(m.deadline) {
		return false
	}
	m.pending = false
	m.logger.Info("viewport settled",
		"width", m.width,
		"height", m.height,
		"pixel_ratio", m.ratio,
		"signals", m.signals,
	)
	m.signals = 0
	m.settle()
	return true
}

// Cancel withdraws a pending settle.
func (m *Manager) Cancel() {
	m.pending = false
	m.signals = 0
}

// Pending reports whether a settle is scheduled.
func (m *Manager) Pending() bool { return m.pending }

// State returns the last settled state.
func (m *Manager) State() State { return m.state }

func (m *Manager) settle() {
	m.state = Derive(m.width, m.height, m.ratio, m.factors)
	m.onSettle(m.state)
}

func (m *Manager) syncBuffer() {
	if m.surface == nil {
		return
	}
	w, h, scale := Buffer(m.width, m.height, m.ratio, m.factors.HiDPIScale)
	m.surface.SetBufferSize(w, h)
	m.surface.SetScale(scale)
}
