package field

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/iburimskiy/dotfield/internal/motion"
	"github.com/iburimskiy/dotfield/internal/surface"
	"github.com/iburimskiy/dotfield/internal/viewport"
)

// Config describes the population.
type Config struct {
	Variant Variant
	Count   int
	Radius  float64
	Timing  Timing
}

// Field owns the particles.
type Field struct {
	cfg     Config
	sampler *Sampler
	driver  motion.Driver
	logger  *slog.Logger

	particles []Particle
}

// New creates an empty field. Call Populate before rendering.
func New(cfg Config, sampler *Sampler, driver motion.Driver, logger *slog.Logger) *Field {
	if logger == nil {
		logger = slog.Default()
	}
	return &Field{
		cfg:     cfg,
		sampler: sampler,
		driver:  driver,
		logger:  logger,
	}
}

// Populate replaces the whole population with cfg.Count new particles laid
// out for vp. The old particles stop moving.
func (f *Field) Populate(vp viewport.State) {
	next := make([]Particle, 0, f.cfg.Count)
	for i := 0; i < f.cfg.Count; i++ {
		next = append(next, f.newParticle(vp))
	}

	old := f.particles
	f.particles = next
	for _, p := range old {
		p.Release()
	}

	f.logger.Debug("field populated",
		"variant", f.cfg.Variant,
		"count", len(next),
		"released", len(old),
		"width", vp.Width,
		"height", vp.Height,
	)
}

func (f *Field) newParticle(vp viewport.State) Particle {
	if f.cfg.Variant == Globe {
		return NewGlobeDot(f.sampler, vp, f.driver, f.cfg.Radius, f.cfg.Timing)
	}
	return NewPlaneDot(f.sampler, vp, f.driver, f.cfg.Radius, f.cfg.Timing)
}

// Render draws every particle. Globe particles are projected first and
// drawn farthest first, so nearer dots paint over the ones behind them.
func (f *Field) Render(s surface.Surface, vp viewport.State) {
	if f.cfg.Variant == Globe {
		for _, p := range f.particles {
			p.Project(vp)
		}
		slices.SortStableFunc(f.particles, func(a, b Particle) int {
			return cmp.Compare(a.Projected().Scale, b.Projected().Scale)
		})
	}
	for _, p := range f.particles {
		p.Draw(s, vp)
	}
}

// Len returns the population size.
func (f *Field) Len() int { return len(f.particles) }

// Particles returns the current population in draw order.
func (f *Field) Particles() []Particle { return f.particles }

// Variant returns the configured variant.
func (f *Field) Variant() Variant { return f.cfg.Variant }

// Close releases every particle.
func (f *Field) Close() {
	for _, p := range f.particles {
		p.Release()
	}
	f.particles = nil
}
