// Package field holds the particle population and draws it.
package field

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/dotfield/internal/motion"
	"github.com/iburimskiy/dotfield/internal/projection"
	"github.com/iburimskiy/dotfield/internal/surface"
	"github.com/iburimskiy/dotfield/internal/viewport"
)

// Variant selects the particle layout.
type Variant string

const (
	// Plane dots drift back and forth along the depth axis.
	Plane Variant = "plane"
	// Globe dots sit on a sphere rotating around its vertical axis.
	Globe Variant = "globe"
)

// ErrUnknownVariant is returned by ParseVariant.
var ErrUnknownVariant = errors.New("unknown variant")

// ParseVariant converts a config or flag value into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Plane, Globe:
		return Variant(s), nil
	case "":
		return Plane, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Timing is the randomised animation timing of one variant.
type Timing struct {
	MinDuration time.Duration
	MaxDuration time.Duration
	MaxDelay    time.Duration // start phase is drawn from [-MaxDelay, 0]
}

// Particle is one dot of the field.
type Particle interface {
	// Project recomputes the projected position from the current state.
	Project(vp viewport.State)
	// Draw projects and issues exactly one fill on s.
	Draw(s surface.Surface, vp viewport.State)
	// Position is the world position used by the last projection.
	Position() projection.Point
	Projected() projection.Projected
	// Release stops the particle's motion.
	Release()
}

// PlaneDot keeps x and y fixed and oscillates z between its start and the
// viewport width.
type PlaneDot struct {
	X, Y, Z float64

	radius float64
	proj   projection.Projected
	motion motion.Handle
}

// NewPlaneDot creates a dot uniformly placed in the viewport box.
func NewPlaneDot(s *Sampler, vp viewport.State, d motion.Driver, radius float64, t Timing) *PlaneDot {
	p := &PlaneDot{
		X:      s.Uniform(-0.5, 0.5) * vp.Width,
		Y:      s.Uniform(-0.5, 0.5) * vp.Height,
		Z:      s.Uniform(0, 1) * vp.Width,
		radius: radius,
	}
	p.motion = d.Animate(p, s.Duration(t.MinDuration, t.MaxDuration),
		[]motion.Field{{Value: &p.Z, To: vp.Width}},
		motion.Options{
			Repeat:   motion.Forever,
			Yoyo:     true,
			YoyoEase: true,
			Ease:     ease.OutCubic,
			Delay:    -s.Duration(0, t.MaxDelay),
		})
	return p
}

func (p *PlaneDot) Project(vp viewport.State) {
	p.proj = projection.Project(p.Position(), vp.Projection())
}

// Draw fills a square whose top-left corner is offset by the unscaled
// radius and whose side shrinks with depth.
func (p *PlaneDot) Draw(s surface.Surface, vp viewport.State) {
	p.Project(vp)
	s.SetGlobalAlpha(projection.Opacity(p.Z, vp.Width))
	side := p.radius * 2 * p.proj.Scale
	s.FillRect(p.proj.X-p.radius, p.proj.Y-p.radius, side, side)
}

func (p *PlaneDot) Position() projection.Point { return projection.Point{X: p.X, Y: p.Y, Z: p.Z} }

func (p *PlaneDot) Projected() projection.Projected { return p.proj }

func (p *PlaneDot) Release() {
	if p.motion != nil {
		p.motion.Kill()
	}
}

// GlobeDot sits on a sphere. Theta grows without bound while phi stays
// fixed; x, y and z are derived on every projection.
type GlobeDot struct {
	Theta, Phi float64

	pos    projection.Point
	radius float64
	proj   projection.Projected
	motion motion.Handle
}

// NewGlobeDot creates a dot evenly distributed over the sphere surface.
func NewGlobeDot(s *Sampler, vp viewport.State, d motion.Driver, radius float64, t Timing) *GlobeDot {
	g := &GlobeDot{
		Theta:  s.Theta(),
		Phi:    s.Phi(),
		radius: radius,
	}
	g.motion = d.Animate(g, s.Duration(t.MinDuration, t.MaxDuration),
		[]motion.Field{{Value: &g.Theta, To: g.Theta + 2*math.Pi}},
		motion.Options{
			Repeat:   motion.Forever,
			Relative: true,
			Ease:     ease.Linear,
			Delay:    -s.Duration(0, t.MaxDelay),
		})
	return g
}

// Project places the dot on a sphere of vp.GlobeRadius whose front touches
// the projection plane, so z stays within [0, 2R].
func (g *GlobeDot) Project(vp viewport.State) {
	r := vp.GlobeRadius
	sinPhi := math.Sin(g.Phi)
	g.pos = projection.Point{
		X: r * sinPhi * math.Cos(g.Theta),
		Y: r * math.Cos(g.Phi),
		Z: r*sinPhi*math.Sin(g.Theta) + r,
	}
	g.proj = projection.Project(g.pos, vp.Projection())
}

func (g *GlobeDot) Draw(s surface.Surface, vp viewport.State) {
	g.Project(vp)
	s.SetGlobalAlpha(projection.Opacity(g.pos.Z, vp.Width))
	s.FillArc(g.proj.X, g.proj.Y, g.radius*g.proj.Scale, 0, 2*math.Pi)
}

func (g *GlobeDot) Position() projection.Point { return g.pos }

func (g *GlobeDot) Projected() projection.Projected { return g.proj }

func (g *GlobeDot) Release() {
	if g.motion != nil {
		g.motion.Kill()
	}
}
