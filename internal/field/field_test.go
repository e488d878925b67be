package field

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/iburimskiy/dotfield/internal/motion"
	"github.com/iburimskiy/dotfield/internal/projection"
	"github.com/iburimskiy/dotfield/internal/surface"
	"github.com/iburimskiy/dotfield/internal/viewport"
)

// recordingDriver never moves anything; it only remembers what was asked.
type recordingDriver struct {
	calls   []animateCall
	handles []*fakeHandle
}

type animateCall struct {
	target   any
	duration time.Duration
	fields   []motion.Field
	opts     motion.Options
}

type fakeHandle struct{ killed bool }

func (h *fakeHandle) Kill()        { h.killed = true }
func (h *fakeHandle) Active() bool { return !h.killed }

func (d *recordingDriver) Animate(target any, dur time.Duration, fields []motion.Field, opts motion.Options) motion.Handle {
	d.calls = append(d.calls, animateCall{target: target, duration: dur, fields: fields, opts: opts})
	h := &fakeHandle{}
	d.handles = append(d.handles, h)
	return h
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var planeTiming = Timing{MinDuration: 15 * time.Second, MaxDuration: 25 * time.Second, MaxDelay: 25 * time.Second}
var globeTiming = Timing{MinDuration: 20 * time.Second, MaxDuration: 30 * time.Second, MaxDelay: 30 * time.Second}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant("globe"); err != nil || v != Globe {
		t.Errorf("ParseVariant(globe) = %v, %v", v, err)
	}
	if v, err := ParseVariant(""); err != nil || v != Plane {
		t.Errorf("empty variant should default to plane, got %v, %v", v, err)
	}
	if _, err := ParseVariant("torus"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestPopulate_ReplacesPopulation(t *testing.T) {
	d := &recordingDriver{}
	f := New(Config{Variant: Plane, Count: 300, Radius: 10, Timing: planeTiming}, NewSampler(1), d, testLogger())
	vp := viewport.Derive(800, 600, 1, viewport.DefaultFactors)

	f.Populate(vp)
	if f.Len() != 300 {
		t.Fatalf("expected 300 particles, got %d", f.Len())
	}
	first := slices.Clone(f.Particles())

	f.Populate(viewport.Derive(400, 300, 1, viewport.DefaultFactors))
	if f.Len() != 300 {
		t.Fatalf("repopulate must replace, not append: got %d", f.Len())
	}
	for _, p := range f.Particles() {
		if slices.Contains(first, p) {
			t.Fatal("old particle survived repopulation")
		}
	}
	for i, h := range d.handles[:300] {
		if !h.killed {
			t.Fatalf("handle %d of the old population was not released", i)
		}
	}
	for i, h := range d.handles[300:] {
		if h.killed {
			t.Fatalf("handle %d of the new population was released", i)
		}
	}

	f.Close()
	if f.Len() != 0 {
		t.Errorf("expected empty field after Close, got %d", f.Len())
	}
	for i, h := range d.handles {
		if !h.killed {
			t.Fatalf("handle %d still active after Close", i)
		}
	}
}

func TestPlaneDot_CreationRangesAndMotion(t *testing.T) {
	d := &recordingDriver{}
	s := NewSampler(7)
	vp := viewport.Derive(800, 600, 1, viewport.DefaultFactors)

	for i := 0; i < 2000; i++ {
		p := NewPlaneDot(s, vp, d, 10, planeTiming)
		if p.X < -400 || p.X >= 400 || p.Y < -300 || p.Y >= 300 {
			t.Fatalf("dot %d outside the viewport box: (%v,%v)", i, p.X, p.Y)
		}
		if p.Z < 0 || p.Z >= 800 {
			t.Fatalf("dot %d depth %v outside [0,800)", i, p.Z)
		}
	}

	for i, c := range d.calls {
		if c.duration < 15*time.Second || c.duration >= 25*time.Second {
			t.Fatalf("call %d: duration %v outside [15s,25s)", i, c.duration)
		}
		if c.opts.Delay > 0 || c.opts.Delay < -25*time.Second {
			t.Fatalf("call %d: delay %v not in [-25s,0]", i, c.opts.Delay)
		}
		if c.opts.Repeat != motion.Forever || !c.opts.Yoyo {
			t.Fatalf("call %d: expected a forever yoyo, got %+v", i, c.opts)
		}
		if len(c.fields) != 1 || c.fields[0].To != 800 {
			t.Fatalf("call %d: expected z to move towards the width, got %+v", i, c.fields)
		}
		if c.fields[0].Value != &c.target.(*PlaneDot).Z {
			t.Fatalf("call %d: animated field is not the dot's z", i)
		}
	}
}

func TestPlaneDot_DrawOpacityAndRect(t *testing.T) {
	vp := viewport.Derive(800, 600, 1, viewport.DefaultFactors)
	rec := surface.NewRecorder()

	cases := []struct {
		z     float64
		alpha float64
	}{
		{0, 1},
		{800, 0},
		{1600, 1},
	}
	for _, c := range cases {
		rec.Reset()
		p := &PlaneDot{X: 100, Y: 50, Z: c.z, radius: 10}
		p.Draw(rec, vp)

		fills := rec.Fills()
		if len(fills) != 1 || fills[0].Op != surface.OpRect {
			t.Fatalf("z=%v: expected one rect, got %+v", c.z, fills)
		}
		if math.Abs(fills[0].Alpha-c.alpha) > 1e-12 {
			t.Errorf("z=%v: expected alpha %v, got %v", c.z, c.alpha, fills[0].Alpha)
		}
		scale := projection.Scale(640, c.z)
		wantX := 100*scale + 400 - 10
		if math.Abs(fills[0].X-wantX) > 1e-9 || math.Abs(fills[0].W-20*scale) > 1e-9 {
			t.Errorf("z=%v: rect %+v, want x=%v side=%v", c.z, fills[0], wantX, 20*scale)
		}
	}
}

func TestSampler_PhiCoversSphereUniformly(t *testing.T) {
	s := NewSampler(42)
	const n = 20000

	cosPhi := make([]float64, n)
	naive := make([]float64, n)
	for i := range cosPhi {
		phi := s.Phi()
		if phi < 0 || phi > math.Pi {
			t.Fatalf("phi %v outside [0,π]", phi)
		}
		cosPhi[i] = math.Cos(phi)
		naive[i] = math.Cos(s.Uniform(0, math.Pi))
	}

	d := ksUniform(cosPhi)
	if d > 0.02 {
		t.Errorf("cos(phi) is not uniform on [-1,1]: KS distance %v", d)
	}
	// Sampling phi itself uniformly bunches points at the poles.
	if dn := ksUniform(naive); dn < 0.05 {
		t.Errorf("naive phi sampling should be detectably non-uniform, KS distance %v", dn)
	}
}

func TestGlobeDot_ProjectAndMotion(t *testing.T) {
	d := &recordingDriver{}
	vp := viewport.Derive(900, 600, 1, viewport.DefaultFactors)
	g := NewGlobeDot(NewSampler(3), vp, d, 10, globeTiming)

	if g.Theta < 0 || g.Theta >= 2*math.Pi {
		t.Errorf("theta %v outside [0,2π)", g.Theta)
	}
	c := d.calls[0]
	if !c.opts.Relative || c.opts.Repeat != motion.Forever {
		t.Errorf("globe rotation should repeat forever relatively, got %+v", c.opts)
	}
	if math.Abs(c.fields[0].To-(g.Theta+2*math.Pi)) > 1e-12 {
		t.Errorf("rotation target should be a full turn ahead, got %v", c.fields[0].To)
	}

	g.Theta, g.Phi = math.Pi/2, math.Pi/2
	g.Project(vp)
	pos := g.Position()
	r := vp.GlobeRadius
	if math.Abs(pos.X) > 1e-9 || math.Abs(pos.Y) > 1e-9 || math.Abs(pos.Z-2*r) > 1e-9 {
		t.Errorf("expected the back of the sphere at z=2R, got %+v", pos)
	}

	// A full extra turn lands on the same spot.
	before := g.Projected()
	g.Theta += 2 * math.Pi
	g.Project(vp)
	after := g.Projected()
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Scale-after.Scale) > 1e-9 {
		t.Errorf("theta is not periodic: %+v vs %+v", before, after)
	}
}

func TestRender_GlobeDrawsFarthestFirst(t *testing.T) {
	s := motion.NewScheduler(0, 0)
	f := New(Config{Variant: Globe, Count: 500, Radius: 10, Timing: globeTiming}, NewSampler(11), s, testLogger())
	vp := viewport.Derive(800, 600, 1, viewport.DefaultFactors)
	f.Populate(vp)
	s.Update(3 * time.Second)

	rec := surface.NewRecorder()
	f.Render(rec, vp)

	fills := rec.Fills()
	if len(fills) != 500 {
		t.Fatalf("expected 500 arcs, got %d", len(fills))
	}
	for i := 1; i < len(fills); i++ {
		if fills[i].R < fills[i-1].R {
			t.Fatalf("arc %d drawn nearer-first: radius %v after %v", i, fills[i].R, fills[i-1].R)
		}
	}
	ps := f.Particles()
	for i := 1; i < len(ps); i++ {
		if ps[i].Projected().Scale < ps[i-1].Projected().Scale {
			t.Fatalf("particle %d out of depth order", i)
		}
		if ps[i].Position().Z > ps[i-1].Position().Z+1e-9 {
			t.Fatalf("particle %d is farther than the one drawn before it", i)
		}
	}
	for _, c := range fills {
		if c.Start != 0 || math.Abs(c.End-2*math.Pi) > 1e-12 {
			t.Fatalf("expected full circles, got %+v", c)
		}
	}
}

func TestRender_PlaneKeepsCreationOrder(t *testing.T) {
	f := New(Config{Variant: Plane, Count: 50, Radius: 10, Timing: planeTiming}, NewSampler(5), &recordingDriver{}, testLogger())
	vp := viewport.Derive(800, 600, 1, viewport.DefaultFactors)
	f.Populate(vp)
	order := slices.Clone(f.Particles())

	rec := surface.NewRecorder()
	f.Render(rec, vp)
	if !slices.Equal(order, f.Particles()) {
		t.Error("plane render reordered particles")
	}
	if len(rec.Fills()) != 50 {
		t.Errorf("expected 50 rects, got %d", len(rec.Fills()))
	}
}
