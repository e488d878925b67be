package motion

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default lag smoothing values.
const (
	DefaultLagThreshold = 500 * time.Millisecond
	DefaultLagStep      = 33 * time.Millisecond
)

// Scheduler is a single-threaded tween engine. Tweens only move when
// Update or Tick is called.
type Scheduler struct {
	tweens []*tween

	lagThreshold time.Duration
	lagStep      time.Duration

	last    time.Time
	started bool
}

// NewScheduler creates a scheduler. A frame gap larger than lagThreshold
// advances tweens by lagStep only, so a stalled host does not make every
// tween jump. A zero lagThreshold disables smoothing.
func NewScheduler(lagThreshold, lagStep time.Duration) *Scheduler {
	return &Scheduler{
		lagThreshold: lagThreshold,
		lagStep:      lagStep,
	}
}

// Animate implements Driver. The tween is positioned immediately, so a
// negative delay is visible before the first Update.
func (s *Scheduler) Animate(_ any, d time.Duration, fields []Field, opts Options) Handle {
	if opts.Ease == nil {
		opts.Ease = ease.Linear
	}
	tw := &tween{
		fields:   fields,
		from:     make([]float64, len(fields)),
		to:       make([]float64, len(fields)),
		duration: d,
		opts:     opts,
		elapsed:  -opts.Delay,
		curve:    gween.New(0, 1, float32(d.Seconds()), opts.Ease),
		alive:    true,
	}
	for i, f := range fields {
		tw.from[i] = *f.Value
		tw.to[i] = f.To
	}
	tw.advance(0)
	if tw.alive {
		s.tweens = append(s.tweens, tw)
	}
	return tw
}

// Tick advances all tweens by the time elapsed since the previous Tick.
// The first call only records the time.
func (s *Scheduler) Tick(now time.Time) {
	if !s.started {
		s.started = true
		s.last = now
		return
	}
	dt := now.Sub(s.last)
	s.last = now
	s.Update(dt)
}

// Update advances all tweens by dt, applying lag smoothing.
func (s *Scheduler) Update(dt time.Duration) {
	if dt < 0 {
		return
	}
	if s.lagThreshold > 0 && dt > s.lagThreshold {
		dt = s.lagStep
	}

	live := s.tweens[:0]
	for _, tw := range s.tweens {
		if tw.alive {
			tw.advance(dt)
		}
		if tw.alive {
			live = append(live, tw)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}

// Len returns the number of live tweens.
func (s *Scheduler) Len() int {
	n := 0
	for _, tw := range s.tweens {
		if tw.alive {
			n++
		}
	}
	return n
}

type tween struct {
	fields []Field

	// from/to of the current leg
	from, to []float64

	duration time.Duration
	opts     Options
	curve    *gween.Tween

	elapsed  time.Duration // within the current leg, negative while delayed
	cycle    int
	reversed bool
	alive    bool
}

func (t *tween) Kill() { t.alive = false }

func (t *tween) Active() bool { return t.alive }

func (t *tween) advance(dt time.Duration) {
	t.elapsed += dt

	if t.duration <= 0 {
		if t.elapsed >= 0 {
			t.apply(1)
			t.alive = false
		}
		return
	}

	for t.elapsed >= t.duration {
		t.apply(1)
		if t.opts.Repeat != Forever && t.cycle >= t.opts.Repeat {
			t.alive = false
			return
		}
		t.elapsed -= t.duration
		t.cycle++
		t.nextLeg()
	}
	if t.elapsed >= 0 {
		t.apply(t.progress(t.elapsed))
	}
}

// progress returns how far along the current leg the fields are, 0..1.
func (t *tween) progress(at time.Duration) float64 {
	if t.reversed && !t.opts.YoyoEase {
		// forward curve played backwards
		p, _ := t.curve.Set(float32((t.duration - at).Seconds()))
		return 1 - float64(p)
	}
	p, _ := t.curve.Set(float32(at.Seconds()))
	return float64(p)
}

func (t *tween) apply(p float64) {
	for i, f := range t.fields {
		if p >= 1 {
			*f.Value = t.to[i]
			continue
		}
		*f.Value = t.from[i] + (t.to[i]-t.from[i])*p
	}
}

func (t *tween) nextLeg() {
	switch {
	case t.opts.Relative:
		for i := range t.fields {
			delta := t.to[i] - t.from[i]
			t.from[i] = t.to[i]
			t.to[i] += delta
		}
	case t.opts.Yoyo:
		t.from, t.to = t.to, t.from
		t.reversed = !t.reversed
	default:
		for i, f := range t.fields {
			*f.Value = t.from[i]
		}
	}
}
