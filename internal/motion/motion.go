// Package motion animates float fields over time.
//
// The renderer only depends on the Driver interface. Scheduler is the
// production implementation: a tween engine advanced explicitly from the
// frame loop, so it is deterministic under a synthetic clock.
package motion

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Forever repeats a tween until it is killed.
const Forever = -1

// Field is one animated property and the value it moves towards.
type Field struct {
	Value *float64
	To    float64
}

// Options control how a tween repeats and eases.
type Options struct {
	// Repeat is the number of extra cycles after the first one, or Forever.
	Repeat int
	// Yoyo reverses direction every cycle.
	Yoyo bool
	// YoyoEase applies Ease to the reverse leg as well, instead of playing
	// the forward curve backwards.
	YoyoEase bool
	// Ease defaults to ease.Linear.
	Ease ease.TweenFunc
	// Delay before the first cycle starts. A negative delay starts the tween
	// already that far into its timeline.
	Delay time.Duration
	// Relative makes every repeat continue from the previous end value,
	// shifting the target by the same delta each cycle.
	Relative bool
}

// Handle controls a running tween.
type Handle interface {
	// Kill stops the tween; its fields keep their current values.
	Kill()
	// Active reports whether the tween still mutates its fields.
	Active() bool
}

// Driver starts tweens on behalf of a target object.
type Driver interface {
	Animate(target any, d time.Duration, fields []Field, opts Options) Handle
}
