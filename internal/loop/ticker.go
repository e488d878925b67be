package loop

import (
	"context"
	"time"
)

// FrameTicker ticks at a fixed wall-clock interval. A slow frame drops
// the ticks it missed instead of queueing them.
type FrameTicker struct {
	t *time.Ticker
}

// NewFrameTicker creates a ticker firing every interval.
func NewFrameTicker(interval time.Duration) *FrameTicker {
	return &FrameTicker{t: time.NewTicker(interval)}
}

// Next blocks until the next tick or until ctx is done.
func (f *FrameTicker) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-f.t.C:
		return now, nil
	}
}

// C exposes the tick channel for hosts that select on other events too.
func (f *FrameTicker) C() <-chan time.Time { return f.t.C }

// Stop releases the ticker.
func (f *FrameTicker) Stop() { f.t.Stop() }

// CountTicker yields a fixed number of synthetic ticks spaced by a fixed
// interval, without waiting. Used for headless export and tests.
type CountTicker struct {
	now      time.Time
	interval time.Duration
	left     int
	// Before runs ahead of every tick with the tick time, letting callers
	// move a manual clock in step with the loop.
	Before func(now time.Time)
}

// NewCountTicker creates a ticker that starts at start and yields n ticks.
func NewCountTicker(start time.Time, interval time.Duration, n int) *CountTicker {
	return &CountTicker{now: start, interval: interval, left: n}
}

// Next returns the next synthetic tick or ErrTickerDone.
func (c *CountTicker) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if c.left <= 0 {
		return time.Time{}, ErrTickerDone
	}
	c.left--
	c.now = c.now.Add(c.interval)
	if c.Before != nil {
		c.Before(c.now)
	}
	return c.now, nil
}
