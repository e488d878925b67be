// Package loop drives frames from a ticker until the context ends.
package loop

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyRunning is returned when Run is called on a running loop.
	ErrAlreadyRunning = errors.New("loop already running")
	// ErrTickerDone is returned by a ticker that has no more ticks.
	ErrTickerDone = errors.New("ticker exhausted")
)

// State is the lifecycle state of a Loop.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Ticker waits for the next frame.
type Ticker interface {
	Next(ctx context.Context) (time.Time, error)
}

// FrameFunc renders one frame for the tick time now.
type FrameFunc func(now time.Time) error

// Loop calls a FrameFunc once per tick. Each frame works on the state as
// it is at that tick; missed ticks are not replayed.
type Loop struct {
	ticker Ticker
	frame  FrameFunc
	state  State
	frames int
}

// New creates an idle loop.
func New(ticker Ticker, frame FrameFunc) *Loop {
	return &Loop{ticker: ticker, frame: frame}
}

// Run moves the loop to Running and renders frames until the context is
// cancelled, the ticker is exhausted or a frame fails. Cancellation
// returns ctx.Err(); an exhausted ticker returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.state == Running {
		return ErrAlreadyRunning
	}
	l.state = Running

	for {
		now, err := l.ticker.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrTickerDone) {
				return nil
			}
			return err
		}
		if err := l.frame(now); err != nil {
			return err
		}
		l.frames++
	}
}

// State returns the lifecycle state.
func (l *Loop) State() State { return l.state }

// Frames returns how many frames have been rendered.
func (l *Loop) Frames() int { return l.frames }
