package soundtrack

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap passes audio through unchanged while keeping the squared mono
// values of the last len(ring) samples and their running sum, so the
// loudness can be read from the render goroutine at any time.
type levelTap struct {
	source beep.Streamer

	mu   sync.RWMutex
	ring []float64
	next int
	sum  float64
}

func newLevelTap(src beep.Streamer, window int) *levelTap {
	return &levelTap{
		source: src,
		ring:   make([]float64, window),
	}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	if n == 0 {
		return n, ok
	}

	t.mu.Lock()
	for _, s := range samples[:n] {
		mono := (s[0] + s[1]) * 0.5
		sq := mono * mono
		t.sum += sq - t.ring[t.next]
		t.ring[t.next] = sq
		t.next = (t.next + 1) % len(t.ring)
	}
	t.mu.Unlock()
	return n, ok
}

func (t *levelTap) Err() error { return t.source.Err() }

// level returns the compressed RMS of the window, 0..1.
func (t *levelTap) level() float64 {
	t.mu.RLock()
	sum := t.sum
	t.mu.RUnlock()

	// running sums can drift a hair below zero
	if sum <= 0 {
		return 0
	}
	rms := math.Sqrt(sum / float64(len(t.ring)))
	return math.Min(1, math.Pow(rms, 0.3))
}
