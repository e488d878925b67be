package soundtrack

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
)

// constStreamer yields n samples of value v, then ends.
func constStreamer(n int, v float64) beep.Streamer {
	left := n
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left <= 0 {
			return 0, false
		}
		k := len(samples)
		if k > left {
			k = left
		}
		for i := 0; i < k; i++ {
			samples[i] = [2]float64{v, v}
		}
		left -= k
		return k, true
	})
}

func TestLevelTap_PassesAudioThrough(t *testing.T) {
	tap := newLevelTap(constStreamer(10, 0.25), 8)
	buf := make([][2]float64, 16)

	n, ok := tap.Stream(buf)
	if n != 10 || !ok {
		t.Fatalf("expected 10 samples, got %d (ok=%v)", n, ok)
	}
	if buf[9] != [2]float64{0.25, 0.25} {
		t.Errorf("samples were altered: %v", buf[9])
	}
	if n, ok := tap.Stream(buf); n != 0 || ok {
		t.Errorf("expected the source to be drained, got %d (ok=%v)", n, ok)
	}
}

func TestLevelTap_Level(t *testing.T) {
	tap := newLevelTap(constStreamer(100, 0), 64)
	tap.Stream(make([][2]float64, 64))
	if got := tap.level(); got != 0 {
		t.Errorf("silence should have level 0, got %v", got)
	}

	tap = newLevelTap(constStreamer(100, 0.5), 64)
	tap.Stream(make([][2]float64, 64))
	want := math.Pow(0.5, 0.3)
	if got := tap.level(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected level %v, got %v", want, got)
	}
}

func TestLevelTap_WindowRollsOff(t *testing.T) {
	loud := true
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		v := 0.0
		if loud {
			v = 1
		}
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
	tap := newLevelTap(src, 32)

	tap.Stream(make([][2]float64, 32))
	if got := tap.level(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("full scale should read 1, got %v", got)
	}

	loud = false
	tap.Stream(make([][2]float64, 16))
	want := math.Pow(math.Sqrt(0.5), 0.3)
	if got := tap.level(); math.Abs(got-want) > 1e-12 {
		t.Errorf("half a window of silence: expected %v, got %v", want, got)
	}

	tap.Stream(make([][2]float64, 16))
	if got := tap.level(); got != 0 {
		t.Errorf("a full window of silence should read 0, got %v", got)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.ogg")
	if err := writeEmpty(path); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Decode(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, _, _, err := Decode(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestPlayer_NilIsSilent(t *testing.T) {
	var p *Player
	if p.Level() != 0 {
		t.Error("nil player should report silence")
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil player Close: %v", err)
	}
}

func writeEmpty(path string) error {
	return os.WriteFile(path, nil, 0644)
}
