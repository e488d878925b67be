// Package soundtrack plays an optional looping audio file behind the
// animation.
package soundtrack

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
)

// levelWindow is how many samples the loudness is averaged over.
const levelWindow = 2048

// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player loops one audio file on the speaker.
type Player struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	tap      *levelTap
	logger   *slog.Logger
}

// Decode opens path and decodes it by extension. The caller owns the
// returned file and streamer.
func Decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, fmt.Errorf("opening soundtrack: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decoding soundtrack: %w", err)
	}
	return f, streamer, format, nil
}

// Play decodes path and starts looping it forever.
func Play(path string, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, streamer, format, err := Decode(path)
	if err != nil {
		return nil, err
	}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
		streamer.Close()
		f.Close()
		return nil, fmt.Errorf("initialising speaker: %w", err)
	}

	tap := newLevelTap(beep.Loop(-1, streamer), levelWindow)
	speaker.Play(tap)

	logger.Info("soundtrack playing",
		"path", path,
		"sample_rate", int(format.SampleRate),
		"duration", format.SampleRate.D(streamer.Len()).Round(time.Second),
	)
	return &Player{
		file:     f,
		streamer: streamer,
		format:   format,
		tap:      tap,
		logger:   logger,
	}, nil
}

// Pick asks the user for a soundtrack file. An empty path and nil error
// mean the dialog was cancelled.
func Pick() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose a soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", fmt.Errorf("selecting soundtrack: %w", err)
	}
	return filename, nil
}

// Level returns the current loudness, 0..1. A nil player is silent.
func (p *Player) Level() float64 {
	if p == nil {
		return 0
	}
	return p.tap.level()
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	if p == nil {
		return nil
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()

	err := p.streamer.Close()
	if cerr := p.file.Close(); err == nil {
		err = cerr
	}
	return err
}
