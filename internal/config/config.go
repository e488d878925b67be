// Package config provides configuration loading for the dot field.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of the renderer.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Dots      DotsConfig      `yaml:"dots"`
	Plane     PlaneConfig     `yaml:"plane"`
	Globe     GlobeConfig     `yaml:"globe"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Motion    MotionConfig    `yaml:"motion"`
	Loop      LoopConfig      `yaml:"loop"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Terminal  TerminalConfig  `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WindowConfig holds the initial window geometry of the ebiten backend.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DotsConfig holds the population settings shared by both variants.
type DotsConfig struct {
	Variant    string  `yaml:"variant"` // plane | globe
	Count      int     `yaml:"count"`
	Radius     float64 `yaml:"radius"`
	Color      string  `yaml:"color"`      // hex fill colour
	Background string  `yaml:"background"` // hex clear colour
}

// PlaneConfig holds the depth oscillation timing.
type PlaneConfig struct {
	MinDuration time.Duration `yaml:"min_duration"`
	MaxDuration time.Duration `yaml:"max_duration"`
	MaxDelay    time.Duration `yaml:"max_delay"` // start phase is drawn from [-MaxDelay, 0]
}

// GlobeConfig holds the rotation timing and sphere size.
type GlobeConfig struct {
	MinDuration  time.Duration `yaml:"min_duration"`
	MaxDuration  time.Duration `yaml:"max_duration"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	RadiusFactor float64       `yaml:"radius_factor"` // globe radius = width * this
}

// ViewportConfig holds resize handling parameters.
type ViewportConfig struct {
	Debounce          time.Duration `yaml:"debounce"`
	PerspectiveFactor float64       `yaml:"perspective_factor"` // perspective = width * this
	HiDPIScale        float64       `yaml:"hidpi_scale"`        // buffer multiplier when pixel ratio > 1
}

// MotionConfig holds scheduler lag smoothing.
type MotionConfig struct {
	LagThreshold time.Duration `yaml:"lag_threshold"` // gaps above this are treated as LagStep
	LagStep      time.Duration `yaml:"lag_step"`
}

// LoopConfig holds the tick rate of the terminal and headless loops.
type LoopConfig struct {
	FPS int `yaml:"fps"`
}

// TelemetryConfig holds frame statistics settings.
type TelemetryConfig struct {
	Window time.Duration `yaml:"window"`
}

// TerminalConfig holds tcell backend settings.
type TerminalConfig struct {
	Glyph      string  `yaml:"glyph"`
	CellAspect float64 `yaml:"cell_aspect"` // cell height / cell width
	Radius     float64 `yaml:"radius"`      // dot radius used instead of dots.radius
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DotColor        color.NRGBA
	BackgroundColor color.NRGBA
	FrameInterval   time.Duration
	Glyph           rune
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh recomputes derived values after fields were changed in code,
// e.g. by command line overrides.
func (c *Config) Refresh() error {
	return c.computeDerived()
}

func (c *Config) computeDerived() error {
	if c.Dots.Count < 0 {
		return fmt.Errorf("dots.count must not be negative, got %d", c.Dots.Count)
	}

	dot, err := parseColor(c.Dots.Color)
	if err != nil {
		return fmt.Errorf("dots.color: %w", err)
	}
	bg, err := parseColor(c.Dots.Background)
	if err != nil {
		return fmt.Errorf("dots.background: %w", err)
	}
	c.Derived.DotColor = dot
	c.Derived.BackgroundColor = bg

	fps := c.Loop.FPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameInterval = time.Second / time.Duration(fps)

	c.Derived.Glyph = '●'
	for _, r := range c.Terminal.Glyph {
		c.Derived.Glyph = r
		break
	}
	if c.Terminal.CellAspect <= 0 {
		c.Terminal.CellAspect = 2
	}
	if c.Viewport.HiDPIScale <= 0 {
		c.Viewport.HiDPIScale = 2
	}
	return nil
}

// parseColor converts a hex string such as "#1e90ff" into an opaque colour.
func parseColor(hex string) (color.NRGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
