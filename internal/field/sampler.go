package field

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws the random parameters of new particles from a seeded
// source, so a seed reproduces the same field.
type Sampler struct {
	src rand.Source
}

// NewSampler creates a sampler seeded with seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Uniform returns a value in [min, max).
func (s *Sampler) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

// Duration returns a duration in [min, max).
func (s *Sampler) Duration(min, max time.Duration) time.Duration {
	return time.Duration(s.Uniform(float64(min), float64(max)))
}

// Theta returns an azimuth in [0, 2π).
func (s *Sampler) Theta() float64 {
	return s.Uniform(0, 2*math.Pi)
}

// Phi returns a polar angle such that points spread evenly over a sphere:
// cos(phi) is uniform on [-1, 1].
func (s *Sampler) Phi() float64 {
	return math.Acos(s.Uniform(-1, 1))
}
