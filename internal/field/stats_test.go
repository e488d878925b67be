package field

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ksUniform returns the two-sample Kolmogorov-Smirnov distance between
// sample and an evenly spaced grid over [-1, 1].
func ksUniform(sample []float64) float64 {
	x := slices.Clone(sample)
	slices.Sort(x)

	grid := make([]float64, len(x))
	for i := range grid {
		grid[i] = -1 + 2*(float64(i)+0.5)/float64(len(grid))
	}
	return stat.KolmogorovSmirnov(x, nil, grid, nil)
}
