package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================================
// DENSITY — Histogram bin rule and Gaussian kernel density estimate
// ============================================================================

// Point is one (x, y) sample of a curve.
type Point struct {
	X float64
	Y float64
}

// AutoBins picks a histogram bin count for values: the smaller bin width of
// the Sturges and Freedman–Diaconis rules, falling back to Sturges when the
// interquartile range is zero.
func AutoBins(values []float64) int {
	n := len(values)
	if n == 0 {
		return 1
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	span := sorted[n-1] - sorted[0]
	if span == 0 {
		return 1
	}

	sturges := span / (math.Log2(float64(n)) + 1)
	iqr := Quantile(sorted, 0.75) - Quantile(sorted, 0.25)
	fd := 2 * iqr * math.Pow(float64(n), -1.0/3)

	width := sturges
	if fd > 0 && fd < sturges {
		width = fd
	}

	bins := int(math.Ceil(span / width))
	if bins < 1 {
		bins = 1
	}
	return bins
}

// KDEOptions tunes the density curve grid.
type KDEOptions struct {
	GridSize int     // number of evaluation points
	Cut      float64 // grid extends Cut bandwidths past the data on both sides
}

// DefaultKDEOptions returns a 200-point grid cut 3 bandwidths past the data.
func DefaultKDEOptions() KDEOptions {
	return KDEOptions{GridSize: 200, Cut: 3}
}

// ScottBandwidth returns the Gaussian kernel width n^(-1/5)·σ, with σ the
// sample standard deviation.
func ScottBandwidth(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	return math.Pow(float64(n), -0.2) * stat.StdDev(values, nil)
}

// KDE evaluates a Gaussian kernel density estimate of values on an evenly
// spaced grid. Returns nil when the bandwidth is zero (fewer than two
// values, or all values equal).
func KDE(values []float64, opts KDEOptions) []Point {
	if opts.GridSize < 2 {
		opts.GridSize = 2
	}
	bw := ScottBandwidth(values)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}

	lo := floats.Min(values) - opts.Cut*bw
	hi := floats.Max(values) + opts.Cut*bw
	grid := make([]float64, opts.GridSize)
	floats.Span(grid, lo, hi)

	kernel := distuv.UnitNormal
	n := float64(len(values))
	points := make([]Point, len(grid))
	for i, x := range grid {
		var sum float64
		for _, v := range values {
			sum += kernel.Prob((x - v) / bw)
		}
		points[i] = Point{X: x, Y: sum / (n * bw)}
	}
	return points
}
