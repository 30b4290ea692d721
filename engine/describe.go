package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// DESCRIBE — Per-column summary statistics and correlations
// ============================================================================
// Numeric (measure) columns only, in file order. Missing (NaN) values are
// skipped: count is the number of present values, and correlations use the
// rows where both columns are present.
// std is the sample standard deviation (n-1 denominator).
// Quartiles interpolate linearly between the closest ranks.
// ============================================================================

// Describe computes count/mean/std/min/quartiles/max for every measure column.
func Describe(view RecordView) []ColumnStats {
	keys := view.MeasureKeys()
	out := make([]ColumnStats, 0, len(keys))
	for _, key := range keys {
		out = append(out, DescribeValues(key, MeasureValues(view, key)))
	}
	return out
}

// DescribeValues summarizes one column of values, ignoring NaN entries.
func DescribeValues(column string, values []float64) ColumnStats {
	values = dropNaN(values)
	s := ColumnStats{Column: column, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = math.NaN()
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = Quantile(sorted, 0.25)
	s.Q50 = Quantile(sorted, 0.50)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted data, interpolating linearly
// between the two closest ranks: h = (n-1)·p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Correlation computes the pairwise Pearson correlation of every measure
// column. A constant column correlates as NaN with everything, itself included.
func Correlation(view RecordView) CorrelationMatrix {
	keys := view.MeasureKeys()
	cols := make([][]float64, len(keys))
	for i, key := range keys {
		cols[i] = MeasureValues(view, key)
	}

	values := make([][]float64, len(keys))
	for i := range keys {
		values[i] = make([]float64, len(keys))
	}
	for i := range keys {
		for j := i; j < len(keys); j++ {
			r := pearson(cols[i], cols[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return CorrelationMatrix{Columns: append([]string{}, keys...), Values: values}
}

// pearson correlates the pairwise-complete rows of x and y.
func pearson(x, y []float64) float64 {
	px := make([]float64, 0, len(x))
	py := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		px = append(px, x[i])
		py = append(py, y[i])
	}
	x, y = px, py

	if len(x) < 2 {
		return math.NaN()
	}
	if stat.StdDev(x, nil) == 0 || stat.StdDev(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
