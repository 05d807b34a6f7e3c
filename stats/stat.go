// Package stats holds the small set of descriptive statistics used to decompose a series and
// reduce a simulated ensemble.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrInvalidQuantile = errors.New("quantile must be within [0, 1]")

// Diff returns the first differences y[i] - y[i-1]. The result has one less element than y
// and is empty when y has fewer than 2 points.
func Diff(y []float64) []float64 {
	if len(y) < 2 {
		return []float64{}
	}
	diffs := make([]float64, len(y)-1)
	floats.SubTo(diffs, y[1:], y[:len(y)-1])
	return diffs
}

// Mean returns the arithmetic mean or 0 for an empty slice
func Mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	return stat.Mean(y, nil)
}

// StdDev returns the sample standard deviation with n-1 degrees of freedom or 0 when there
// are fewer than 2 values.
func StdDev(y []float64) float64 {
	if len(y) < 2 {
		return 0
	}
	return stat.StdDev(y, nil)
}

// Quantile returns the q-th quantile of an ascending sorted slice by linearly interpolating
// between the two nearest order statistics at position (n-1)*q.
func Quantile(sorted []float64, q float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, ErrInvalidQuantile
	}
	n := len(sorted)
	if n == 0 {
		return math.NaN(), nil
	}
	pos := float64(n-1) * q
	base := int(math.Floor(pos))
	rest := pos - float64(base)
	if base+1 >= n {
		return sorted[base], nil
	}
	return sorted[base] + rest*(sorted[base+1]-sorted[base]), nil
}

// ExpSmooth applies simple exponential smoothing seeded with the first value,
// out[i] = alpha*y[i] + (1-alpha)*out[i-1].
func ExpSmooth(y []float64, alpha float64) []float64 {
	out := make([]float64, len(y))
	if len(y) == 0 {
		return out
	}
	out[0] = y[0]
	for i := 1; i < len(y); i++ {
		out[i] = alpha*y[i] + (1-alpha)*out[i-1]
	}
	return out
}
