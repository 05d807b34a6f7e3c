// Package transform derives analysis-ready monthly series from level data.
package transform

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-macroforecaster/timedataset"
)

var ErrInvalidPeriod = errors.New("period must be positive")

// PctChange computes the percent change of each month against the month periods earlier,
// (v[t]/v[t-periods] - 1) * 100. Months whose earlier counterpart is absent, non-finite or
// zero are omitted from the output rather than reported as an error, as are months where a
// near-zero earlier value pushes the ratio out of the finite range.
func PctChange(td *timedataset.TimeDataset, periods int) (*timedataset.TimeDataset, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("got %d, %w", periods, ErrInvalidPeriod)
	}

	res := &timedataset.TimeDataset{
		T: make([]time.Time, 0, td.Len()),
		Y: make([]float64, 0, td.Len()),
	}
	if td.Len() == 0 {
		return res, nil
	}

	lookup := td.Lookup()
	for i, t := range td.T {
		curr := td.Y[i]
		prev, exists := lookup[timedataset.AddMonths(t, -periods)]
		if !exists || !finite(curr) || !finite(prev) || prev == 0 {
			continue
		}
		pct := (curr/prev - 1) * 100
		if !finite(pct) {
			continue
		}
		res.T = append(res.T, t)
		res.Y = append(res.Y, pct)
	}
	return res, nil
}

// YoY computes the year-over-year percent change of a monthly level series
func YoY(td *timedataset.TimeDataset) *timedataset.TimeDataset {
	res, _ := PctChange(td, timedataset.MonthsPerYear)
	return res
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
