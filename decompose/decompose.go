// Package decompose splits a clean monthly history into a recent linear drift, a deterministic
// per-calendar-month seasonal term and the residuals left over, all estimated on first
// differences.
package decompose

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-macroforecaster/stats"
	"github.com/aouyang1/go-macroforecaster/timedataset"
)

// DefaultDriftWindow is the number of trailing differences averaged into the drift
const DefaultDriftWindow = 12

var (
	ErrDatasetLenMismatch = errors.New("labels have a different length than values")
	ErrInvalidDriftWindow = errors.New("drift window must be positive")
)

// Options configures the decomposition
type Options struct {
	DriftWindow int `json:"drift_window"`
}

// NewDefaultOptions returns the default decomposition options
func NewDefaultOptions() *Options {
	return &Options{DriftWindow: DefaultDriftWindow}
}

// Validate runs basic validation on the decomposition options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.DriftWindow <= 0 {
		return nil, fmt.Errorf("got %d, %w", o.DriftWindow, ErrInvalidDriftWindow)
	}
	return o, nil
}

// Decomposition is the drift, seasonal and residual breakdown of a history. A history with
// fewer than 2 points decomposes into zero drift, zero seasonality and no residuals.
type Decomposition struct {
	Drift          float64                            `json:"drift"`
	Seasonal       [timedataset.MonthsPerYear]float64 `json:"seasonal"`
	Residuals      []float64                          `json:"residuals"`
	BaseVolatility float64                            `json:"base_volatility"`

	// Scores of the one step ahead fit level[i-1] + drift + seasonal against the history.
	// Nil when there is nothing to score.
	Scores *stats.Scores `json:"scores,omitempty"`
}

// Decompose estimates the decomposition of values observed at the given month labels. Values
// must be free of gaps; labels and values must be in the same order.
func Decompose(labels []time.Time, values []float64, opt *Options) (*Decomposition, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if len(labels) != len(values) {
		return nil, fmt.Errorf(
			"labels has length of %d, but values has a length of %d, %w",
			len(labels), len(values), ErrDatasetLenMismatch,
		)
	}

	d := &Decomposition{Residuals: []float64{}}
	if len(values) < 2 {
		return d, nil
	}

	diffs := stats.Diff(values)

	// seasonal term keyed by the calendar month of the later endpoint of each difference
	var sums [timedataset.MonthsPerYear]float64
	var counts [timedataset.MonthsPerYear]int
	for i, diff := range diffs {
		if !finite(diff) {
			continue
		}
		m := timedataset.MonthIndex(labels[i+1])
		sums[m] += diff
		counts[m]++
	}
	for m := range sums {
		if counts[m] > 0 {
			d.Seasonal[m] = sums[m] / float64(counts[m])
		}
	}

	recent := diffs[max(0, len(diffs)-opt.DriftWindow):]
	d.Drift = stats.Mean(recent)

	residuals := make([]float64, 0, len(diffs))
	fitted := make([]float64, 0, len(diffs))
	actual := make([]float64, 0, len(diffs))
	for i, diff := range diffs {
		seas := d.Seasonal[timedataset.MonthIndex(labels[i+1])]
		r := diff - d.Drift - seas
		if !finite(r) {
			continue
		}
		residuals = append(residuals, r)
		fitted = append(fitted, values[i]+d.Drift+seas)
		actual = append(actual, values[i+1])
	}
	d.Residuals = residuals
	d.BaseVolatility = stats.StdDev(residuals)

	if len(actual) > 0 {
		scores, err := stats.NewScores(fitted, actual)
		if err != nil {
			return nil, fmt.Errorf("unable to score decomposition fit, %w", err)
		}
		d.Scores = scores
	}
	return d, nil
}

// SeasonalAt returns the seasonal term for the calendar month of t
func (d *Decomposition) SeasonalAt(t time.Time) float64 {
	if d == nil {
		return 0
	}
	return d.Seasonal[timedataset.MonthIndex(t)]
}

// SeasonalComponent returns the seasonal term for each of the given months
func (d *Decomposition) SeasonalComponent(t []time.Time) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		res[i] = d.SeasonalAt(tPnt)
	}
	return res
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
