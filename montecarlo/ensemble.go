package montecarlo

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aouyang1/go-macroforecaster/stats"
	"gonum.org/v1/gonum/floats"
)

var ErrEmptyEnsemble = errors.New("ensemble has no paths")

// Ensemble is a set of simulated paths over the same forecast months
type Ensemble struct {
	Months []time.Time
	Paths  [][]float64
}

// Horizon returns the number of forecast steps in each path
func (e *Ensemble) Horizon() int {
	return len(e.Months)
}

// Step returns a copy of every path's value at step i
func (e *Ensemble) Step(i int) []float64 {
	res := make([]float64, len(e.Paths))
	for p, path := range e.Paths {
		res[p] = path[i]
	}
	return res
}

// Mean returns the per step arithmetic mean across paths
func (e *Ensemble) Mean() ([]float64, error) {
	if len(e.Paths) == 0 {
		return nil, ErrEmptyEnsemble
	}
	sum := make([]float64, e.Horizon())
	for _, path := range e.Paths {
		floats.Add(sum, path)
	}
	floats.Scale(1/float64(len(e.Paths)), sum)
	return sum, nil
}

// Quantiles returns the per step lower and upper quantiles across paths
func (e *Ensemble) Quantiles(lower, upper float64) ([]float64, []float64, error) {
	if len(e.Paths) == 0 {
		return nil, nil, ErrEmptyEnsemble
	}
	lo := make([]float64, e.Horizon())
	hi := make([]float64, e.Horizon())
	for i := range e.Months {
		step := e.Step(i)
		slices.Sort(step)

		var err error
		if lo[i], err = stats.Quantile(step, lower); err != nil {
			return nil, nil, fmt.Errorf("unable to compute lower quantile at step %d, %w", i, err)
		}
		if hi[i], err = stats.Quantile(step, upper); err != nil {
			return nil, nil, fmt.Errorf("unable to compute upper quantile at step %d, %w", i, err)
		}
	}
	return lo, hi, nil
}

// Reduce summarizes the ensemble into a smoothed mean path and its quantile band. The smoothed
// mean is held within the band at every step.
func (e *Ensemble) Reduce(opt *Options) (mean, lower, upper []float64, err error) {
	opt, err = opt.Validate()
	if err != nil {
		return nil, nil, nil, err
	}

	raw, err := e.Mean()
	if err != nil {
		return nil, nil, nil, err
	}
	lower, upper, err = e.Quantiles(opt.LowerQuantile, opt.UpperQuantile)
	if err != nil {
		return nil, nil, nil, err
	}

	mean = stats.ExpSmooth(raw, opt.Smoothing)
	for i := range mean {
		mean[i] = max(lower[i], min(upper[i], mean[i]))
	}
	return mean, lower, upper, nil
}
