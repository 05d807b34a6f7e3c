package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// Scores are in-sample fit scores of a prediction against what was observed
type Scores struct {
	MSE  float64 `json:"mse"`
	MAPE float64 `json:"mape"`
	R2   float64 `json:"r2"`
}

// NewScores scores predicted against actual over the positions where both are finite. MAPE
// averages over the non-zero actuals only. R2 is 1 when there is nothing to explain and 0 when
// a constant actual is missed.
func NewScores(predicted, actual []float64) (*Scores, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf(
			"predicted has length of %d, but actual has a length of %d, %w",
			len(predicted), len(actual), ErrResLenMismatch,
		)
	}

	pred := make([]float64, 0, len(predicted))
	act := make([]float64, 0, len(actual))
	for i := range actual {
		if !finite(predicted[i]) || !finite(actual[i]) {
			continue
		}
		pred = append(pred, predicted[i])
		act = append(act, actual[i])
	}

	s := &Scores{R2: 1}
	if len(act) == 0 {
		return s, nil
	}

	errs := make([]float64, len(act))
	floats.SubTo(errs, act, pred)
	s.MSE = floats.Dot(errs, errs) / float64(len(act))

	var pctErr float64
	var nonZero int
	for i, e := range errs {
		if act[i] == 0 {
			continue
		}
		pctErr += math.Abs(e / act[i])
		nonZero++
	}
	if nonZero > 0 {
		s.MAPE = pctErr / float64(nonZero)
	}

	r2 := stat.RSquaredFrom(pred, act, nil)
	switch {
	case math.IsNaN(r2):
		r2 = 1
	case math.IsInf(r2, 0):
		r2 = 0
	}
	s.R2 = r2
	return s, nil
}

// Round returns a copy of the scores with every score passed through round
func (s *Scores) Round(round func(float64) float64) *Scores {
	if s == nil {
		return nil
	}
	return &Scores{MSE: round(s.MSE), MAPE: round(s.MAPE), R2: round(s.R2)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
