package montecarlo

import (
	"testing"

	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/stretchr/testify/assert"
)

type constGenerator float64

func (c constGenerator) Float64() float64 {
	return float64(c)
}

func TestWalkPath(t *testing.T) {
	testData := map[string]struct {
		walk     walk
		draw     float64
		expected []float64
	}{
		"drift and seasonal": {
			walk: walk{
				start:    10,
				drift:    0.5,
				volMult:  1,
				seasonal: []float64{0, 1, -1},
				bounds:   series.Unbounded(),
			},
			expected: []float64{10.5, 12, 11.5},
		},
		"residual scaled by volatility": {
			walk: walk{
				start:     0,
				volMult:   2,
				residuals: []float64{-1, 1},
				seasonal:  []float64{0, 0},
				bounds:    series.Unbounded(),
			},
			draw:     0.75,
			expected: []float64{2, 4},
		},
		"draw at upper edge": {
			walk: walk{
				start:     0,
				volMult:   1,
				residuals: []float64{-1, 1},
				seasonal:  []float64{0},
				bounds:    series.Unbounded(),
			},
			draw:     1,
			expected: []float64{1},
		},
		"clamped at floor": {
			walk: walk{
				start:     3,
				drift:     -0.4,
				volMult:   1,
				residuals: []float64{-0.5},
				seasonal:  []float64{0, 0, 0},
				bounds:    series.Bounds{Floor: 2, Ceiling: 15},
			},
			expected: []float64{2.1, 2, 2},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := td.walk.path(constGenerator(td.draw))
			assert.InDeltaSlice(t, td.expected, res, 1e-9)
		})
	}
}
