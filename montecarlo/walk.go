package montecarlo

import (
	"github.com/aouyang1/go-macroforecaster/rng"
	"github.com/aouyang1/go-macroforecaster/series"
)

// walk holds the per series parameters shared by every path of an ensemble
type walk struct {
	start     float64
	drift     float64
	volMult   float64
	residuals []float64
	seasonal  []float64
	bounds    series.Bounds
}

// path simulates one path. Each step draws a single residual uniformly with replacement, adds
// drift and the month's seasonal term, then clamps the level to the series bounds.
func (w walk) path(gen rng.Generator) []float64 {
	out := make([]float64, len(w.seasonal))
	level := w.start
	n := len(w.residuals)
	for i, seas := range w.seasonal {
		var resid float64
		if n > 0 {
			idx := int(gen.Float64() * float64(n))
			resid = w.residuals[min(idx, n-1)]
		}
		level = w.bounds.Clamp(level + w.drift + seas + resid*w.volMult)
		out[i] = level
	}
	return out
}
