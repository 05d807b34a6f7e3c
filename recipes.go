package forecaster

import (
	"fmt"

	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/aouyang1/go-macroforecaster/timedataset"
	"github.com/aouyang1/go-macroforecaster/transform"
)

// Transform is applied to an aligned monthly series before it is windowed
type Transform int

const (
	TransformLevel Transform = iota
	TransformYoY
)

func (t Transform) String() string {
	if t == TransformYoY {
		return "yoy"
	}
	return "level"
}

// Recipe describes how the raw observations of a series become its monthly analysis series
type Recipe struct {
	Frequency timedataset.Frequency `json:"frequency"`
	Transform Transform             `json:"transform"`

	// Anchor is an optional reference level reported alongside the series
	Anchor *float64 `json:"anchor"`
}

// Prepare aligns the observations onto the monthly grid and applies the transform. The result
// only carries finite values.
func (r Recipe) Prepare(obs timedataset.Observations) (*timedataset.TimeDataset, error) {
	td, err := obs.Align(r.Frequency)
	if err != nil {
		return nil, fmt.Errorf("unable to align observations, %w", err)
	}
	if r.Transform == TransformYoY {
		td = transform.YoY(td)
	}
	return td.DropNan(), nil
}

func anchor(v float64) *float64 {
	return &v
}

// DefaultRecipes returns the recipe of every known series. CPI is reported as year-over-year
// inflation against a 2% anchor, GDP is step-filled from quarterly levels before taking its
// year-over-year growth and the financial conditions index is averaged from weekly prints.
func DefaultRecipes() map[series.ID]Recipe {
	return map[series.ID]Recipe{
		series.CPI:                  {Frequency: timedataset.FrequencyMonthly, Transform: TransformYoY, Anchor: anchor(2)},
		series.Unemployment:         {Frequency: timedataset.FrequencyMonthly},
		series.FedFunds:             {Frequency: timedataset.FrequencyMonthly},
		series.IndustrialProduction: {Frequency: timedataset.FrequencyMonthly},
		series.GDP:                  {Frequency: timedataset.FrequencyQuarterly, Transform: TransformYoY},
		series.NFCI:                 {Frequency: timedataset.FrequencySubMonthly, Anchor: anchor(0)},
	}
}
