package assemble

import (
	"math"

	"github.com/aouyang1/go-macroforecaster/montecarlo"
	"github.com/aouyang1/go-macroforecaster/timedataset"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Decimals every reported number is rounded to
const Decimals = 2

// Padded is the response representation of an assembled series. Every array has one entry per
// label with nulls where a point does not carry that value.
type Padded struct {
	Labels      []string               `json:"labels"`
	History     []*float64             `json:"history"`
	Forecast    []*float64             `json:"forecast"`
	Lower       []*float64             `json:"p10_forecast"`
	Upper       []*float64             `json:"p90_forecast"`
	Anchor      *float64               `json:"anchor"`
	Latest      *float64               `json:"latest"`
	Diagnostics montecarlo.Diagnostics `json:"diagnostics"`
}

// Round rounds v half away from zero to the reported number of decimals. Non-finite values
// are returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(Decimals).Float64()
	return f
}

// rounded returns a pointer to the rounded value, nil for non-finite values
func rounded(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := Round(v)
	return &r
}

// Flatten converts the tagged points into padded arrays, rounding after all computation
func (s *Series) Flatten() *Padded {
	n := len(s.Points)
	p := &Padded{
		Labels:   make([]string, n),
		History:  make([]*float64, n),
		Forecast: make([]*float64, n),
		Lower:    make([]*float64, n),
		Upper:    make([]*float64, n),
		Diagnostics: montecarlo.Diagnostics{
			Drift:                Round(s.Diagnostics.Drift),
			BaseVolatility:       Round(s.Diagnostics.BaseVolatility),
			VolatilityMultiplier: Round(s.Diagnostics.VolatilityMultiplier),
			Fit:                  s.Diagnostics.Fit.Round(Round),
		},
	}

	for i, pnt := range s.Points {
		p.Labels[i] = timedataset.FormatMonth(pnt.Month)
		switch pnt.Kind {
		case Known:
			p.History[i] = rounded(pnt.Value)
		case Forecast:
			p.Forecast[i] = rounded(pnt.Value)
			p.Lower[i] = rounded(pnt.Lower)
			p.Upper[i] = rounded(pnt.Upper)
		}
	}

	if s.Anchor != nil {
		p.Anchor = rounded(*s.Anchor)
	}
	if latest, ok := s.Latest(); ok {
		p.Latest = rounded(latest)
	}
	return p
}

// MarshalJSON encodes the series in its padded form
func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flatten())
}
