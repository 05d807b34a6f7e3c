package scenario

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/goccy/go-json"
)

var (
	ErrNegativeMultiplier = errors.New("negative scenario multiplier")
	ErrNegativeTilt       = errors.New("negative drift tilt")
	ErrInvalidBounds      = errors.New("floor is above ceiling")
	ErrInvalidStateNoise  = errors.New("negative state noise slope or cap")
	ErrNoBaseline         = errors.New("no baseline scenario configured")
)

// Tables are the design tables driving scenario resolution and path clamping. They are built
// once and never mutated afterwards.
type Tables struct {
	Scenarios     map[Name]Config             `json:"scenarios"`
	Sensitivities map[series.ID]Sensitivity   `json:"sensitivities"`
	Bounds        map[series.ID]series.Bounds `json:"bounds"`
	StateNoise    StateNoise                  `json:"state_noise"`
}

// NewDefaultTables returns the built in scenario, sensitivity, bounds and state noise tables
func NewDefaultTables() *Tables {
	return &Tables{
		Scenarios: map[Name]Config{
			Baseline: {DriftMultiplier: 1.0, VolatilityMultiplier: 1.0},
			SoftLanding: {
				DriftMultiplier:      0.85,
				VolatilityMultiplier: 0.9,
				Tilts: map[series.ID]float64{
					series.Unemployment:         0.9,
					series.IndustrialProduction: 0.95,
					series.GDP:                  0.95,
					series.CPI:                  0.9,
					series.NFCI:                 0.95,
				},
			},
			CreditTightening: {
				DriftMultiplier:      0.7,
				VolatilityMultiplier: 1.25,
				Tilts: map[series.ID]float64{
					series.Unemployment:         1.25,
					series.IndustrialProduction: 0.75,
					series.GDP:                  0.8,
					series.CPI:                  0.9,
					series.NFCI:                 1.1,
				},
			},
			Reacceleration: {
				DriftMultiplier:      1.15,
				VolatilityMultiplier: 1.1,
				Tilts: map[series.ID]float64{
					series.Unemployment:         0.85,
					series.IndustrialProduction: 1.15,
					series.GDP:                  1.15,
					series.CPI:                  1.1,
					series.NFCI:                 0.95,
				},
			},
		},
		Sensitivities: map[series.ID]Sensitivity{
			series.Unemployment:         {NFCI: 0.04, FedFunds: 0.015},
			series.IndustrialProduction: {NFCI: -0.25, FedFunds: -0.08},
			series.GDP:                  {NFCI: -0.1, FedFunds: -0.05},
			series.CPI:                  {NFCI: -0.06, FedFunds: -0.03},
			series.NFCI:                 {NFCI: 0.08, FedFunds: 0.02},
			series.FedFunds:             {NFCI: 0, FedFunds: 0.02},
		},
		Bounds:     series.DefaultBounds(),
		StateNoise: StateNoise{Slope: 0.45, Cap: 0.8},
	}
}

// LoadTables decodes JSON overrides on top of the default tables. Scenarios, sensitivities and
// bounds present in the input replace the default entry for the same key.
func LoadTables(r io.Reader) (*Tables, error) {
	var override Tables
	if err := json.NewDecoder(r).Decode(&override); err != nil {
		return nil, fmt.Errorf("unable to decode scenario tables, %w", err)
	}

	t := NewDefaultTables()
	maps.Copy(t.Scenarios, override.Scenarios)
	maps.Copy(t.Sensitivities, override.Sensitivities)
	maps.Copy(t.Bounds, override.Bounds)
	if override.StateNoise != (StateNoise{}) {
		t.StateNoise = override.StateNoise
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every multiplier and tilt is non-negative and every bound is ordered
func (t *Tables) Validate() error {
	if t == nil {
		return ErrNoBaseline
	}
	if _, exists := t.Scenarios[Baseline]; !exists {
		return ErrNoBaseline
	}
	for name, cfg := range t.Scenarios {
		if cfg.DriftMultiplier < 0 || cfg.VolatilityMultiplier < 0 {
			return fmt.Errorf("scenario %q, %w", name, ErrNegativeMultiplier)
		}
		for id, tilt := range cfg.Tilts {
			if tilt < 0 {
				return fmt.Errorf("scenario %q series %s, %w", name, id, ErrNegativeTilt)
			}
		}
	}
	for id, b := range t.Bounds {
		if !b.Valid() {
			return fmt.Errorf("series %s, %w", id, ErrInvalidBounds)
		}
	}
	if t.StateNoise.Slope < 0 || t.StateNoise.Cap < 0 {
		return ErrInvalidStateNoise
	}
	return nil
}

// BoundsFor returns the clamp bounds for a series, unbounded if none are configured
func (t *Tables) BoundsFor(id series.ID) series.Bounds {
	if b, exists := t.Bounds[id]; exists {
		return b
	}
	return series.Unbounded()
}

// TablePrint writes the scenario multipliers and per series tilts, sensitivities and bounds
func (t *Tables) TablePrint(w io.Writer) error {
	names := slices.Sorted(maps.Keys(t.Scenarios))

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "Scenario\tDrift\tVolatility\t\n"); err != nil {
		return err
	}
	for _, name := range names {
		cfg := t.Scenarios[name]
		if _, err := fmt.Fprintf(tbl, "%s\t%.3f\t%.3f\t\n", name, cfg.DriftMultiplier, cfg.VolatilityMultiplier); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(tbl, "Series\t"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(tbl, "%s\t", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tbl, "NFCI Sens\tFF Sens\tFloor\tCeiling\t\n"); err != nil {
		return err
	}
	for _, id := range series.All() {
		if _, err := fmt.Fprintf(tbl, "%s\t", id); err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintf(tbl, "%.2f\t", t.Scenarios[name].Tilt(id)); err != nil {
				return err
			}
		}
		sens := t.Sensitivities[id]
		b := t.BoundsFor(id)
		if _, err := fmt.Fprintf(tbl, "%.3f\t%.3f\t%.1f\t%.1f\t\n", sens.NFCI, sens.FedFunds, b.Floor, b.Ceiling); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
