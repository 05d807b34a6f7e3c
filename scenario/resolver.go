package scenario

import (
	"log/slog"

	"github.com/aouyang1/go-macroforecaster/series"
)

// Adjustment is the resolved effect of a scenario and shocks on one series.
type Adjustment struct {
	Scenario Name      `json:"scenario"`
	Series   series.ID `json:"series"`

	DriftMultiplier float64 `json:"drift_multiplier"`
	Tilt            float64 `json:"tilt"`
	DriftOffset     float64 `json:"drift_offset"`

	VolatilityMultiplier float64 `json:"volatility_multiplier"`
	StateNoise           float64 `json:"state_noise"`

	Bounds series.Bounds `json:"bounds"`
}

// Drift applies the shock offset to a trend drift and scales it by the scenario multiplier and
// series tilt
func (a Adjustment) Drift(trend float64) float64 {
	return (trend + a.DriftOffset) * a.DriftMultiplier * a.Tilt
}

// Volatility returns the multiplier applied to every bootstrapped residual
func (a Adjustment) Volatility() float64 {
	return a.VolatilityMultiplier * a.StateNoise
}

// Resolver resolves scenarios against a fixed set of tables
type Resolver struct {
	tables *Tables
}

// NewResolver creates a resolver over the given tables. If none are provided the default
// tables are used.
func NewResolver(tables *Tables) (*Resolver, error) {
	if tables == nil {
		tables = NewDefaultTables()
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{tables: tables}, nil
}

// Tables returns the tables backing the resolver
func (r *Resolver) Tables() *Tables {
	return r.tables
}

// Lookup returns the config for a scenario falling back to the baseline for unknown names.
// The returned name is the scenario actually applied.
func (r *Resolver) Lookup(name Name) (Name, Config) {
	if cfg, exists := r.tables.Scenarios[name]; exists {
		return name, cfg
	}
	slog.Warn("unknown scenario, using baseline", "scenario", string(name))
	return Baseline, r.tables.Scenarios[Baseline]
}

// Resolve computes the adjustment for a series under a scenario, shocks and the latest
// financial conditions level. Shocks are clamped to their permitted ranges first.
func (r *Resolver) Resolve(name Name, id series.ID, shocks Shocks, fciLatest float64) Adjustment {
	applied, cfg := r.Lookup(name)
	shocks = shocks.Clamp()

	return Adjustment{
		Scenario:             applied,
		Series:               id,
		DriftMultiplier:      cfg.DriftMultiplier,
		Tilt:                 cfg.Tilt(id),
		DriftOffset:          r.tables.Sensitivities[id].Offset(shocks),
		VolatilityMultiplier: cfg.VolatilityMultiplier,
		StateNoise:           r.tables.StateNoise.Factor(fciLatest),
		Bounds:               r.tables.BoundsFor(id),
	}
}
