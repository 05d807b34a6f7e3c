// Package scenario maps a named macro regime and user supplied shocks onto the drift and
// volatility adjustments applied to a simulated series.
package scenario

import (
	"math"
	"strings"

	"github.com/aouyang1/go-macroforecaster/series"
)

// Name identifies a macro scenario
type Name string

const (
	Baseline         Name = "baseline"
	SoftLanding      Name = "soft_landing"
	CreditTightening Name = "credit_tightening"
	Reacceleration   Name = "reacceleration"
)

// Names returns the built in scenarios
func Names() []Name {
	return []Name{Baseline, SoftLanding, CreditTightening, Reacceleration}
}

// ParseName normalizes a user supplied scenario name, e.g. "Soft-Landing" becomes soft_landing.
// An empty name is the baseline.
func ParseName(s string) Name {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Baseline
	}
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return Name(s)
}

// Shock limits
const (
	MaxNFCIShock     = 2.0
	MaxFedFundsShock = 4.0
)

// Shocks are continuous surprises to financial conditions and to the policy rate in percentage
// points.
type Shocks struct {
	NFCI     float64 `json:"nfci"`
	FedFunds float64 `json:"ff"`
}

// Clamp holds each shock within its permitted range. Non-finite shocks become 0.
func (s Shocks) Clamp() Shocks {
	return Shocks{
		NFCI:     clampFinite(s.NFCI, MaxNFCIShock),
		FedFunds: clampFinite(s.FedFunds, MaxFedFundsShock),
	}
}

// IsZero reports whether neither shock is applied
func (s Shocks) IsZero() bool {
	return s.NFCI == 0 && s.FedFunds == 0
}

func clampFinite(v, limit float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}

// Config holds the global multipliers of a scenario and its per series drift tilts. Series
// without a tilt are not tilted.
type Config struct {
	DriftMultiplier      float64               `json:"drift_multiplier"`
	VolatilityMultiplier float64               `json:"volatility_multiplier"`
	Tilts                map[series.ID]float64 `json:"tilts,omitempty"`
}

// Tilt returns the drift tilt for the series, 1.0 if none is configured
func (c Config) Tilt(id series.ID) float64 {
	if tilt, exists := c.Tilts[id]; exists {
		return tilt
	}
	return 1.0
}

// Sensitivity converts shocks into an additive per step drift offset for one series
type Sensitivity struct {
	NFCI     float64 `json:"nfci"`
	FedFunds float64 `json:"ff"`
}

// Offset returns the drift offset produced by the shocks
func (s Sensitivity) Offset(shocks Shocks) float64 {
	return s.NFCI*shocks.NFCI + s.FedFunds*shocks.FedFunds
}

// StateNoise widens volatility as financial conditions tighten:
// 1 + min(Cap, Slope * max(0, level)).
type StateNoise struct {
	Slope float64 `json:"slope"`
	Cap   float64 `json:"cap"`
}

// Factor returns the volatility multiplier for the latest financial conditions level. A
// non-finite level is treated as neutral.
func (s StateNoise) Factor(level float64) float64 {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		level = 0
	}
	return 1 + math.Min(s.Cap, s.Slope*math.Max(0, level))
}
