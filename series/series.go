// Package series identifies the macroeconomic series the forecaster knows how to model and
// carries the plausibility bounds simulated paths are held within.
package series

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownSeries = errors.New("unknown series")

// ID is the identity of a modelled series. Lookup tables throughout the module are keyed by ID.
type ID int

const (
	CPI ID = iota
	Unemployment
	FedFunds
	IndustrialProduction
	GDP
	NFCI
)

var (
	codes = map[ID]string{
		CPI:                  "CPI",
		Unemployment:         "UNRATE",
		FedFunds:             "FEDFUNDS",
		IndustrialProduction: "INDPRO",
		GDP:                  "GDP",
		NFCI:                 "NFCI",
	}
	keys = map[ID]string{
		CPI:                  "cpi",
		Unemployment:         "unemployment",
		FedFunds:             "fedFunds",
		IndustrialProduction: "industrialProduction",
		GDP:                  "gdp",
		NFCI:                 "fci",
	}
)

// All returns every known series in canonical order
func All() []ID {
	return []ID{CPI, Unemployment, FedFunds, IndustrialProduction, GDP, NFCI}
}

// String returns the short series code e.g. UNRATE
func (id ID) String() string {
	if code, exists := codes[id]; exists {
		return code
	}
	return fmt.Sprintf("series(%d)", int(id))
}

// Key returns the name the series is published under in a forecast response
func (id ID) Key() string {
	if key, exists := keys[id]; exists {
		return key
	}
	return id.String()
}

// Valid reports whether id is one of the known series
func (id ID) Valid() bool {
	_, exists := codes[id]
	return exists
}

// Parse resolves a series from either its code or its response key, case-insensitively.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, id := range All() {
		if strings.EqualFold(s, codes[id]) || strings.EqualFold(s, keys[id]) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownSeries)
}

func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%d, %w", int(id), ErrUnknownSeries)
	}
	return []byte(codes[id]), nil
}

func (id *ID) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Bounds is a hard floor and ceiling for a series level.
type Bounds struct {
	Floor   float64 `json:"floor"`
	Ceiling float64 `json:"ceiling"`
}

// Unbounded returns bounds that never bind
func Unbounded() Bounds {
	return Bounds{Floor: math.Inf(-1), Ceiling: math.Inf(1)}
}

// Valid reports whether the floor does not exceed the ceiling
func (b Bounds) Valid() bool {
	return !math.IsNaN(b.Floor) && !math.IsNaN(b.Ceiling) && b.Floor <= b.Ceiling
}

// Clamp holds x within the bounds. A non-finite level is treated as 0 before clamping so the
// result always lies inside the bounds.
func (b Bounds) Clamp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = 0
	}
	return math.Max(b.Floor, math.Min(b.Ceiling, x))
}

// Contains reports whether x lies within the bounds inclusively
func (b Bounds) Contains(x float64) bool {
	return x >= b.Floor && x <= b.Ceiling
}

// DefaultBounds returns the plausibility bounds for every known series. CPI and GDP are
// bounded as year-over-year percent changes.
func DefaultBounds() map[ID]Bounds {
	return map[ID]Bounds{
		Unemployment:         {Floor: 2, Ceiling: 15},
		FedFunds:             {Floor: 0, Ceiling: 10},
		IndustrialProduction: {Floor: 40, Ceiling: 140},
		CPI:                  {Floor: -2, Ceiling: 15},
		GDP:                  {Floor: -8, Ceiling: 10},
		NFCI:                 {Floor: -2.5, Ceiling: 3.5},
	}
}
