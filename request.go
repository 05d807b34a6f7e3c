package forecaster

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-macroforecaster/scenario"
	"github.com/goccy/go-json"
)

const (
	DefaultYear = 2026

	DefaultHorizonMonths = 12
	MinHorizonMonths     = 1
	MaxHorizonMonths     = 60

	DefaultWindowMonths = 36
	MinWindowMonths     = 12
	MaxWindowMonths     = 240
)

// Request are the parameters of a single multi-series forecast
type Request struct {
	Year          int             `json:"year"`
	HorizonMonths int             `json:"horizonMonths"`
	WindowMonths  int             `json:"windowMonths"`
	Scenario      scenario.Name   `json:"scenario"`
	Shocks        scenario.Shocks `json:"shocks"`
}

// NewDefaultRequest returns a baseline request for a 12 month horizon over a 36 month window
func NewDefaultRequest() *Request {
	return &Request{
		Year:          DefaultYear,
		HorizonMonths: DefaultHorizonMonths,
		WindowMonths:  DefaultWindowMonths,
		Scenario:      scenario.Baseline,
	}
}

// Validate returns a copy of the request with every parameter clamped into its permitted
// range. Out of range parameters are never an error and the receiver is left as is.
func (r *Request) Validate() *Request {
	if r == nil {
		r = NewDefaultRequest()
	}
	res := *r
	r = &res

	if r.Year == 0 {
		r.Year = DefaultYear
	}
	r.HorizonMonths = clampInt("horizonMonths", r.HorizonMonths, MinHorizonMonths, MaxHorizonMonths)
	r.WindowMonths = clampInt("windowMonths", r.WindowMonths, MinWindowMonths, MaxWindowMonths)
	r.Scenario = scenario.ParseName(string(r.Scenario))

	if clamped := r.Shocks.Clamp(); clamped != r.Shocks {
		slog.Warn("clamping shocks",
			"nfci", r.Shocks.NFCI, "ff", r.Shocks.FedFunds,
			"clamped_nfci", clamped.NFCI, "clamped_ff", clamped.FedFunds,
		)
		r.Shocks = clamped
	}
	return r
}

func clampInt(name string, v, lo, hi int) int {
	clamped := max(lo, min(hi, v))
	if clamped != v {
		slog.Warn("clamping request parameter", "name", name, "value", v, "clamped", clamped)
	}
	return clamped
}

// requestBody mirrors Request with every field optional so absent fields take their defaults
// and fractional months are floored.
type requestBody struct {
	Year          *float64 `json:"year"`
	HorizonMonths *float64 `json:"horizonMonths"`
	WindowMonths  *float64 `json:"windowMonths"`
	Scenario      string   `json:"scenario"`
	Shocks        struct {
		NFCI     *float64 `json:"nfci"`
		FedFunds *float64 `json:"ff"`
	} `json:"shocks"`
}

// ParseRequest decodes a JSON request body over the default request and validates it
func ParseRequest(data []byte) (*Request, error) {
	var body requestBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("unable to decode request, %w", err)
	}

	r := NewDefaultRequest()
	if body.Year != nil && *body.Year != 0 {
		r.Year = floorInt(*body.Year, DefaultYear)
	}
	if body.HorizonMonths != nil {
		r.HorizonMonths = floorInt(*body.HorizonMonths, DefaultHorizonMonths)
	}
	if body.WindowMonths != nil {
		r.WindowMonths = floorInt(*body.WindowMonths, DefaultWindowMonths)
	}
	if body.Scenario != "" {
		r.Scenario = scenario.Name(body.Scenario)
	}
	if body.Shocks.NFCI != nil {
		r.Shocks.NFCI = *body.Shocks.NFCI
	}
	if body.Shocks.FedFunds != nil {
		r.Shocks.FedFunds = *body.Shocks.FedFunds
	}
	return r.Validate(), nil
}

func floorInt(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	// bound before converting to int
	return int(math.Max(-1e6, math.Min(1e6, math.Floor(v))))
}
