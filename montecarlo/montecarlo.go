// Package montecarlo simulates an ensemble of bootstrap-residual random walks with drift,
// seasonality and scenario adjustments, and reduces it to a mean path with quantile bands.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-macroforecaster/decompose"
	"github.com/aouyang1/go-macroforecaster/rng"
	"github.com/aouyang1/go-macroforecaster/scenario"
	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/aouyang1/go-macroforecaster/stats"
	"github.com/aouyang1/go-macroforecaster/timedataset"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoHistory          = errors.New("no history to simulate from")
	ErrInvalidHorizon     = errors.New("horizon must be at least one month")
	ErrDatasetLenMismatch = errors.New("labels have a different length than values")
	ErrUninitialized      = errors.New("simulator is not initialized")
	ErrInvalidStart       = errors.New("forecast must start after the last history month")
)

// Input is one series to simulate. Labels and Values are the clean, gap free history in
// ascending month order.
type Input struct {
	Series series.ID
	Labels []time.Time
	Values []float64

	// Start is the first forecast month. Zero starts the forecast the month after the last
	// label, later months leave a gap the walk steps across.
	Start time.Time

	Horizon  int
	Scenario scenario.Name
	Shocks   scenario.Shocks

	// FCILatest is the latest monthly financial conditions level, driving state noise
	FCILatest float64
}

func (in Input) validate() error {
	if len(in.Labels) != len(in.Values) {
		return fmt.Errorf(
			"labels has length of %d, but values has a length of %d, %w",
			len(in.Labels), len(in.Values), ErrDatasetLenMismatch,
		)
	}
	if len(in.Values) == 0 {
		return fmt.Errorf("%s, %w", in.Series, ErrNoHistory)
	}
	if in.Horizon < 1 {
		return fmt.Errorf("got %d, %w", in.Horizon, ErrInvalidHorizon)
	}
	last := in.Labels[len(in.Labels)-1]
	if !in.Start.IsZero() && !timedataset.MonthStart(in.Start).After(timedataset.MonthStart(last)) {
		return fmt.Errorf(
			"start %s, last history %s, %w",
			timedataset.FormatMonth(in.Start), timedataset.FormatMonth(last), ErrInvalidStart,
		)
	}
	return nil
}

// start returns the first forecast month
func (in Input) start() time.Time {
	if in.Start.IsZero() {
		return timedataset.AddMonths(in.Labels[len(in.Labels)-1], 1)
	}
	return timedataset.MonthStart(in.Start)
}

// Diagnostics are the effective simulation parameters of a series
type Diagnostics struct {
	Drift                float64 `json:"drift"`
	BaseVolatility       float64 `json:"baseVol"`
	VolatilityMultiplier float64 `json:"volMult"`

	// Fit scores the one step ahead drift and seasonal fit over the history, nil for a single
	// point history
	Fit *stats.Scores `json:"fit,omitempty"`
}

// Result is the reduced forecast of one series
type Result struct {
	Series series.ID   `json:"series"`
	Months []time.Time `json:"months"`
	Mean   []float64   `json:"mean"`
	Lower  []float64   `json:"lower"`
	Upper  []float64   `json:"upper"`

	Diagnostics   Diagnostics              `json:"diagnostics"`
	Adjustment    scenario.Adjustment      `json:"adjustment"`
	Decomposition *decompose.Decomposition `json:"decomposition"`
	Seed          uint32                   `json:"seed"`
}

// Simulator runs seeded ensembles against a scenario resolver
type Simulator struct {
	resolver *scenario.Resolver
	opt      *Options
}

// New creates a simulator. A nil resolver resolves against the default scenario tables.
func New(resolver *scenario.Resolver, opt *Options) (*Simulator, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if resolver == nil {
		if resolver, err = scenario.NewResolver(nil); err != nil {
			return nil, err
		}
	}
	return &Simulator{resolver: resolver, opt: opt}, nil
}

// Seed returns the deterministic seed of a run. It depends on the series, the applied
// scenario, the history length and last value, the financial conditions level, both shocks
// and the horizon.
func (s *Simulator) Seed(in Input) uint32 {
	applied, _ := s.resolver.Lookup(in.Scenario)
	return seed(in, applied, in.Shocks.Clamp())
}

func seed(in Input, applied scenario.Name, shocks scenario.Shocks) uint32 {
	var last float64
	if n := len(in.Values); n > 0 {
		last = in.Values[n-1]
	}
	return rng.NewSeeder().
		String(in.Series.String()).
		String(string(applied)).
		Int(len(in.Values)).
		Float(last).
		Float(in.FCILatest).
		Float(shocks.NFCI).
		Float(shocks.FedFunds).
		Int(in.Horizon).
		Sum()
}

// plan is everything derived from an input before any path is drawn
type plan struct {
	walk   walk
	months []time.Time
	dec    *decompose.Decomposition
	adj    scenario.Adjustment
	seed   uint32
}

func (s *Simulator) prepare(in Input) (*plan, error) {
	if s == nil || s.resolver == nil || s.opt == nil {
		return nil, ErrUninitialized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	dec, err := decompose.Decompose(in.Labels, in.Values, s.opt.DecomposeOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to decompose %s history, %w", in.Series, err)
	}
	adj := s.resolver.Resolve(in.Scenario, in.Series, in.Shocks, in.FCILatest)
	months := timedataset.MonthRange(in.start(), in.Horizon)

	return &plan{
		walk: walk{
			start:     in.Values[len(in.Values)-1],
			drift:     adj.Drift(dec.Drift),
			volMult:   adj.Volatility(),
			residuals: dec.Residuals,
			seasonal:  dec.SeasonalComponent(months),
			bounds:    adj.Bounds,
		},
		months: months,
		dec:    dec,
		adj:    adj,
		seed:   seed(in, adj.Scenario, in.Shocks.Clamp()),
	}, nil
}

// Run decomposes the history, simulates the ensemble and reduces it
func (s *Simulator) Run(ctx context.Context, in Input) (*Result, error) {
	p, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	slog.Debug("simulating series",
		"series", in.Series.String(),
		"scenario", string(p.adj.Scenario),
		"history", len(in.Values),
		"seed", p.seed,
		"drift", p.walk.drift,
		"vol_mult", p.walk.volMult,
	)

	ens, err := s.simulate(ctx, p)
	if err != nil {
		return nil, err
	}

	mean, lower, upper, err := ens.Reduce(s.opt)
	if err != nil {
		return nil, fmt.Errorf("unable to reduce %s ensemble, %w", in.Series, err)
	}

	return &Result{
		Series: in.Series,
		Months: p.months,
		Mean:   mean,
		Lower:  lower,
		Upper:  upper,
		Diagnostics: Diagnostics{
			Drift:                p.walk.drift,
			BaseVolatility:       p.dec.BaseVolatility,
			VolatilityMultiplier: p.walk.volMult,
			Fit:                  p.dec.Scores,
		},
		Adjustment:    p.adj,
		Decomposition: p.dec,
		Seed:          p.seed,
	}, nil
}

// Simulate returns the raw ensemble of a run without reducing it
func (s *Simulator) Simulate(ctx context.Context, in Input) (*Ensemble, error) {
	p, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	return s.simulate(ctx, p)
}

func (s *Simulator) simulate(ctx context.Context, p *plan) (*Ensemble, error) {
	ens := &Ensemble{
		Months: p.months,
		Paths:  make([][]float64, s.opt.Paths),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opt.Parallelization)
	for i := range ens.Paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen := s.opt.NewGenerator(rng.SubSeed(p.seed, i))
			ens.Paths[i] = p.walk.path(gen)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("unable to simulate ensemble, %w", err)
	}
	return ens, nil
}
