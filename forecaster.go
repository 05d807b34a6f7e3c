// Package forecaster produces scenario conditioned probabilistic forecasts for a fixed set of
// macroeconomic series from their raw observations.
package forecaster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-macroforecaster/assemble"
	"github.com/aouyang1/go-macroforecaster/montecarlo"
	"github.com/aouyang1/go-macroforecaster/scenario"
	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/aouyang1/go-macroforecaster/timedataset"
	"golang.org/x/sync/errgroup"
)

// Forecaster runs multi-series forecasts. It holds no per request state and is safe for
// concurrent use.
type Forecaster struct {
	opt *Options
	sim *montecarlo.Simulator
}

// New creates a new instance of a Forecaster using the provided options. If no options are
// provided a default is used.
func New(opt *Options) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	resolver, err := scenario.NewResolver(opt.Tables)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize scenario resolver, %w", err)
	}
	sim, err := montecarlo.New(resolver, opt.SimulationOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize simulator, %w", err)
	}

	return &Forecaster{opt: opt, sim: sim}, nil
}

// Forecast aligns, windows and simulates every series and assembles the response. Every series
// is checked for sufficient history before any is simulated so a short series fails the whole
// forecast without partial results.
func (f *Forecaster) Forecast(ctx context.Context, req *Request, obs map[series.ID]timedataset.Observations) (*Results, error) {
	if f == nil || f.sim == nil {
		return nil, ErrUninitialized
	}
	req = req.Validate()

	fciLatest, err := f.fciLatest(obs[series.NFCI])
	if err != nil {
		return nil, err
	}

	assembled, err := f.prepare(req, obs)
	if err != nil {
		return nil, err
	}

	sims := make([]*montecarlo.Result, len(assembled))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range assembled {
		g.Go(func() error {
			hist, err := s.Clean()
			if err != nil {
				return err
			}
			slog.Debug("forecasting series",
				"series", s.ID.String(),
				"window", req.WindowMonths,
				"clean", hist.Len(),
				"horizon", req.HorizonMonths,
			)

			res, err := f.sim.Run(gctx, montecarlo.Input{
				Series:    s.ID,
				Labels:    hist.T,
				Values:    hist.Y,
				Start:     s.Start(),
				Horizon:   req.HorizonMonths,
				Scenario:  req.Scenario,
				Shocks:    req.Shocks,
				FCILatest: fciLatest,
			})
			if err != nil {
				return fmt.Errorf("unable to forecast %s, %w", s.ID, err)
			}
			if err := s.Attach(res); err != nil {
				return err
			}
			sims[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &Results{
		Params:      req,
		Series:      make(map[series.ID]*assemble.Series, len(assembled)),
		Simulations: make(map[series.ID]*montecarlo.Result, len(assembled)),
	}
	for i, s := range assembled {
		r.Series[s.ID] = s
		r.Simulations[s.ID] = sims[i]
	}
	if updated, ok := obs[series.CPI].LastDate(); ok {
		r.Updated = &updated
	}
	return r, nil
}

// prepare aligns and transforms each series and lays out its label axis
func (f *Forecaster) prepare(req *Request, obs map[series.ID]timedataset.Observations) ([]*assemble.Series, error) {
	required := req.WindowMonths + 2

	assembled := make([]*assemble.Series, 0, len(series.All()))
	for _, id := range series.All() {
		recipe := f.opt.Recipes[id]
		td, err := recipe.Prepare(obs[id])
		if err != nil {
			return nil, fmt.Errorf("unable to prepare %s, %w", id, err)
		}
		if td.Len() < required {
			return nil, &InsufficientHistoryError{Series: id, Available: td.Len(), Required: required}
		}

		s, err := assemble.New(id, td.Tail(req.WindowMonths), req.WindowMonths, req.HorizonMonths)
		if err != nil {
			return nil, fmt.Errorf("unable to assemble %s, %w", id, err)
		}
		s.Anchor = recipe.Anchor
		assembled = append(assembled, s)
	}
	return assembled, nil
}

// fciLatest returns the last monthly financial conditions level, 0 without observations
func (f *Forecaster) fciLatest(obs timedataset.Observations) (float64, error) {
	td, err := f.opt.Recipes[series.NFCI].Prepare(obs)
	if err != nil {
		return 0, fmt.Errorf("unable to prepare %s, %w", series.NFCI, err)
	}
	_, v, ok := td.Last()
	if !ok {
		return 0, nil
	}
	return v, nil
}

// Options returns the validated options of the forecaster
func (f *Forecaster) Options() *Options {
	return f.opt
}
