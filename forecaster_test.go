package forecaster

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aouyang1/go-macroforecaster/assemble"
	"github.com/aouyang1/go-macroforecaster/rng"
	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/aouyang1/go-macroforecaster/timedataset"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

var observationsEnd = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func monthlyObservations(t []time.Time, y []float64) timedataset.Observations {
	obs, err := timedataset.NewObservations(t, y)
	if err != nil {
		panic(err)
	}
	return obs
}

// setupObservations generates months of history for every series ending with observationsEnd:
// monthly CPI, unemployment, policy rate and industrial production levels, quarterly GDP
// levels and weekly financial conditions prints.
func setupObservations(months int) map[series.ID]timedataset.Observations {
	t := timedataset.GenerateMonthlyT(months, observationsEnd)

	cpi := timedataset.GenerateLinearY(months, 280, 0.75).
		Add(timedataset.GenerateSeasonalY(t, 0.4, 5)).
		Add(timedataset.GenerateNoise(months, 0.3, 1))
	unrate := timedataset.GenerateConstY(months, 3.9).
		Add(timedataset.GenerateChange(t, t[months/2], 0, 0.01)).
		Add(timedataset.GenerateNoise(months, 0.08, 2))
	fedfunds := timedataset.GenerateConstY(months, 5.25).
		Add(timedataset.GenerateChange(t, t[months*2/3], 0, -0.05)).
		Add(timedataset.GenerateNoise(months, 0.02, 3))
	indpro := timedataset.GenerateLinearY(months, 100, 0.08).
		Add(timedataset.GenerateSeasonalY(t, 0.6, 0)).
		Add(timedataset.GenerateNoise(months, 0.4, 4))

	quarters := months / 3
	qt := make([]time.Time, quarters)
	for i := range qt {
		qt[i] = timedataset.AddMonths(observationsEnd, -3*(quarters-1-i))
	}
	gdp := timedataset.GenerateLinearY(quarters, 21000, 120).
		Add(timedataset.GenerateNoise(quarters, 40, 5))

	var wt []time.Time
	for w := timedataset.MonthStart(t[0]); w.Before(timedataset.AddMonths(observationsEnd, 1)); w = w.AddDate(0, 0, 7) {
		wt = append(wt, w)
	}
	nfci := timedataset.GenerateConstY(len(wt), -0.45).
		Add(timedataset.GenerateNoise(len(wt), 0.03, 6))

	return map[series.ID]timedataset.Observations{
		series.CPI:                  monthlyObservations(t, cpi),
		series.Unemployment:         monthlyObservations(t, unrate),
		series.FedFunds:             monthlyObservations(t, fedfunds),
		series.IndustrialProduction: monthlyObservations(t, indpro),
		series.GDP:                  monthlyObservations(qt, gdp),
		series.NFCI:                 monthlyObservations(wt, nfci),
	}
}

func TestForecastShape(t *testing.T) {
	defer goleak.VerifyNone(t)

	testData := map[string]struct {
		req     *Request
		window  int
		horizon int
	}{
		"default": {
			req:     nil,
			window:  DefaultWindowMonths,
			horizon: DefaultHorizonMonths,
		},
		"short window long horizon": {
			req:     &Request{HorizonMonths: 60, WindowMonths: 12, Scenario: "credit_tightening"},
			window:  12,
			horizon: 60,
		},
		"clamped": {
			req:     &Request{HorizonMonths: 0, WindowMonths: 3, Scenario: "Soft-Landing"},
			window:  MinWindowMonths,
			horizon: MinHorizonMonths,
		},
	}

	obs := setupObservations(96)
	f, err := New(nil)
	require.Nil(t, err)

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := f.Forecast(context.Background(), td.req, obs)
			require.Nil(t, err)
			require.Len(t, res.Series, len(series.All()))

			require.NotNil(t, res.Updated)
			assert.Equal(t, observationsEnd, *res.Updated)
			assert.Equal(t, td.window, res.Params.WindowMonths)
			assert.Equal(t, td.horizon, res.Params.HorizonMonths)

			total := td.window + td.horizon
			for _, id := range series.All() {
				p := res.Series[id].Flatten()
				require.Len(t, p.Labels, total, id.String())
				require.Len(t, p.History, total, id.String())
				require.Len(t, p.Forecast, total, id.String())

				for i := range total {
					inWindow := i < td.window
					assert.Equal(t, inWindow, p.History[i] != nil, "%s history %d", id, i)
					assert.Equal(t, !inWindow, p.Forecast[i] != nil, "%s forecast %d", id, i)
					assert.Equal(t, !inWindow, p.Lower[i] != nil, "%s lower %d", id, i)
					assert.Equal(t, !inWindow, p.Upper[i] != nil, "%s upper %d", id, i)
					if inWindow {
						continue
					}
					assert.LessOrEqual(t, *p.Lower[i], *p.Forecast[i]+0.01, "%s step %d", id, i)
					assert.LessOrEqual(t, *p.Forecast[i], *p.Upper[i]+0.01, "%s step %d", id, i)
				}
				assert.NotNil(t, p.Latest, id.String())
				assert.NotNil(t, res.Simulations[id], id.String())
			}

			assert.Equal(t, "2025-06-01", res.Labels(series.GDP)[td.window-1])
			assert.Nil(t, res.Labels(series.ID(99)))
		})
	}
}

func TestForecastAnchors(t *testing.T) {
	f, err := New(nil)
	require.Nil(t, err)
	res, err := f.Forecast(context.Background(), nil, setupObservations(72))
	require.Nil(t, err)

	require.NotNil(t, res.Series[series.CPI].Anchor)
	assert.Equal(t, 2.0, *res.Series[series.CPI].Anchor)
	require.NotNil(t, res.Series[series.NFCI].Anchor)
	assert.Equal(t, 0.0, *res.Series[series.NFCI].Anchor)
	assert.Nil(t, res.Series[series.GDP].Anchor)
	assert.Nil(t, res.Series[series.Unemployment].Anchor)
}

func TestForecastDeterministic(t *testing.T) {
	defer goleak.VerifyNone(t)

	obs := setupObservations(72)
	req := &Request{HorizonMonths: 18, WindowMonths: 48, Scenario: "reacceleration"}
	req.Shocks.NFCI = 0.5
	req.Shocks.FedFunds = -1

	run := func() []byte {
		f, err := New(nil)
		require.Nil(t, err)
		res, err := f.Forecast(context.Background(), req, obs)
		require.Nil(t, err)
		out, err := json.Marshal(res)
		require.Nil(t, err)
		return out
	}
	assert.Equal(t, string(run()), string(run()))
}

func TestForecastConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, err := New(nil)
	require.Nil(t, err)
	obs := setupObservations(120)
	req := &Request{HorizonMonths: 90, WindowMonths: 6, Scenario: "credit_tightening"}
	req.Shocks.FedFunds = 7

	runs := make([][]byte, 4)
	var g errgroup.Group
	for i := range runs {
		g.Go(func() error {
			res, err := f.Forecast(context.Background(), req, obs)
			if err != nil {
				return err
			}
			runs[i], err = json.Marshal(res)
			return err
		})
	}
	require.Nil(t, g.Wait())

	for i := 1; i < len(runs); i++ {
		assert.Equal(t, string(runs[0]), string(runs[i]))
	}

	// the shared request is clamped per forecast, never in place
	assert.Equal(t, 90, req.HorizonMonths)
	assert.Equal(t, 6, req.WindowMonths)
	assert.Equal(t, 7.0, req.Shocks.FedFunds)
}

func TestForecastSubnormalPriorYear(t *testing.T) {
	obs := setupObservations(72)
	cpi := obs[series.CPI]
	cpi.Y[len(cpi.Y)-13] = 1e-310

	f, err := New(nil)
	require.Nil(t, err)
	res, err := f.Forecast(context.Background(), &Request{WindowMonths: 24, HorizonMonths: 6}, obs)
	require.Nil(t, err)

	// the month compared against the subnormal level has no inflation value
	labels := res.Labels(series.CPI)
	require.Len(t, labels, 30)
	assert.Equal(t, "2025-05-01", labels[23])
	assert.Equal(t, "2025-06-01", labels[24])
	assert.Equal(t, timedataset.MonthRange(observationsEnd, 6), res.Simulations[series.CPI].Months)

	p := res.Series[series.CPI].Flatten()
	for i := range 24 {
		require.NotNil(t, p.History[i], i)
		assert.False(t, math.IsInf(*p.History[i], 0), i)
	}
	require.NotNil(t, p.Forecast[24])
}

func TestForecastInsufficientHistory(t *testing.T) {
	defer goleak.VerifyNone(t)

	var draws atomic.Int64
	opt := NewDefaultOptions()
	opt.SimulationOptions.NewGenerator = func(seed uint32) rng.Generator {
		draws.Add(1)
		return rng.NewMulberry32(seed)
	}
	f, err := New(opt)
	require.Nil(t, err)

	testData := map[string]struct {
		modify    func(obs map[series.ID]timedataset.Observations)
		series    series.ID
		available int
	}{
		"five months of unemployment": {
			modify: func(obs map[series.ID]timedataset.Observations) {
				months := timedataset.GenerateMonthlyT(5, observationsEnd)
				obs[series.Unemployment] = monthlyObservations(months, timedataset.GenerateConstY(5, 4))
			},
			series:    series.Unemployment,
			available: 5,
		},
		"no gdp": {
			modify: func(obs map[series.ID]timedataset.Observations) {
				delete(obs, series.GDP)
			},
			series:    series.GDP,
			available: 0,
		},
		"cpi year over year too short": {
			modify: func(obs map[series.ID]timedataset.Observations) {
				months := timedataset.GenerateMonthlyT(40, observationsEnd)
				obs[series.CPI] = monthlyObservations(months, timedataset.GenerateLinearY(40, 300, 1))
			},
			series:    series.CPI,
			available: 28,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			obs := setupObservations(72)
			td.modify(obs)

			_, err := f.Forecast(context.Background(), &Request{WindowMonths: 36, HorizonMonths: 12}, obs)
			require.ErrorIs(t, err, ErrInsufficientHistory)

			var ihErr *InsufficientHistoryError
			require.True(t, errors.As(err, &ihErr))
			assert.Equal(t, td.series, ihErr.Series)
			assert.Equal(t, td.available, ihErr.Available)
			assert.Equal(t, 38, ihErr.Required)
			assert.Contains(t, err.Error(), td.series.String())

			assert.Equal(t, int64(0), draws.Load())
		})
	}
}

func TestForecastCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, err := New(nil)
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Forecast(ctx, nil, setupObservations(72))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForecastUninitialized(t *testing.T) {
	var f *Forecaster
	_, err := f.Forecast(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestResultsMarshalJSON(t *testing.T) {
	f, err := New(nil)
	require.Nil(t, err)
	res, err := f.Forecast(context.Background(), &Request{Year: 2027, HorizonMonths: 6, WindowMonths: 24}, setupObservations(72))
	require.Nil(t, err)

	out, err := json.Marshal(res)
	require.Nil(t, err)

	var decoded struct {
		Updated string         `json:"updated"`
		Params  map[string]any `json:"params"`
		Series  map[string]struct {
			Labels      []string   `json:"labels"`
			History     []*float64 `json:"history"`
			Forecast    []*float64 `json:"forecast"`
			Lower       []*float64 `json:"p10_forecast"`
			Upper       []*float64 `json:"p90_forecast"`
			Anchor      *float64   `json:"anchor"`
			Latest      *float64   `json:"latest"`
			Diagnostics struct {
				Drift   float64 `json:"drift"`
				BaseVol float64 `json:"baseVol"`
				VolMult float64 `json:"volMult"`
				Fit     *struct {
					MSE float64 `json:"mse"`
					R2  float64 `json:"r2"`
				} `json:"fit"`
			} `json:"diagnostics"`
		} `json:"series"`
	}
	require.Nil(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "2025-06-01", decoded.Updated)
	assert.Equal(t, 2027.0, decoded.Params["year"])
	assert.Equal(t, 6.0, decoded.Params["horizonMonths"])
	assert.Equal(t, 24.0, decoded.Params["windowMonths"])
	assert.Equal(t, "baseline", decoded.Params["scenario"])
	assert.Equal(t, map[string]any{"nfci": 0.0, "ff": 0.0}, decoded.Params["shocks"])

	for _, key := range []string{"cpi", "unemployment", "fedFunds", "industrialProduction", "gdp", "fci"} {
		s, exists := decoded.Series[key]
		require.True(t, exists, key)
		assert.Len(t, s.Labels, 30, key)
		assert.Nil(t, s.History[29], key)
		assert.Nil(t, s.Forecast[0], key)
		assert.Greater(t, s.Diagnostics.VolMult, 0.0, key)
		require.NotNil(t, s.Diagnostics.Fit, key)
		assert.GreaterOrEqual(t, s.Diagnostics.Fit.MSE, 0.0, key)
		assert.LessOrEqual(t, s.Diagnostics.Fit.R2, 1.0, key)
	}
	// financial conditions below zero leave volatility unscaled under the baseline
	assert.Equal(t, 1.0, decoded.Series["unemployment"].Diagnostics.VolMult)
}

func TestResultsTablePrint(t *testing.T) {
	f, err := New(nil)
	require.Nil(t, err)
	res, err := f.Forecast(context.Background(), nil, setupObservations(72))
	require.Nil(t, err)

	summaries := res.Summaries()
	require.Len(t, summaries, len(series.All()))
	for i, id := range series.All() {
		assert.Equal(t, id, summaries[i].Series)
		assert.NotEqual(t, assemble.Mixed, summaries[i].Trend, id.String())
	}

	var buf bytes.Buffer
	require.Nil(t, res.TablePrint(&buf))
	for _, id := range series.All() {
		assert.Contains(t, buf.String(), id.String())
	}
}
