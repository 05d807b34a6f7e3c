// Package assemble stitches a windowed history and its forecast onto one contiguous monthly
// label axis and flattens the result into null padded arrays at the response boundary.
package assemble

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-macroforecaster/montecarlo"
	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/aouyang1/go-macroforecaster/timedataset"
)

var (
	ErrEmptyHistory    = errors.New("no history to assemble")
	ErrInvalidWindow   = errors.New("window must be at least one month")
	ErrInvalidHorizon  = errors.New("horizon must be at least one month")
	ErrHorizonMismatch = errors.New("forecast length does not match horizon")
	ErrMonthMismatch   = errors.New("forecast does not start the month after the window")
)

// Kind tags a point on the label axis
type Kind uint8

const (
	Missing Kind = iota
	Known
	Forecast
)

func (k Kind) String() string {
	switch k {
	case Known:
		return "known"
	case Forecast:
		return "forecast"
	default:
		return "missing"
	}
}

// Point is one month of an assembled series. Value is set for Known and Forecast points,
// Lower and Upper only for Forecast points.
type Point struct {
	Month time.Time
	Kind  Kind
	Value float64
	Lower float64
	Upper float64
}

// Series is a history window followed by a forecast horizon, one point per calendar month
type Series struct {
	ID      series.ID
	Window  int
	Horizon int
	Points  []Point

	// Anchor is an optional reference level drawn alongside the series, e.g. an inflation target
	Anchor *float64

	Diagnostics montecarlo.Diagnostics
}

// New lays out window+horizon contiguous months ending horizon months after the last month of
// td. The first window months carry td's values where present and are Missing otherwise; the
// horizon stays Missing until a forecast is attached.
func New(id series.ID, td *timedataset.TimeDataset, window, horizon int) (*Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("got %d, %w", window, ErrInvalidWindow)
	}
	if horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", horizon, ErrInvalidHorizon)
	}
	last, _, ok := td.Last()
	if !ok {
		return nil, fmt.Errorf("%s, %w", id, ErrEmptyHistory)
	}

	lookup := make(map[time.Time]float64, td.Len())
	for i, t := range td.T {
		lookup[timedataset.MonthStart(t)] = td.Y[i]
	}
	months := timedataset.MonthRange(timedataset.AddMonths(last, -(window-1)), window+horizon)
	points := make([]Point, len(months))
	for i, month := range months {
		points[i].Month = month
		if i >= window {
			continue
		}
		if v, exists := lookup[month]; exists && !math.IsNaN(v) && !math.IsInf(v, 0) {
			points[i].Kind = Known
			points[i].Value = v
		}
	}

	return &Series{
		ID:      id,
		Window:  window,
		Horizon: horizon,
		Points:  points,
	}, nil
}

// Labels returns the month of every point
func (s *Series) Labels() []time.Time {
	res := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		res[i] = p.Month
	}
	return res
}

// Clean returns the Known history points in order as a dataset. Missing months are absent.
func (s *Series) Clean() (*timedataset.TimeDataset, error) {
	window := s.Points[:s.Window]
	labels := make([]time.Time, len(window))
	values := make([]float64, len(window))
	for i, p := range window {
		labels[i] = p.Month
		values[i] = math.NaN()
		if p.Kind == Known {
			values[i] = p.Value
		}
	}
	td, err := timedataset.NewUnivariateDataset(labels, values)
	if err != nil {
		return nil, fmt.Errorf("unable to build %s history, %w", s.ID, err)
	}
	return td.DropNan(), nil
}

// Start returns the first horizon month
func (s *Series) Start() time.Time {
	return s.Points[s.Window].Month
}

// Attach places a forecast on the horizon points
func (s *Series) Attach(res *montecarlo.Result) error {
	if len(res.Mean) != s.Horizon || len(res.Lower) != s.Horizon || len(res.Upper) != s.Horizon {
		return fmt.Errorf(
			"%s has horizon %d, but forecast has length %d, %w",
			s.ID, s.Horizon, len(res.Mean), ErrHorizonMismatch,
		)
	}
	if len(res.Months) > 0 && !res.Months[0].Equal(s.Start()) {
		return fmt.Errorf(
			"%s forecast starts %s, expected %s, %w",
			s.ID, timedataset.FormatMonth(res.Months[0]), timedataset.FormatMonth(s.Start()),
			ErrMonthMismatch,
		)
	}

	for i := range s.Horizon {
		p := &s.Points[s.Window+i]
		p.Kind = Forecast
		p.Value = res.Mean[i]
		p.Lower = res.Lower[i]
		p.Upper = res.Upper[i]
	}
	s.Diagnostics = res.Diagnostics
	return nil
}

// Latest returns the last Known history value
func (s *Series) Latest() (float64, bool) {
	for i := s.Window - 1; i >= 0; i-- {
		if s.Points[i].Kind == Known {
			return s.Points[i].Value, true
		}
	}
	return 0, false
}

// End returns the last Forecast point
func (s *Series) End() (Point, bool) {
	for i := len(s.Points) - 1; i >= s.Window; i-- {
		if s.Points[i].Kind == Forecast {
			return s.Points[i], true
		}
	}
	return Point{}, false
}
