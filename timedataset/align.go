package timedataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidDate      = errors.New("invalid observation date")
	ErrUnknownFrequency = errors.New("unknown frequency")
)

// Frequency describes how often a raw series is reported and therefore how it is folded onto
// a monthly grid.
type Frequency int

const (
	FrequencyAuto Frequency = iota
	FrequencySubMonthly
	FrequencyMonthly
	FrequencyQuarterly
)

func (f Frequency) String() string {
	switch f {
	case FrequencyAuto:
		return "auto"
	case FrequencySubMonthly:
		return "sub_monthly"
	case FrequencyMonthly:
		return "monthly"
	case FrequencyQuarterly:
		return "quarterly"
	}
	return fmt.Sprintf("frequency(%d)", int(f))
}

// Observations are raw (date, value) pairs as reported by a data provider. Dates may carry any
// day of month, may repeat within a month, and values may be NaN for missing prints.
type Observations struct {
	T []time.Time
	Y []float64
}

// NewObservations pairs dates with values without imposing any ordering.
func NewObservations(t []time.Time, y []float64) (Observations, error) {
	if len(t) != len(y) {
		return Observations{}, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}
	return Observations{T: t, Y: y}, nil
}

// ParseObservations builds observations from ISO 8601 dates and nullable values. A nil value
// is a missing print and is carried as NaN.
func ParseObservations(dates []string, values []*float64) (Observations, error) {
	if len(dates) != len(values) {
		return Observations{}, fmt.Errorf(
			"dates has length of %d, but values has a length of %d, %w",
			len(dates), len(values), ErrDatasetLenMismatch,
		)
	}
	obs := Observations{
		T: make([]time.Time, 0, len(dates)),
		Y: make([]float64, 0, len(values)),
	}
	for i, d := range dates {
		t, err := parseDate(d)
		if err != nil {
			return Observations{}, fmt.Errorf("at %d, %w", i, err)
		}
		v := math.NaN()
		if values[i] != nil {
			v = *values[i]
		}
		obs.T = append(obs.T, t)
		obs.Y = append(obs.Y, v)
	}
	return obs, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrInvalidDate)
}

// Len returns the number of raw observations
func (o Observations) Len() int {
	return len(o.T)
}

// LastDate returns the latest date carrying a finite value
func (o Observations) LastDate() (time.Time, bool) {
	var last time.Time
	var found bool
	for _, p := range o.finite() {
		if !found || p.t.After(last) {
			last = p.t
			found = true
		}
	}
	return last, found
}

// Align folds the observations onto a monthly grid using the strategy for the given frequency.
// FrequencyAuto infers the frequency from the dominant interval between finite observations.
func (o Observations) Align(freq Frequency) (*TimeDataset, error) {
	if freq == FrequencyAuto {
		finite := o.finite()
		sort.Slice(finite, func(i, j int) bool { return finite[i].t.Before(finite[j].t) })
		ts := make(TimeSlice, 0, len(finite))
		for _, p := range finite {
			ts = append(ts, p.t)
		}
		inferred, err := ts.InferFrequency()
		if err != nil {
			inferred = FrequencyMonthly
		}
		freq = inferred
	}

	switch freq {
	case FrequencySubMonthly:
		return o.MonthlyAverage(), nil
	case FrequencyMonthly:
		return o.MonthlyAligned(), nil
	case FrequencyQuarterly:
		return o.QuarterlyStepFill(), nil
	}
	return nil, fmt.Errorf("%s, %w", freq, ErrUnknownFrequency)
}

type point struct {
	t time.Time
	y float64
}

func (o Observations) finite() []point {
	pnts := make([]point, 0, len(o.T))
	for i := 0; i < len(o.T) && i < len(o.Y); i++ {
		if math.IsNaN(o.Y[i]) || math.IsInf(o.Y[i], 0) {
			continue
		}
		pnts = append(pnts, point{t: o.T[i], y: o.Y[i]})
	}
	return pnts
}

// MonthlyAligned truncates every observation to its month and keeps the last value seen for
// each month.
func (o Observations) MonthlyAligned() *TimeDataset {
	byMonth := make(map[time.Time]float64)
	for _, p := range o.finite() {
		byMonth[MonthStart(p.t)] = p.y
	}
	return fromMonthMap(byMonth)
}

// MonthlyAverage averages every observation falling within a month. Months without any
// observation are absent from the result.
func (o Observations) MonthlyAverage() *TimeDataset {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, p := range o.finite() {
		m := MonthStart(p.t)
		sums[m] += p.y
		counts[m]++
	}
	for m, cnt := range counts {
		sums[m] /= float64(cnt)
	}
	return fromMonthMap(sums)
}

// QuarterlyStepFill spreads each quarterly value across the three months ending with the
// reported month. Later quarters overwrite earlier ones where months collide.
func (o Observations) QuarterlyStepFill() *TimeDataset {
	byMonth := make(map[time.Time]float64)
	for _, p := range o.finite() {
		m := MonthStart(p.t)
		for back := 2; back >= 0; back-- {
			byMonth[AddMonths(m, -back)] = p.y
		}
	}
	return fromMonthMap(byMonth)
}

func fromMonthMap(byMonth map[time.Time]float64) *TimeDataset {
	td := &TimeDataset{
		T: make([]time.Time, 0, len(byMonth)),
		Y: make([]float64, 0, len(byMonth)),
	}
	for m := range byMonth {
		td.T = append(td.T, m)
	}
	sort.Slice(td.T, func(i, j int) bool { return td.T[i].Before(td.T[j]) })
	for _, m := range td.T {
		td.Y = append(td.Y, byMonth[m])
	}
	return td
}
