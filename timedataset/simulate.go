package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateMonthlyT returns n contiguous month starts ending with the month of end
func GenerateMonthlyT(n int, end time.Time) []time.Time {
	return MonthRange(AddMonths(end, -(n - 1)), n)
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Cumulative turns a series of monthly changes into levels
func (s Series) Cumulative() Series {
	floats.CumSum(s, s)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLinearY generates a straight line starting at start and moving slope per point
func GenerateLinearY(n int, start, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, start+slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY generates an annual sine wave keyed by the calendar month of each point,
// peaking at peakMonth (0 for January).
func GenerateSeasonalY(t []time.Time, amp float64, peakMonth int) Series {
	y := make([]float64, 0, len(t))
	for _, tPnt := range t {
		phase := 2.0 * math.Pi * float64(MonthIndex(tPnt)-peakMonth) / MonthsPerYear
		y = append(y, amp*math.Cos(phase))
	}
	return Series(y)
}

// GenerateNoise generates reproducible gaussian noise for a given seed
func GenerateNoise(n int, scale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateChange generates a level shift of bias plus slope per month on and after chpt
func GenerateChange(t []time.Time, chpt time.Time, bias, slope float64) Series {
	n := len(t)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if t[i].After(chpt) || t[i].Equal(chpt) {
			months := (t[i].Year()-chpt.Year())*MonthsPerYear + int(t[i].Month()-chpt.Month())
			y[i] = bias + slope*float64(months)
		}
	}
	return Series(y)
}
