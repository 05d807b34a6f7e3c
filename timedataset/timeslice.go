package timedataset

import (
	"math"
	"time"
)

// TimeSlice is an ordered set of observation times
type TimeSlice []time.Time

// EstimateFreq returns the most common interval between consecutive points, preferring the
// shorter interval on ties.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// InferFrequency classifies the dominant sampling interval as sub-monthly, monthly or
// quarterly.
func (t TimeSlice) InferFrequency() (Frequency, error) {
	delta, err := t.EstimateFreq()
	if err != nil {
		return FrequencyAuto, err
	}
	days := delta.Hours() / 24
	switch {
	case days < 27:
		return FrequencySubMonthly, nil
	case days > 80:
		return FrequencyQuarterly, nil
	default:
		return FrequencyMonthly, nil
	}
}
