package timedataset

import (
	"time"

	"github.com/rickar/cal/v2"
)

// MonthsPerYear is the number of calendar months in a year
const MonthsPerYear = 12

// MonthStart truncates t to midnight UTC on the first day of its calendar month.
func MonthStart(t time.Time) time.Time {
	return cal.DayStart(cal.MonthStart(t.UTC()))
}

// AddMonths shifts a month start by n calendar months
func AddMonths(month time.Time, n int) time.Time {
	m := MonthStart(month)
	return time.Date(m.Year(), m.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// MonthIndex returns the zero based calendar month of t, 0 for January through 11 for December
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// MonthRange returns n contiguous month starts beginning at start
func MonthRange(start time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	months := make([]time.Time, 0, n)
	first := MonthStart(start)
	for i := 0; i < n; i++ {
		months = append(months, AddMonths(first, i))
	}
	return months
}

// FormatMonth renders a month start as an ISO 8601 date
func FormatMonth(t time.Time) string {
	return MonthStart(t).Format(time.DateOnly)
}
