package assemble

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/aouyang1/go-macroforecaster/series"
)

// FlatThreshold is the absolute change below which a forecast is reported as roughly flat
const FlatThreshold = 0.05

// Trend labels the direction from the latest value to the end of the mean forecast
type Trend string

const (
	Rising  Trend = "rising"
	Falling Trend = "falling"
	Flat    Trend = "roughly flat"
	Mixed   Trend = "mixed"
)

// TrendOf labels the change from a to b, Mixed if it is not finite
func TrendOf(a, b float64) Trend {
	d := b - a
	switch {
	case math.IsNaN(d) || math.IsInf(d, 0):
		return Mixed
	case math.Abs(d) < FlatThreshold:
		return Flat
	case d > 0:
		return Rising
	default:
		return Falling
	}
}

// Summary is the numeric readout of one assembled series, computed on reported values
type Summary struct {
	Series  series.ID `json:"series"`
	Latest  *float64  `json:"latest"`
	EndMean *float64  `json:"endMean"`
	Delta   *float64  `json:"delta"`
	Band    *float64  `json:"band"`
	Trend   Trend     `json:"trend"`
}

// Summary reads out the latest value, the end of the mean forecast, the change between them
// and the width of the final band
func (s *Series) Summary() Summary {
	sum := Summary{Series: s.ID, Trend: Mixed}
	if latest, ok := s.Latest(); ok {
		sum.Latest = rounded(latest)
	}
	if end, ok := s.End(); ok {
		sum.EndMean = rounded(end.Value)
		if lo, hi := rounded(end.Lower), rounded(end.Upper); lo != nil && hi != nil {
			sum.Band = rounded(*hi - *lo)
		}
	}
	if sum.Latest != nil && sum.EndMean != nil {
		sum.Delta = rounded(*sum.EndMean - *sum.Latest)
		sum.Trend = TrendOf(*sum.Latest, *sum.EndMean)
	}
	return sum
}

// TablePrint writes one row per summary
func TablePrint(w io.Writer, summaries []Summary) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "Series\tLatest\tEnd Mean\tDelta\tBand\tTrend\t\n"); err != nil {
		return err
	}
	for _, s := range summaries {
		if _, err := fmt.Fprintf(tbl, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Series, format(s.Latest), format(s.EndMean), format(s.Delta), format(s.Band), s.Trend,
		); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func format(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
