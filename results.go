package forecaster

import (
	"io"
	"time"

	"github.com/aouyang1/go-macroforecaster/assemble"
	"github.com/aouyang1/go-macroforecaster/montecarlo"
	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/aouyang1/go-macroforecaster/timedataset"
	"github.com/goccy/go-json"
)

// Results are the assembled forecasts of every series along with the request that produced
// them
type Results struct {
	// Updated is the date of the latest CPI observation, nil without CPI observations
	Updated *time.Time
	Params  *Request
	Series  map[series.ID]*assemble.Series

	// Simulations carries the full simulation output including the decomposition of each series
	Simulations map[series.ID]*montecarlo.Result
}

type resultsJSON struct {
	Updated *string                     `json:"updated"`
	Params  *Request                    `json:"params"`
	Series  map[string]*assemble.Series `json:"series"`
}

// MarshalJSON encodes the results with each series keyed by its response name
func (r *Results) MarshalJSON() ([]byte, error) {
	out := resultsJSON{
		Params: r.Params,
		Series: make(map[string]*assemble.Series, len(r.Series)),
	}
	if r.Updated != nil {
		updated := r.Updated.Format(time.DateOnly)
		out.Updated = &updated
	}
	for id, s := range r.Series {
		out.Series[id.Key()] = s
	}
	return json.Marshal(out)
}

// Summaries returns the readout of every series in canonical order
func (r *Results) Summaries() []assemble.Summary {
	res := make([]assemble.Summary, 0, len(r.Series))
	for _, id := range series.All() {
		if s, exists := r.Series[id]; exists {
			res = append(res, s.Summary())
		}
	}
	return res
}

// Labels returns the shared label axis of the forecast of a series
func (r *Results) Labels(id series.ID) []string {
	s, exists := r.Series[id]
	if !exists {
		return nil
	}
	labels := s.Labels()
	res := make([]string, len(labels))
	for i, l := range labels {
		res[i] = timedataset.FormatMonth(l)
	}
	return res
}

// TablePrint writes the readout of every series
func (r *Results) TablePrint(w io.Writer) error {
	return assemble.TablePrint(w, r.Summaries())
}
