package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aouyang1/go-macroforecaster/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables := NewDefaultTables()
	require.Nil(t, tables.Validate())

	for _, name := range Names() {
		_, exists := tables.Scenarios[name]
		assert.True(t, exists, string(name))
	}
	for _, id := range series.All() {
		_, exists := tables.Sensitivities[id]
		assert.True(t, exists, id.String())
		for _, name := range Names() {
			assert.GreaterOrEqual(t, tables.Scenarios[name].Tilt(id), 0.0)
		}
	}

	ct := tables.Scenarios[CreditTightening]
	assert.Greater(t, ct.Tilt(series.Unemployment), 1.0)
	assert.Less(t, ct.Tilt(series.IndustrialProduction), 1.0)
}

func TestLoadTables(t *testing.T) {
	testData := map[string]struct {
		input string
		check func(t *testing.T, tables *Tables)
		err   error
	}{
		"empty override keeps defaults": {
			input: `{}`,
			check: func(t *testing.T, tables *Tables) {
				assert.Equal(t, NewDefaultTables(), tables)
			},
		},
		"override a scenario and a bound": {
			input: `{
				"scenarios": {"stagflation": {"drift_multiplier": 0.5, "volatility_multiplier": 1.5, "tilts": {"CPI": 1.4}}},
				"bounds": {"UNRATE": {"floor": 3, "ceiling": 12}},
				"state_noise": {"slope": 0.3, "cap": 0.5}
			}`,
			check: func(t *testing.T, tables *Tables) {
				cfg, exists := tables.Scenarios["stagflation"]
				require.True(t, exists)
				assert.Equal(t, 1.4, cfg.Tilt(series.CPI))
				assert.Equal(t, 1.0, cfg.Tilt(series.GDP))
				assert.Equal(t, series.Bounds{Floor: 3, Ceiling: 12}, tables.BoundsFor(series.Unemployment))
				assert.Equal(t, series.Bounds{Floor: 0, Ceiling: 10}, tables.BoundsFor(series.FedFunds))
				assert.Equal(t, StateNoise{Slope: 0.3, Cap: 0.5}, tables.StateNoise)
				_, exists = tables.Scenarios[Baseline]
				assert.True(t, exists)
			},
		},
		"negative tilt": {
			input: `{"scenarios": {"baseline": {"drift_multiplier": 1, "volatility_multiplier": 1, "tilts": {"GDP": -1}}}}`,
			err:   ErrNegativeTilt,
		},
		"inverted bounds": {
			input: `{"bounds": {"GDP": {"floor": 5, "ceiling": 1}}}`,
			err:   ErrInvalidBounds,
		},
		"negative multiplier": {
			input: `{"scenarios": {"baseline": {"drift_multiplier": -1, "volatility_multiplier": 1}}}`,
			err:   ErrNegativeMultiplier,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tables, err := LoadTables(strings.NewReader(td.input))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			td.check(t, tables)
		})
	}

	_, err := LoadTables(strings.NewReader(`{"bounds": {"M2SL": {"floor": 1, "ceiling": 2}}}`))
	assert.Error(t, err)
}

func TestTablesTablePrint(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, NewDefaultTables().TablePrint(&buf))

	out := buf.String()
	for _, name := range Names() {
		assert.Contains(t, out, string(name))
	}
	for _, id := range series.All() {
		assert.Contains(t, out, id.String())
	}
	assert.Contains(t, out, "1.25")
}
