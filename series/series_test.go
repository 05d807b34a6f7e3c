package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected ID
		err      error
	}{
		"code":        {input: "UNRATE", expected: Unemployment},
		"key":         {input: "industrialProduction", expected: IndustrialProduction},
		"capitalized": {input: "Fci", expected: NFCI},
		"padded":      {input: " gdp ", expected: GDP},
		"unknown":     {input: "M2SL", err: ErrUnknownSeries},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			id, err := Parse(td.input)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, id)
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, id := range All() {
		out, err := id.MarshalText()
		require.Nil(t, err)

		var parsed ID
		require.Nil(t, parsed.UnmarshalText(out))
		assert.Equal(t, id, parsed)
	}

	_, err := ID(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownSeries)
}

func TestBoundsClamp(t *testing.T) {
	b := Bounds{Floor: 2, Ceiling: 15}
	testData := map[string]struct {
		input    float64
		expected float64
	}{
		"inside":      {input: 4.2, expected: 4.2},
		"below floor": {input: -1, expected: 2},
		"above ceil":  {input: 22, expected: 15},
		"nan":         {input: math.NaN(), expected: 2},
		"inf":         {input: math.Inf(1), expected: 2},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := b.Clamp(td.input)
			assert.Equal(t, td.expected, res)
			assert.True(t, b.Contains(res))
		})
	}

	assert.Equal(t, 123.4, Unbounded().Clamp(123.4))
	assert.False(t, Bounds{Floor: 3, Ceiling: 1}.Valid())
}

func TestDefaultBoundsCoverAll(t *testing.T) {
	bounds := DefaultBounds()
	for _, id := range All() {
		b, exists := bounds[id]
		require.True(t, exists, id.String())
		assert.True(t, b.Valid(), id.String())
	}
}
