package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_FlatSeriesIsZero(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 25.0
	}
	res := MACD(values, 12, 26, 9)
	require.Len(t, res.MACD, 40)
	for i := 26; i < 40; i++ {
		assert.InDelta(t, 0.0, res.MACD[i], 1e-9, "macd index %d", i)
	}
	for i := range res.Signal {
		if !math.IsNaN(res.Signal[i]) {
			assert.InDelta(t, 0.0, res.Signal[i], 1e-9)
			assert.InDelta(t, 0.0, res.Histogram[i], 1e-9)
		}
	}
}

func TestMACD_Alignment(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100 + float64(i) + 3*math.Sin(float64(i)/3)
	}
	res := MACD(values, 5, 10, 4)
	// MACD line valid once the slow EMA is, at index 9; the signal line
	// needs 4 valid MACD values, so it starts at index 12.
	assertNaN(t, res.MACD, 0, 8)
	assert.False(t, math.IsNaN(res.MACD[9]))
	assertNaN(t, res.Signal, 9, 11)
	assert.False(t, math.IsNaN(res.Signal[12]))
	for i := 12; i < 40; i++ {
		assert.InDelta(t, res.MACD[i]-res.Signal[i], res.Histogram[i], 1e-9, "index %d", i)
	}
}

func TestMACD_UptrendIsPositive(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(10 + i*2)
	}
	res := MACD(values, 5, 10, 4)
	// A steady rise keeps the fast EMA above the slow EMA.
	for i := 15; i < 40; i++ {
		assert.Greater(t, res.MACD[i], 0.0, "index %d", i)
	}
}
