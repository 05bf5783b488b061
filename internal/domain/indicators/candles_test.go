package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/signalrun/internal/domain/series"
)

func TestElderRay_PowerAroundEMA(t *testing.T) {
	n := 6
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 103
		lows[i] = 97
		closes[i] = 100
	}
	res := ElderRay(bars(closes, highs, lows, closes), 3)
	assertNaN(t, res.Bull, 0, 1)
	for i := 2; i < n; i++ {
		assert.InDelta(t, 3.0, res.Bull[i], 1e-9)
		assert.InDelta(t, -3.0, res.Bear[i], 1e-9)
	}
}

func TestHeikinAshi_Recurrence(t *testing.T) {
	candles := []series.Candle{
		{Time: 1000, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: 2000, Open: 11, High: 14, Low: 10, Close: 13, Volume: 200},
	}
	out := HeikinAshi(candles)
	require.Len(t, out, 2)

	// First bar: open = (o+c)/2, close = ohlc/4.
	assert.InDelta(t, 10.5, out[0].Open, 1e-9)
	assert.InDelta(t, 10.5, out[0].Close, 1e-9)

	// Second bar opens at the midpoint of the prior HA bar.
	assert.InDelta(t, 10.5, out[1].Open, 1e-9)
	assert.InDelta(t, 12.0, out[1].Close, 1e-9)
	assert.InDelta(t, 14.0, out[1].High, 1e-9)
	assert.InDelta(t, 10.0, out[1].Low, 1e-9)

	// Time and volume carry over.
	assert.Equal(t, int64(2000), out[1].Time)
	assert.Equal(t, 200.0, out[1].Volume)
}

func TestHeikinAshi_HighCoversBody(t *testing.T) {
	// A gap-down bar whose raw high sits below the prior HA open.
	candles := []series.Candle{
		{Time: 1000, Open: 100, High: 110, Low: 95, Close: 108},
		{Time: 2000, Open: 80, High: 85, Low: 75, Close: 78},
	}
	out := HeikinAshi(candles)
	assert.GreaterOrEqual(t, out[1].High, out[1].Open)
	assert.LessOrEqual(t, out[1].Low, out[1].Close)
}

func TestPivotPoints_UsesPriorWindowOnly(t *testing.T) {
	highs := []float64{12, 14, 13, 100}
	lows := []float64{8, 9, 10, 50}
	closes := []float64{10, 12, 11, 90}
	res := PivotPoints(bars(closes, highs, lows, closes), 3)
	assertNaN(t, res.Pivot, 0, 2)

	// Index 3 uses bars 0..2: high 14, low 8, close 11. The current
	// bar's spike must not leak in.
	pivot := (14.0 + 8.0 + 11.0) / 3.0
	assert.InDelta(t, pivot, res.Pivot[3], 1e-9)
	assert.InDelta(t, 2*pivot-8, res.R1[3], 1e-9)
	assert.InDelta(t, 2*pivot-14, res.S1[3], 1e-9)
	assert.InDelta(t, pivot+6, res.R2[3], 1e-9)
	assert.InDelta(t, pivot-6, res.S2[3], 1e-9)
}
