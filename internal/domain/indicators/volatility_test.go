package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrueRange_GapsCountAgainstPriorClose(t *testing.T) {
	highs := []float64{10, 11, 15}
	lows := []float64{9, 10, 14}
	closes := []float64{9.5, 10.5, 14.5}
	out := TrueRange(bars(closes, highs, lows, closes))
	assertNaN(t, out, 0)
	assert.InDelta(t, 1.5, out[1], 1e-9) // |11 - 9.5|
	assert.InDelta(t, 4.5, out[2], 1e-9) // |15 - 10.5| dominates the 1.0 bar range
}

func TestATR_ConstantRange(t *testing.T) {
	n := 10
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 11
		lows[i] = 9
		closes[i] = 10
	}
	out := ATR(bars(closes, highs, lows, closes), 3)
	assertNaN(t, out, 0, 1, 2)
	for i := 3; i < n; i++ {
		assert.InDelta(t, 2.0, out[i], 1e-9, "index %d", i)
	}
}

func TestATR_WilderSmoothing(t *testing.T) {
	// True ranges after index 0 are all 2 except a 6 spike at index 4.
	highs := []float64{11, 11, 11, 11, 15, 11, 11}
	lows := []float64{9, 9, 9, 9, 9, 9, 9}
	closes := []float64{10, 10, 10, 10, 10, 10, 10}
	out := ATR(bars(closes, highs, lows, closes), 3)
	assert.InDelta(t, 2.0, out[3], 1e-9)
	// Wilder: atr[4] = atr[3]*2/3 + 6/3
	assert.InDelta(t, 2.0*2.0/3.0+2.0, out[4], 1e-9)
	assert.Less(t, out[5], out[4], "spike should decay")
}

func TestBollinger_PopulationDeviation(t *testing.T) {
	res := Bollinger([]float64{2, 4, 6}, 3, 2.0)
	require.Len(t, res.Middle, 3)
	assertNaN(t, res.Middle, 0, 1)
	assert.InDelta(t, 4.0, res.Middle[2], 1e-9)
	sd := math.Sqrt(8.0 / 3.0)
	assert.InDelta(t, 4.0+2.0*sd, res.Upper[2], 1e-9)
	assert.InDelta(t, 4.0-2.0*sd, res.Lower[2], 1e-9)
}

func TestBollinger_FlatSeriesCollapses(t *testing.T) {
	res := Bollinger([]float64{5, 5, 5, 5}, 3, 2.0)
	for i := 2; i < 4; i++ {
		assert.InDelta(t, 5.0, res.Upper[i], 1e-9)
		assert.InDelta(t, 5.0, res.Middle[i], 1e-9)
		assert.InDelta(t, 5.0, res.Lower[i], 1e-9)
	}
}

func TestKeltner_ValidFromATRWarmup(t *testing.T) {
	n := 8
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 102
		lows[i] = 98
		closes[i] = 100
	}
	res := Keltner(bars(closes, highs, lows, closes), 3, 2.0)
	// EMA is valid from index 2 but ATR only from index 3.
	assertNaN(t, res.Upper, 0, 1, 2)
	for i := 3; i < n; i++ {
		assert.InDelta(t, 108.0, res.Upper[i], 1e-9) // 100 + 2*4
		assert.InDelta(t, 100.0, res.Middle[i], 1e-9)
		assert.InDelta(t, 92.0, res.Lower[i], 1e-9)
	}
}

func TestDonchian_TracksExtremes(t *testing.T) {
	highs := []float64{10, 12, 11, 15, 13}
	lows := []float64{8, 9, 7, 10, 11}
	closes := []float64{9, 11, 10, 14, 12}
	res := Donchian(bars(closes, highs, lows, closes), 3)
	assertNaN(t, res.Upper, 0, 1)
	assert.InDelta(t, 12.0, res.Upper[2], 1e-9)
	assert.InDelta(t, 7.0, res.Lower[2], 1e-9)
	assert.InDelta(t, 9.5, res.Middle[2], 1e-9)
	assert.InDelta(t, 15.0, res.Upper[3], 1e-9)
	assert.InDelta(t, 7.0, res.Lower[4], 1e-9)
}
