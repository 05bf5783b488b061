package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNaN(t *testing.T, values []float64, indexes ...int) {
	t.Helper()
	for _, i := range indexes {
		assert.True(t, math.IsNaN(values[i]), "index %d should be warm-up padding, got %v", i, values[i])
	}
}

func TestSMA_Window(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, out, 5)
	assertNaN(t, out, 0, 1)
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestSMA_ShortSeries(t *testing.T) {
	out := SMA([]float64{1, 2}, 3)
	require.Len(t, out, 2)
	assertNaN(t, out, 0, 1)
}

func TestSMA_MatchesNaiveMean(t *testing.T) {
	values := []float64{3.5, 1.2, 8.9, 4.4, 0.1, 7.7, 2.3, 9.9, 5.5, 6.6}
	period := 4
	out := SMA(values, period)
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		assert.InDelta(t, sum/float64(period), out[i], 1e-9, "index %d", i)
	}
}

func TestEMA_Recurrence(t *testing.T) {
	out := EMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, out, 5)
	assertNaN(t, out, 0, 1)
	// Seeded with the SMA of the first three values, k = 0.5.
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestEMA_ConstantSeries(t *testing.T) {
	out := EMA([]float64{7, 7, 7, 7, 7, 7}, 4)
	for i := 3; i < len(out); i++ {
		assert.InDelta(t, 7.0, out[i], 1e-9)
	}
}

func TestWMA_RecentWeightedHighest(t *testing.T) {
	out := WMA([]float64{1, 2, 3, 4, 5}, 3)
	assertNaN(t, out, 0, 1)
	// (1*1 + 2*2 + 3*3) / 6
	assert.InDelta(t, 14.0/6.0, out[2], 1e-9)
	// (3*1 + 4*2 + 5*3) / 6
	assert.InDelta(t, 26.0/6.0, out[4], 1e-9)
}

func TestMomentum_Difference(t *testing.T) {
	out := Momentum([]float64{1, 3, 6, 10}, 2)
	assertNaN(t, out, 0, 1)
	assert.InDelta(t, 5.0, out[2], 1e-9)
	assert.InDelta(t, 7.0, out[3], 1e-9)
}

func TestIndicators_ZeroPeriodIsAllPadding(t *testing.T) {
	values := []float64{1, 2, 3}
	for _, out := range [][]float64{SMA(values, 0), EMA(values, 0), WMA(values, 0), Momentum(values, 0)} {
		require.Len(t, out, 3)
		assertNaN(t, out, 0, 1, 2)
	}
}
