package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wiggle is a quiet alternating prefix that stays inside 2 standard
// deviations of its own rolling mean.
var wiggle = []float64{10.1, 9.9, 10.1, 9.9, 10.1, 9.9, 10.1, 9.9, 10.1, 9.9}

func TestMeanReversion_BuyAtLowerBand(t *testing.T) {
	closes := append(append([]float64{}, wiggle...), 5, 4.9)
	candles := priceBars(closes...)
	out := MeanReversion{}.Calculate(candles, Params{"period": 10, "stdDev": 2, "stopLossPct": 2.5})

	require.NotNil(t, out[10].BuySignal)
	assert.Equal(t, 5.0, *out[10].BuySignal)
	assert.InDelta(t, 5.0*0.975, *out[10].StopLossLevel, 1e-9)

	// The next close is still below the band; one signal per excursion.
	assert.Nil(t, out[11].BuySignal)

	buys, sells := markerCount(out)
	assert.Equal(t, 1, buys)
	assert.Equal(t, 0, sells)
}

func TestMeanReversion_SellAtUpperBand(t *testing.T) {
	closes := append(append([]float64{}, wiggle...), 15, 15.1)
	candles := priceBars(closes...)
	out := MeanReversion{}.Calculate(candles, Params{"period": 10, "stdDev": 2})

	require.NotNil(t, out[10].SellSignal)
	assert.Equal(t, 15.0, *out[10].SellSignal)
	assert.Nil(t, out[11].SellSignal)

	buys, sells := markerCount(out)
	assert.Equal(t, 0, buys)
	assert.Equal(t, 1, sells)
}

func TestMeanReversion_QuietMarketHolds(t *testing.T) {
	candles := priceBars(10, 10.1, 9.9, 10.05, 9.95, 10, 10.1)
	out := MeanReversion{}.Calculate(candles, Params{"period": 3, "stdDev": 3})
	buys, sells := markerCount(out)
	assert.Zero(t, buys)
	assert.Zero(t, sells)
}
