package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// priceBars builds a candle series from closes, wicks 0.5 either side.
func priceBars(closes ...float64) []series.Candle {
	out := make([]series.Candle, len(closes))
	for i, c := range closes {
		out[i] = series.Candle{
			Time:   int64(i+1) * 60_000,
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func markerCount(candles []series.Candle) (buys, sells int) {
	for _, c := range candles {
		if c.BuySignal != nil {
			buys++
		}
		if c.SellSignal != nil {
			sells++
		}
	}
	return buys, sells
}

func TestCrossover_FirstValidBarCounts(t *testing.T) {
	// A trend established during warm-up signals on the first bar where
	// both averages exist.
	candles := priceBars(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	out := Crossover{}.Calculate(candles, Params{"fastPeriod": 2, "slowPeriod": 3})

	require.NotNil(t, out[2].BuySignal)
	assert.Equal(t, 3.0, *out[2].BuySignal)
	require.NotNil(t, out[2].StopLossLevel)
	assert.InDelta(t, 3.0*0.98, *out[2].StopLossLevel, 1e-9)

	buys, sells := markerCount(out)
	assert.Equal(t, 1, buys, "a persistent trend signals once")
	assert.Equal(t, 0, sells)
}

func TestCrossover_SellOnCrossDown(t *testing.T) {
	candles := priceBars(1, 2, 3, 4, 5, 4, 3, 2, 1)
	out := Crossover{}.Calculate(candles, Params{"fastPeriod": 2, "slowPeriod": 3, "stopLossPct": 2.0})

	require.NotNil(t, out[2].BuySignal)
	require.NotNil(t, out[6].SellSignal)
	assert.Equal(t, 3.0, *out[6].SellSignal)
	assert.InDelta(t, 3.0*1.02, *out[6].StopLossLevel, 1e-9)

	buys, sells := markerCount(out)
	assert.Equal(t, 1, buys)
	assert.Equal(t, 1, sells)
}

func TestCrossover_ReverseSwapsSides(t *testing.T) {
	candles := priceBars(1, 2, 3, 4, 5, 6)
	out := Crossover{}.Calculate(candles, Params{"fastPeriod": 2, "slowPeriod": 3, "reverse": 1})

	assert.Nil(t, out[2].BuySignal)
	require.NotNil(t, out[2].SellSignal)
}

func TestCrossover_ShortSeriesUnannotated(t *testing.T) {
	candles := priceBars(1, 2)
	out := Crossover{}.Calculate(candles, Params{"fastPeriod": 20, "slowPeriod": 50})
	require.Len(t, out, 2)
	buys, sells := markerCount(out)
	assert.Zero(t, buys)
	assert.Zero(t, sells)
}

func TestCrossover_DoesNotMutateInput(t *testing.T) {
	candles := priceBars(1, 2, 3, 4, 5, 6)
	Crossover{}.Calculate(candles, Params{"fastPeriod": 2, "slowPeriod": 3})
	for i, c := range candles {
		assert.Nil(t, c.BuySignal, "input index %d", i)
		assert.Nil(t, c.SellSignal, "input index %d", i)
	}
}

func TestLatestSignal_BuyMarker(t *testing.T) {
	candles := priceBars(1, 2, 3)
	candles[2].BuySignal = series.Ptr(3)
	candles[2].StopLossLevel = series.Ptr(2.94)

	sig := LatestSignal(candles, "sma-crossover", "BTC-USD", 4.0)
	assert.NotEmpty(t, sig.ID)
	assert.Equal(t, ActionBuy, sig.Action)
	assert.Equal(t, 3.0, sig.EntryPrice)
	assert.Equal(t, 2.94, sig.StopLoss)
	assert.InDelta(t, 3.0*1.04, sig.TakeProfit, 1e-9)
	assert.Equal(t, 0.5, sig.Confidence)
	assert.Equal(t, candles[2].Time, sig.Timestamp)
	assert.Equal(t, "BTC-USD", sig.Asset)
	assert.NotEmpty(t, sig.Reasoning)
}

func TestLatestSignal_SellMarker(t *testing.T) {
	candles := priceBars(5, 4, 3)
	candles[2].SellSignal = series.Ptr(3)

	sig := LatestSignal(candles, "sma-crossover", "ETH-USD", 4.0)
	assert.Equal(t, ActionSell, sig.Action)
	assert.InDelta(t, 3.0*0.96, sig.TakeProfit, 1e-9)
}

func TestLatestSignal_HoldWhenUnmarked(t *testing.T) {
	candles := priceBars(1, 2, 3)
	sig := LatestSignal(candles, "sma-crossover", "BTC-USD", 4.0)
	assert.Equal(t, ActionHold, sig.Action)
	assert.Zero(t, sig.Confidence)

	sig = LatestSignal(nil, "sma-crossover", "BTC-USD", 4.0)
	assert.Equal(t, ActionHold, sig.Action)
}

func TestLatestSignal_AssignsUniqueIDs(t *testing.T) {
	a := LatestSignal(priceBars(1, 2, 3), "sma-crossover", "BTC-USD", 4.0)
	b := LatestSignal(priceBars(1, 2, 3), "sma-crossover", "BTC-USD", 4.0)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
