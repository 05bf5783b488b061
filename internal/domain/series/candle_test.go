package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptySeries(t *testing.T) {
	err := Validate(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestValidate_Ascending(t *testing.T) {
	candles := []Candle{
		{Time: 1000, Close: 1},
		{Time: 2000, Close: 2},
		{Time: 3000, Close: 3},
	}
	assert.NoError(t, Validate(candles))
}

func TestValidate_RejectsDuplicateTimestamps(t *testing.T) {
	candles := []Candle{
		{Time: 1000},
		{Time: 2000},
		{Time: 2000},
	}
	err := Validate(candles)
	assert.ErrorIs(t, err, ErrNotAscending)
}

func TestValidate_RejectsOutOfOrder(t *testing.T) {
	candles := []Candle{
		{Time: 2000},
		{Time: 1000},
	}
	err := Validate(candles)
	assert.ErrorIs(t, err, ErrNotAscending)
}

func TestClone_ResetsAnnotations(t *testing.T) {
	candles := []Candle{
		{Time: 1000, Close: 10, BuySignal: Ptr(10), StopLossLevel: Ptr(9.5)},
		{Time: 2000, Close: 11, SellSignal: Ptr(11), PeakPrice: Ptr(11.5)},
	}
	clone := Clone(candles)
	require.Len(t, clone, 2)

	for i, c := range clone {
		assert.Nil(t, c.BuySignal, "index %d", i)
		assert.Nil(t, c.SellSignal, "index %d", i)
		assert.Nil(t, c.StopLossLevel, "index %d", i)
		assert.Nil(t, c.PeakPrice, "index %d", i)
		assert.Equal(t, candles[i].Time, c.Time)
		assert.Equal(t, candles[i].Close, c.Close)
	}

	// Writing to the clone must not leak back into the input.
	clone[0].BuySignal = Ptr(10)
	clone[0].Close = 99
	assert.Equal(t, 10.0, candles[0].Close)
	assert.Equal(t, 10.0, *candles[0].BuySignal)
}

func TestColumns(t *testing.T) {
	candles := []Candle{
		{Time: 1000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Time: 2000, Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 200},
	}
	assert.Equal(t, []float64{1.5, 2.5}, Closes(candles))
	assert.Equal(t, []float64{2, 3}, Highs(candles))
	assert.Equal(t, []float64{0.5, 1}, Lows(candles))
	assert.Equal(t, []float64{100, 200}, Volumes(candles))
}
