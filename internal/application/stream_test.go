package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

type fakeStream struct {
	ch  chan series.Candle
	err error
}

func (f *fakeStream) Subscribe(ctx context.Context, asset, interval string) (<-chan series.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

func candleAt(i int, price float64) series.Candle {
	return series.Candle{
		Time: int64(i+1) * 60_000,
		Open: price, High: price + 0.5, Low: price - 0.5, Close: price,
		Volume: 1000,
	}
}

func TestStreamEvaluator_EvaluatesPerCandle(t *testing.T) {
	stream := &fakeStream{ch: make(chan series.Candle, 8)}
	engine := NewEngine(DefaultEngineConfig(), nil, nil)
	ev := NewStreamEvaluator(engine, stream, 100)

	results := make(chan *AnalyzeResult, 8)
	ev.OnResult = func(r *AnalyzeResult) { results <- r }

	seed := []series.Candle{candleAt(0, 5), candleAt(1, 4), candleAt(2, 3)}
	err := ev.Switch(context.Background(), "BTC-USD", "1m", "sma-crossover",
		strategy.Params{"fastPeriod": 2, "slowPeriod": 3}, seed)
	require.NoError(t, err)
	defer ev.Stop()

	stream.ch <- candleAt(3, 2)
	stream.ch <- candleAt(4, 10)
	close(stream.ch)

	first := recvResult(t, results)
	assert.Len(t, first.Candles, 4, "seed plus one streamed candle")

	second := recvResult(t, results)
	require.Len(t, second.Candles, 5)
	assert.Equal(t, strategy.ActionBuy, second.Signal.Action)
}

func TestStreamEvaluator_WindowBounded(t *testing.T) {
	stream := &fakeStream{ch: make(chan series.Candle, 8)}
	engine := NewEngine(DefaultEngineConfig(), nil, nil)
	ev := NewStreamEvaluator(engine, stream, 3)

	results := make(chan *AnalyzeResult, 8)
	ev.OnResult = func(r *AnalyzeResult) { results <- r }

	require.NoError(t, ev.Switch(context.Background(), "BTC-USD", "1m", "sma-crossover", nil, nil))
	defer ev.Stop()

	for i := 0; i < 5; i++ {
		stream.ch <- candleAt(i, float64(10+i))
	}
	close(stream.ch)

	var last *AnalyzeResult
	for i := 0; i < 5; i++ {
		last = recvResult(t, results)
	}
	assert.Len(t, last.Candles, 3, "rolling window keeps only the newest candles")
}

func TestStreamEvaluator_SubscribeError(t *testing.T) {
	stream := &fakeStream{err: errors.New("dial failed")}
	ev := NewStreamEvaluator(NewEngine(DefaultEngineConfig(), nil, nil), stream, 10)
	err := ev.Switch(context.Background(), "BTC-USD", "1m", "sma-crossover", nil, nil)
	assert.Error(t, err)
}

func TestStreamEvaluator_StopDiscardsLateResults(t *testing.T) {
	stream := &fakeStream{ch: make(chan series.Candle, 8)}
	ev := NewStreamEvaluator(NewEngine(DefaultEngineConfig(), nil, nil), stream, 10)

	results := make(chan *AnalyzeResult, 8)
	ev.OnResult = func(r *AnalyzeResult) { results <- r }

	require.NoError(t, ev.Switch(context.Background(), "BTC-USD", "1m", "sma-crossover", nil, nil))

	stream.ch <- candleAt(0, 10)
	recvResult(t, results)

	ev.Stop()
	stream.ch <- candleAt(1, 11)
	close(stream.ch)

	select {
	case <-results:
		t.Fatal("result delivered after Stop")
	case <-time.After(200 * time.Millisecond):
	}
}

func recvResult(t *testing.T, ch <-chan *AnalyzeResult) *AnalyzeResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for streaming result")
		return nil
	}
}
