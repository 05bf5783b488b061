// Package consensus reduces the outputs of several signal generators to
// a single directional vote.
package consensus

import (
	"context"
	"sync"

	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

// Direction of the consensus vote.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Result is the reduced vote: the winning direction, the mean of the
// winning side's emitted prices, and the per-side counts.
type Result struct {
	Direction Direction `json:"direction"`
	Price     float64   `json:"price"`
	BuyVotes  int       `json:"buyVotes"`
	SellVotes int       `json:"sellVotes"`
}

// Aggregate runs every strategy over the same series (read-only fan-out,
// each gets its own annotation clone) and reads each one's last
// annotated candle. Buy majority yields UP at the mean buy price, sell
// majority DOWN at the mean sell price. A tie, including all-HOLD,
// yields no result.
func Aggregate(ctx context.Context, strategies []strategy.Strategy, candles []series.Candle, params map[string]strategy.Params) (*Result, error) {
	if err := series.Validate(candles); err != nil {
		return nil, err
	}

	type vote struct {
		buy, sell *float64
	}
	votes := make([]vote, len(strategies))

	var wg sync.WaitGroup
	for idx, s := range strategies {
		wg.Add(1)
		go func(idx int, s strategy.Strategy) {
			defer wg.Done()
			annotated := s.Calculate(candles, params[s.ID()])
			last := annotated[len(annotated)-1]
			votes[idx] = vote{buy: last.BuySignal, sell: last.SellSignal}
		}(idx, s)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buys, sells []float64
	for _, v := range votes {
		if v.buy != nil {
			buys = append(buys, *v.buy)
		}
		if v.sell != nil {
			sells = append(sells, *v.sell)
		}
	}

	switch {
	case len(buys) > len(sells):
		return &Result{Direction: DirectionUp, Price: mean(buys), BuyVotes: len(buys), SellVotes: len(sells)}, nil
	case len(sells) > len(buys):
		return &Result{Direction: DirectionDown, Price: mean(sells), BuyVotes: len(buys), SellVotes: len(sells)}, nil
	default:
		return nil, nil
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
