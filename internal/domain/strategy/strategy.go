// Package strategy implements the pluggable signal generators. A
// Strategy annotates a copy of the input candle series with buy/sell
// markers and stop levels; it never mutates the caller's slice and never
// reads candles beyond the index it is annotating, so appended candles
// cannot change an already emitted signal.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// Strategy converts a candle series into an annotated series. Calculate
// must tolerate short input: when the series is below the strategy's
// warm-up it returns the clone unannotated rather than failing.
type Strategy interface {
	ID() string
	Name() string
	Defaults() Params
	Calculate(candles []series.Candle, params Params) []series.Candle
}

// Action is the direction of a trade signal.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Signal is the trade signal for the most recent evaluation point,
// handed to the execution layer.
type Signal struct {
	ID         string  `json:"id"`
	Action     Action  `json:"action"`
	EntryPrice float64 `json:"entryPrice"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Timestamp  int64   `json:"timestamp"`
	StrategyID string  `json:"strategyId"`
	Asset      string  `json:"asset"`
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Strategy{}
)

// Register adds a strategy to the global registry. Panics on duplicate
// IDs, which would make lookups ambiguous.
func Register(s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.ID()]; dup {
		panic(fmt.Sprintf("strategy: duplicate registration of %q", s.ID()))
	}
	registry[s.ID()] = s
}

// Lookup returns the strategy with the given ID.
func Lookup(id string) (Strategy, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q", id)
	}
	return s, nil
}

// All returns every registered strategy, sorted by ID for deterministic
// iteration.
func All() []Strategy {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// emit writes a buy or sell marker onto the candle, honoring the reverse
// flag by swapping the side at the point of emission. Detection logic is
// never aware of reverse.
func emit(c *series.Candle, buy bool, price, stop float64, reverse bool) {
	if reverse {
		buy = !buy
	}
	if buy {
		c.BuySignal = series.Ptr(price)
	} else {
		c.SellSignal = series.Ptr(price)
	}
	if stop > 0 {
		c.StopLossLevel = series.Ptr(stop)
	}
}
