package strategy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/quantlab/signalrun/internal/domain/indicators"
	"github.com/quantlab/signalrun/internal/domain/series"
)

// Crossover emits a buy when the fast moving average moves above the
// slow one and a sell on the opposite cross. The first bar where both
// averages are defined counts as a cross if the fast side is already
// above or below, so a trend established during warm-up still signals.
type Crossover struct{}

func (Crossover) ID() string   { return "sma-crossover" }
func (Crossover) Name() string { return "SMA Crossover" }

func (Crossover) Defaults() Params {
	return Params{
		"fastPeriod":  20,
		"slowPeriod":  50,
		"stopLossPct": 2.0,
		"reverse":     0,
	}
}

func (s Crossover) Calculate(candles []series.Candle, params Params) []series.Candle {
	p := Merge(s.Defaults(), params)
	out := series.Clone(candles)

	fastP := p.GetInt("fastPeriod", 20)
	slowP := p.GetInt("slowPeriod", 50)
	stopPct := p.Get("stopLossPct", 2.0)
	reverse := p.GetBool("reverse", false)

	closes := series.Closes(candles)
	fast := indicators.SMA(closes, fastP)
	slow := indicators.SMA(closes, slowP)

	prevAbove, prevBelow := false, false
	for i := range out {
		if !series.IsValue(fast[i]) || !series.IsValue(slow[i]) {
			continue
		}
		above := fast[i] > slow[i]
		below := fast[i] < slow[i]
		price := out[i].Close
		if above && !prevAbove {
			emit(&out[i], true, price, price*(1-stopPct/100), reverse)
		} else if below && !prevBelow {
			emit(&out[i], false, price, price*(1+stopPct/100), reverse)
		}
		prevAbove, prevBelow = above, below
	}
	return out
}

// LatestSignal reads the most recent annotated candle and produces the
// single current trade signal for the execution layer, or a HOLD when
// the last candle carries no marker.
func LatestSignal(annotated []series.Candle, strategyID, asset string, takeProfitPct float64) Signal {
	if len(annotated) == 0 {
		return Signal{ID: uuid.NewString(), Action: ActionHold, StrategyID: strategyID, Asset: asset}
	}
	last := annotated[len(annotated)-1]
	sig := Signal{
		ID:         uuid.NewString(),
		Action:     ActionHold,
		Timestamp:  last.Time,
		StrategyID: strategyID,
		Asset:      asset,
	}
	switch {
	case last.BuySignal != nil:
		sig.Action = ActionBuy
		sig.EntryPrice = *last.BuySignal
		sig.TakeProfit = sig.EntryPrice * (1 + takeProfitPct/100)
		sig.Reasoning = fmt.Sprintf("%s buy at %.8g", strategyID, sig.EntryPrice)
	case last.SellSignal != nil:
		sig.Action = ActionSell
		sig.EntryPrice = *last.SellSignal
		sig.TakeProfit = sig.EntryPrice * (1 - takeProfitPct/100)
		sig.Reasoning = fmt.Sprintf("%s sell at %.8g", strategyID, sig.EntryPrice)
	}
	if last.StopLossLevel != nil {
		sig.StopLoss = *last.StopLossLevel
	}
	if sig.Action != ActionHold {
		sig.Confidence = 0.5
	}
	return sig
}
