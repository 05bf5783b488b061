package strategy

import (
	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/structure"
)

// LiquiditySweep trades the reversal after a swing level is swept on
// volume. The setup is the FibRetrace pattern with two extra gates: the
// break candle's volume must be below the swept swing candle's volume
// (a low-volume break after liquidity was taken reads as reversal), and
// entry waits for price to return into a fair value gap formed between
// the break and the evaluation index instead of a Fibonacci level.
type LiquiditySweep struct{}

func (LiquiditySweep) ID() string   { return "liquidity-sweep" }
func (LiquiditySweep) Name() string { return "Liquidity Sweep + FVG" }

func (LiquiditySweep) Defaults() Params {
	return Params{
		"lookaround": 5,
		"reverse":    0,
	}
}

func (s LiquiditySweep) Calculate(candles []series.Candle, params Params) []series.Candle {
	p := Merge(s.Defaults(), params)
	out := series.Clone(candles)

	lookaround := p.GetInt("lookaround", 5)
	reverse := p.GetBool("reverse", false)

	if lookaround <= 0 || len(candles) < 2*lookaround+2 {
		return out
	}
	swings := structure.SwingPoints(candles, lookaround)
	if len(swings) == 0 {
		return out
	}

	emittedBear, emittedBull := -1, -1

	for i := 1; i < len(out); i++ {
		if ev, stop, ok := sweepSetup(candles, swings, structure.SwingHigh, i); ok && ev.TriggerIndex != emittedBear {
			if gap := gapReentry(candles, *ev, i, structure.Bearish); gap != nil {
				emit(&out[i], false, out[i].Close, stop, reverse)
				emittedBear = ev.TriggerIndex
			}
		}
		if ev, stop, ok := sweepSetup(candles, swings, structure.SwingLow, i); ok && ev.TriggerIndex != emittedBull {
			if gap := gapReentry(candles, *ev, i, structure.Bullish); gap != nil {
				emit(&out[i], true, out[i].Close, stop, reverse)
				emittedBull = ev.TriggerIndex
			}
		}
	}
	return out
}

// sweepSetup resolves a volume-confirmed break of structure as of index
// i, anchored at the latest confirmed swing of the given kind. The stop
// is the anchoring extremum's price.
func sweepSetup(candles []series.Candle, swings []structure.SwingPoint, anchor structure.Kind, i int) (*structure.Event, float64, bool) {
	ref := structure.LastConfirmedSwing(swings, anchor, i)
	if ref == nil {
		return nil, 0, false
	}
	opp := structure.LastOppositeBefore(swings, *ref, i)
	if opp == nil {
		return nil, 0, false
	}
	ev := structure.BreakOfStructure(candles, *opp, ref.Index, i)
	if ev == nil {
		return nil, 0, false
	}
	if !structure.SweepConfirmed(candles, *ev) {
		return nil, 0, false
	}
	return ev, ref.Price, true
}

// gapReentry returns a fair value gap of the wanted direction, formed
// between the break and index i, that the close at i has returned into.
// The close one bar earlier must have been outside the zone so each gap
// fires on entry, not on every bar spent inside it.
func gapReentry(candles []series.Candle, ev structure.Event, i int, dir structure.Direction) *structure.FairValueGap {
	if i == 0 {
		return nil
	}
	for _, gap := range structure.FairValueGaps(candles, i) {
		if gap.Direction != dir || gap.Index <= ev.TriggerIndex {
			continue
		}
		if gap.Contains(candles[i].Close) && !gap.Contains(candles[i-1].Close) {
			g := gap
			return &g
		}
	}
	return nil
}
