package strategy

import (
	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/structure"
)

// FibRetrace trades the retracement after a break of structure. For each
// evaluation index it (1) takes the latest confirmed swing extremum, (2)
// the last opposite swing before it, (3) the first close past that
// opposite level between the extremum and the evaluation index, (4) the
// running pullback extreme since the break, (5) Fibonacci levels between
// the original extremum and that pullback extreme, and (6) emits on the
// first close re-entering the entry level, stop at the original
// extremum. Every step reads only indices at or before the evaluation
// index, so a signal at index i never changes when candles are appended.
type FibRetrace struct{}

func (FibRetrace) ID() string   { return "fib-retrace" }
func (FibRetrace) Name() string { return "Fibonacci Retracement" }

func (FibRetrace) Defaults() Params {
	return Params{
		"lookaround": 5,
		"fibLevel":   0.618,
		"reverse":    0,
	}
}

func (s FibRetrace) Calculate(candles []series.Candle, params Params) []series.Candle {
	p := Merge(s.Defaults(), params)
	out := series.Clone(candles)

	lookaround := p.GetInt("lookaround", 5)
	fib := p.Get("fibLevel", 0.618)
	reverse := p.GetBool("reverse", false)

	if lookaround <= 0 || len(candles) < 2*lookaround+2 {
		return out
	}
	swings := structure.SwingPoints(candles, lookaround)
	if len(swings) == 0 {
		return out
	}

	// One emission per break event, per direction.
	emittedBear, emittedBull := -1, -1

	for i := 1; i < len(out); i++ {
		if trig, level, stop, ok := bearishSetup(candles, swings, i, fib); ok && trig != emittedBear {
			if out[i].Close >= level && out[i-1].Close < level {
				emit(&out[i], false, out[i].Close, stop, reverse)
				out[i].PeakPrice = series.Ptr(stop)
				emittedBear = trig
			}
		}
		if trig, level, stop, ok := bullishSetup(candles, swings, i, fib); ok && trig != emittedBull {
			if out[i].Close <= level && out[i-1].Close > level {
				emit(&out[i], true, out[i].Close, stop, reverse)
				out[i].PeakPrice = series.Ptr(stop)
				emittedBull = trig
			}
		}
	}
	return out
}

// bearishSetup resolves the sell-side pattern as of index i: latest
// confirmed swing high, bearish break of the prior swing low, pullback
// low since the break, and the fib re-entry level measured between the
// peak and that low. Returns the break trigger index, entry level and
// stop (the original peak).
func bearishSetup(candles []series.Candle, swings []structure.SwingPoint, i int, fib float64) (trig int, level, stop float64, ok bool) {
	peak := structure.LastConfirmedSwing(swings, structure.SwingHigh, i)
	if peak == nil {
		return 0, 0, 0, false
	}
	opp := structure.LastOppositeBefore(swings, *peak, i)
	if opp == nil {
		return 0, 0, 0, false
	}
	ev := structure.BreakOfStructure(candles, *opp, peak.Index, i)
	if ev == nil || ev.Direction != structure.Bearish {
		return 0, 0, 0, false
	}
	pullLow, _ := structure.PullbackExtreme(candles, *ev, i)
	if peak.Price <= pullLow {
		return 0, 0, 0, false
	}
	level = pullLow + fib*(peak.Price-pullLow)
	return ev.TriggerIndex, level, peak.Price, true
}

// bullishSetup mirrors bearishSetup: latest confirmed swing low, bullish
// break of the prior swing high, pullback high since the break, fib
// re-entry level between that high and the trough.
func bullishSetup(candles []series.Candle, swings []structure.SwingPoint, i int, fib float64) (trig int, level, stop float64, ok bool) {
	trough := structure.LastConfirmedSwing(swings, structure.SwingLow, i)
	if trough == nil {
		return 0, 0, 0, false
	}
	opp := structure.LastOppositeBefore(swings, *trough, i)
	if opp == nil {
		return 0, 0, 0, false
	}
	ev := structure.BreakOfStructure(candles, *opp, trough.Index, i)
	if ev == nil || ev.Direction != structure.Bullish {
		return 0, 0, 0, false
	}
	pullHigh, _ := structure.PullbackExtreme(candles, *ev, i)
	if pullHigh <= trough.Price {
		return 0, 0, 0, false
	}
	level = pullHigh - fib*(pullHigh-trough.Price)
	return ev.TriggerIndex, level, trough.Price, true
}
