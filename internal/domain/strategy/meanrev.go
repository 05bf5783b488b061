package strategy

import (
	"github.com/quantlab/signalrun/internal/domain/indicators"
	"github.com/quantlab/signalrun/internal/domain/series"
)

// MeanReversion emits a buy when the close touches or pierces the lower
// Bollinger band and a sell at the upper band, betting on a return to
// the middle band. Consecutive closes outside the band only signal once
// per excursion.
type MeanReversion struct{}

func (MeanReversion) ID() string   { return "bollinger-meanrev" }
func (MeanReversion) Name() string { return "Bollinger Mean Reversion" }

func (MeanReversion) Defaults() Params {
	return Params{
		"period":      20,
		"stdDev":      2.0,
		"stopLossPct": 2.5,
		"reverse":     0,
	}
}

func (s MeanReversion) Calculate(candles []series.Candle, params Params) []series.Candle {
	p := Merge(s.Defaults(), params)
	out := series.Clone(candles)

	period := p.GetInt("period", 20)
	k := p.Get("stdDev", 2.0)
	stopPct := p.Get("stopLossPct", 2.5)
	reverse := p.GetBool("reverse", false)

	bands := indicators.Bollinger(series.Closes(candles), period, k)

	inLower, inUpper := false, false
	for i := range out {
		if !series.IsValue(bands.Upper[i]) {
			continue
		}
		price := out[i].Close
		belowLower := price <= bands.Lower[i]
		aboveUpper := price >= bands.Upper[i]
		if belowLower && !inLower {
			emit(&out[i], true, price, price*(1-stopPct/100), reverse)
		}
		if aboveUpper && !inUpper {
			emit(&out[i], false, price, price*(1+stopPct/100), reverse)
		}
		inLower, inUpper = belowLower, aboveUpper
	}
	return out
}
