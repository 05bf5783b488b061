package indicators

import (
	"math"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// RSI calculates the Relative Strength Index using Wilder smoothing of
// average gains and losses. Zero average loss with positive gains yields
// 100; a fully flat window (zero gain and zero loss) yields the neutral
// 50 so constant-price series never produce NaN.
func RSI(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = avgGain*(1-alpha) + gain*alpha
		avgLoss = avgLoss*(1-alpha) + loss*alpha
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// StochasticResult holds the %K and %D lines.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic calculates the stochastic oscillator: raw %K from the close
// position within the trailing high-low range (50 on a zero range), %K
// smoothed over smoothK bars and %D as the smoothD-bar smoothing of %K.
func Stochastic(candles []series.Candle, period, smoothK, smoothD int) StochasticResult {
	raw := nans(len(candles))
	if period <= 0 || len(candles) < period {
		return StochasticResult{K: raw, D: nans(len(candles))}
	}
	for i := period - 1; i < len(candles); i++ {
		hi, lo := windowRange(candles, i, period)
		if hi == lo {
			raw[i] = 50.0
			continue
		}
		raw[i] = 100.0 * (candles[i].Close - lo) / (hi - lo)
	}
	k := smoothValid(raw, func(v []float64) []float64 { return SMA(v, smoothK) })
	d := smoothValid(k, func(v []float64) []float64 { return SMA(v, smoothD) })
	return StochasticResult{K: k, D: d}
}

// WilliamsR calculates Williams %R on a -100..0 scale, defaulting to -50
// when the trailing range is zero.
func WilliamsR(candles []series.Candle, period int) []float64 {
	out := nans(len(candles))
	if period <= 0 || len(candles) < period {
		return out
	}
	for i := period - 1; i < len(candles); i++ {
		hi, lo := windowRange(candles, i, period)
		if hi == lo {
			out[i] = -50.0
			continue
		}
		out[i] = -100.0 * (hi - candles[i].Close) / (hi - lo)
	}
	return out
}

// CCI calculates the Commodity Channel Index from typical price against
// its SMA and mean absolute deviation, defaulting to 0 when the mean
// deviation is zero.
func CCI(candles []series.Candle, period int) []float64 {
	out := nans(len(candles))
	if period <= 0 || len(candles) < period {
		return out
	}
	tp := make([]float64, len(candles))
	for i, c := range candles {
		tp[i] = (c.High + c.Low + c.Close) / 3.0
	}
	tpSMA := SMA(tp, period)
	for i := period - 1; i < len(candles); i++ {
		meanDev := 0.0
		for j := i - period + 1; j <= i; j++ {
			meanDev += math.Abs(tp[j] - tpSMA[i])
		}
		meanDev /= float64(period)
		if meanDev == 0 {
			out[i] = 0.0
			continue
		}
		out[i] = (tp[i] - tpSMA[i]) / (0.015 * meanDev)
	}
	return out
}

// AwesomeOscillator calculates the difference between a short and a long
// SMA of the median price (high+low)/2.
func AwesomeOscillator(candles []series.Candle, short, long int) []float64 {
	median := make([]float64, len(candles))
	for i, c := range candles {
		median[i] = (c.High + c.Low) / 2.0
	}
	fast := SMA(median, short)
	slow := SMA(median, long)
	out := nans(len(candles))
	for i := range candles {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			out[i] = fast[i] - slow[i]
		}
	}
	return out
}

// CoppockCurve calculates the Coppock momentum curve: the sum of a long
// and a short rate-of-change, smoothed by a weighted moving average.
func CoppockCurve(values []float64, longRoC, shortRoC, wmaPeriod int) []float64 {
	rocSum := nans(len(values))
	start := longRoC
	if shortRoC > start {
		start = shortRoC
	}
	if longRoC <= 0 || shortRoC <= 0 || len(values) <= start {
		return rocSum
	}
	for i := start; i < len(values); i++ {
		if values[i-longRoC] == 0 || values[i-shortRoC] == 0 {
			continue
		}
		long := (values[i] - values[i-longRoC]) / values[i-longRoC] * 100.0
		short := (values[i] - values[i-shortRoC]) / values[i-shortRoC] * 100.0
		rocSum[i] = long + short
	}
	return smoothValid(rocSum, func(v []float64) []float64 { return WMA(v, wmaPeriod) })
}

// windowRange returns the highest high and lowest low of the period-bar
// window ending at index i.
func windowRange(candles []series.Candle, i, period int) (hi, lo float64) {
	hi, lo = candles[i].High, candles[i].Low
	for j := i - period + 1; j <= i; j++ {
		if candles[j].High > hi {
			hi = candles[j].High
		}
		if candles[j].Low < lo {
			lo = candles[j].Low
		}
	}
	return hi, lo
}
