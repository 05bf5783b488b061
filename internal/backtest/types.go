// Package backtest replays an annotated candle series through a
// sequential position state machine and produces a realized trade ledger
// with summary statistics. The simulator performs no I/O; ledgers are
// handed to the caller as structured data.
package backtest

import (
	"encoding/json"
	"math"
)

// CloseReason records why a position exited.
type CloseReason string

const (
	CloseStopLoss   CloseReason = "stop-loss"
	CloseTakeProfit CloseReason = "take-profit"
	CloseSignal     CloseReason = "signal"
)

// Side of an open position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Config holds the simulator parameters.
type Config struct {
	InitialCapital float64 // starting balance, quote currency
	Leverage       float64 // notional multiplier applied to capital
	StopLossPct    float64 // stop distance from entry, percent
	TakeProfitPct  float64 // target distance from entry, percent
	FeePct         float64 // taker fee per fill, percent of notional
}

// DefaultConfig returns the default simulator configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 1000,
		Leverage:       1,
		StopLossPct:    2.0,
		TakeProfitPct:  4.0,
		FeePct:         0,
	}
}

// Trade is one completed round trip in the ledger.
type Trade struct {
	Side        Side        `json:"side"`
	EntryTime   int64       `json:"entryTime"`
	EntryPrice  float64     `json:"entryPrice"`
	ExitTime    int64       `json:"exitTime"`
	ExitPrice   float64     `json:"exitPrice"`
	Units       float64     `json:"units"`
	PnL         float64     `json:"pnl"`
	PnLPercent  float64     `json:"pnlPercent"`
	CloseReason CloseReason `json:"closeReason"`
}

// Summary aggregates a finished run. ProfitFactor is +Inf when the run
// had winners and no losers; EndingBalance is always InitialCapital plus
// the sum of trade PnL.
type Summary struct {
	TotalTrades        int     `json:"totalTrades"`
	WinRate            float64 `json:"winRate"`
	TotalPnL           float64 `json:"totalPnl"`
	AverageWin         float64 `json:"averageWin"`
	AverageLoss        float64 `json:"averageLoss"`
	ProfitFactor       float64 `json:"profitFactor"`
	InitialCapital     float64 `json:"initialCapital"`
	EndingBalance      float64 `json:"endingBalance"`
	TotalReturnPercent float64 `json:"totalReturnPercent"`
}

// MarshalJSON emits null for a non-finite profit factor; JSON has no
// representation for the +Inf a loss-free run produces, and a failed
// Encode would otherwise truncate the whole response mid-write.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	out := struct {
		alias
		ProfitFactor *float64 `json:"profitFactor"`
	}{alias: alias(s)}
	if !math.IsInf(s.ProfitFactor, 0) && !math.IsNaN(s.ProfitFactor) {
		out.ProfitFactor = &s.ProfitFactor
	}
	return json.Marshal(out)
}

// Result is a complete backtest run: the ledger plus its summary.
type Result struct {
	RunID    string  `json:"runId"`
	Strategy string  `json:"strategy"`
	Asset    string  `json:"asset"`
	Trades   []Trade `json:"trades"`
	Summary  Summary `json:"summary"`
}

// Summarize derives the run summary from a trade ledger.
func Summarize(trades []Trade, initialCapital float64) Summary {
	s := Summary{
		TotalTrades:    len(trades),
		InitialCapital: initialCapital,
		EndingBalance:  initialCapital,
	}
	wins, losses := 0, 0
	winSum, lossSum := 0.0, 0.0
	for _, t := range trades {
		s.TotalPnL += t.PnL
		if t.PnL >= 0 {
			wins++
			winSum += t.PnL
		} else {
			losses++
			lossSum += t.PnL
		}
	}
	s.EndingBalance = initialCapital + s.TotalPnL
	if initialCapital != 0 {
		s.TotalReturnPercent = s.TotalPnL / initialCapital * 100
	}
	if len(trades) > 0 {
		s.WinRate = float64(wins) / float64(len(trades)) * 100
	}
	if wins > 0 {
		s.AverageWin = winSum / float64(wins)
	}
	if losses > 0 {
		s.AverageLoss = lossSum / float64(losses)
		s.ProfitFactor = math.Abs(winSum / lossSum)
	} else if wins > 0 {
		s.ProfitFactor = math.Inf(1)
	}
	return s
}
