package backtest

import (
	"github.com/google/uuid"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// position is the open side of the state machine.
type position struct {
	side       Side
	entryTime  int64
	entryPrice float64
	units      float64
	stopPrice  float64
	target     float64
	entryFee   float64
}

// Simulator replays annotated candles through the Flat -> InPosition ->
// Flat state machine. The loop is inherently sequential: each candle's
// transition depends on the prior candle's open-position state.
type Simulator struct {
	config Config
}

// NewSimulator creates a simulator with the given configuration. A zero
// or negative leverage falls back to 1.
func NewSimulator(config Config) *Simulator {
	if config.Leverage <= 0 {
		config.Leverage = 1
	}
	return &Simulator{config: config}
}

// Run walks the annotated series and produces the trade ledger. While in
// a position, each candle is checked in strict order: stop-loss touch,
// take-profit touch, opposite signal marker; only the first match fires.
// While flat, a buy or sell marker opens a position sized as
// (balance * leverage) / entryPrice. A position still open at the last
// candle is force-closed at its close price with reason "signal".
func (s *Simulator) Run(candles []series.Candle, strategyID, asset string) (*Result, error) {
	if err := series.Validate(candles); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Strategy: strategyID,
		Asset:    asset,
		Trades:   make([]Trade, 0),
	}
	balance := s.config.InitialCapital

	var pos *position
	for i := range candles {
		c := &candles[i]
		if pos != nil {
			if trade, closed := s.checkExit(pos, c); closed {
				balance += trade.PnL
				result.Trades = append(result.Trades, trade)
				pos = nil
			}
			continue
		}
		pos = s.tryOpen(c, balance)
	}

	if pos != nil {
		last := candles[len(candles)-1]
		trade := s.close(pos, last.Time, last.Close, CloseSignal)
		balance += trade.PnL
		result.Trades = append(result.Trades, trade)
	}

	result.Summary = Summarize(result.Trades, s.config.InitialCapital)
	return result, nil
}

func (s *Simulator) tryOpen(c *series.Candle, balance float64) *position {
	var side Side
	var entry float64
	switch {
	case c.BuySignal != nil:
		side, entry = SideLong, *c.BuySignal
	case c.SellSignal != nil:
		side, entry = SideShort, *c.SellSignal
	default:
		return nil
	}
	if entry <= 0 {
		return nil
	}

	units := balance * s.config.Leverage / entry
	pos := &position{
		side:       side,
		entryTime:  c.Time,
		entryPrice: entry,
		units:      units,
		entryFee:   entry * units * s.config.FeePct / 100,
	}
	if side == SideLong {
		pos.stopPrice = entry * (1 - s.config.StopLossPct/100)
		pos.target = entry * (1 + s.config.TakeProfitPct/100)
	} else {
		pos.stopPrice = entry * (1 + s.config.StopLossPct/100)
		pos.target = entry * (1 - s.config.TakeProfitPct/100)
	}
	return pos
}

// checkExit applies the exit conditions in priority order for one candle.
func (s *Simulator) checkExit(pos *position, c *series.Candle) (Trade, bool) {
	if pos.side == SideLong {
		if s.config.StopLossPct > 0 && c.Low <= pos.stopPrice {
			return s.close(pos, c.Time, pos.stopPrice, CloseStopLoss), true
		}
		if s.config.TakeProfitPct > 0 && c.High >= pos.target {
			return s.close(pos, c.Time, pos.target, CloseTakeProfit), true
		}
		if c.SellSignal != nil {
			return s.close(pos, c.Time, c.High, CloseSignal), true
		}
		return Trade{}, false
	}

	if s.config.StopLossPct > 0 && c.High >= pos.stopPrice {
		return s.close(pos, c.Time, pos.stopPrice, CloseStopLoss), true
	}
	if s.config.TakeProfitPct > 0 && c.Low <= pos.target {
		return s.close(pos, c.Time, pos.target, CloseTakeProfit), true
	}
	if c.BuySignal != nil {
		return s.close(pos, c.Time, c.Low, CloseSignal), true
	}
	return Trade{}, false
}

func (s *Simulator) close(pos *position, exitTime int64, exitPrice float64, reason CloseReason) Trade {
	gross := (exitPrice - pos.entryPrice) * pos.units
	if pos.side == SideShort {
		gross = -gross
	}
	exitFee := exitPrice * pos.units * s.config.FeePct / 100
	pnl := gross - pos.entryFee - exitFee

	trade := Trade{
		Side:        pos.side,
		EntryTime:   pos.entryTime,
		EntryPrice:  pos.entryPrice,
		ExitTime:    exitTime,
		ExitPrice:   exitPrice,
		Units:       pos.units,
		PnL:         pnl,
		CloseReason: reason,
	}
	margin := pos.entryPrice * pos.units / s.config.Leverage
	if margin != 0 {
		trade.PnLPercent = pnl / margin * 100
	}
	return trade
}
