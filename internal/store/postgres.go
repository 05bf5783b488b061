// Package store persists backtest ledgers handed off by the engine. The
// engine computes, this package writes; nothing here is on the signal
// path.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/backtest"
)

const schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id               TEXT PRIMARY KEY,
	strategy             TEXT NOT NULL,
	asset                TEXT NOT NULL,
	total_trades         INT NOT NULL,
	win_rate             DOUBLE PRECISION NOT NULL,
	total_pnl            DOUBLE PRECISION NOT NULL,
	average_win          DOUBLE PRECISION NOT NULL,
	average_loss         DOUBLE PRECISION NOT NULL,
	profit_factor        DOUBLE PRECISION NOT NULL,
	initial_capital      DOUBLE PRECISION NOT NULL,
	ending_balance       DOUBLE PRECISION NOT NULL,
	total_return_percent DOUBLE PRECISION NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS backtest_trades (
	id           BIGSERIAL PRIMARY KEY,
	run_id       TEXT NOT NULL REFERENCES backtest_runs(run_id) ON DELETE CASCADE,
	side         TEXT NOT NULL,
	entry_time   BIGINT NOT NULL,
	entry_price  DOUBLE PRECISION NOT NULL,
	exit_time    BIGINT NOT NULL,
	exit_price   DOUBLE PRECISION NOT NULL,
	units        DOUBLE PRECISION NOT NULL,
	pnl          DOUBLE PRECISION NOT NULL,
	pnl_percent  DOUBLE PRECISION NOT NULL,
	close_reason TEXT NOT NULL
);
`

// PostgresStore writes backtest results to Postgres.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to the given DSN and ensures the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }

// SaveResult writes a backtest run and its trade ledger in one
// transaction. Profit factor is stored as-is; Postgres accepts the
// +Infinity a loss-free run produces.
func (s *PostgresStore) SaveResult(ctx context.Context, result *backtest.Result) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO backtest_runs (
			run_id, strategy, asset, total_trades, win_rate, total_pnl,
			average_win, average_loss, profit_factor, initial_capital,
			ending_balance, total_return_percent
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		result.RunID, result.Strategy, result.Asset,
		result.Summary.TotalTrades, result.Summary.WinRate, result.Summary.TotalPnL,
		result.Summary.AverageWin, result.Summary.AverageLoss, result.Summary.ProfitFactor,
		result.Summary.InitialCapital, result.Summary.EndingBalance, result.Summary.TotalReturnPercent,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", result.RunID, err)
	}

	for _, t := range result.Trades {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO backtest_trades (
				run_id, side, entry_time, entry_price, exit_time,
				exit_price, units, pnl, pnl_percent, close_reason
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			result.RunID, t.Side, t.EntryTime, t.EntryPrice, t.ExitTime,
			t.ExitPrice, t.Units, t.PnL, t.PnLPercent, t.CloseReason,
		)
		if err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Info().Str("run_id", result.RunID).Int("trades", len(result.Trades)).Msg("backtest run persisted")
	return nil
}
