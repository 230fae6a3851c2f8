package storage

// sqlite.go — historial durable de runs de backtest.
//
// Layout:
//   - `runs`: una fila por run completado (parámetros + estadísticas clave).
//   - `run_entries`: el ledger de posición de un run, una fila por entry.
//   - `run_signals`: el historial crudo de señales, guardado para re-análisis.
//   - Prune al arrancar: runs (con sus entries/señales) de más de 90d.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                    TEXT PRIMARY KEY,
    symbol                TEXT NOT NULL,
    interval              TEXT NOT NULL,
    started_at            DATETIME NOT NULL,
    finished_at           DATETIME NOT NULL,
    initial_capital       REAL NOT NULL,
    trade_amount          REAL NOT NULL,
    fee_rate              REAL NOT NULL,
    entries               INTEGER NOT NULL DEFAULT 0,
    pairs                 INTEGER NOT NULL DEFAULT 0,
    base_index_pct_change REAL NOT NULL DEFAULT 0,
    total_pct_change      REAL NOT NULL DEFAULT 0,
    net_gains             REAL NOT NULL DEFAULT 0,
    accuracy              REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_entries (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id        TEXT NOT NULL,
    trade_time    DATETIME NOT NULL,
    amount_traded REAL NOT NULL,
    actual_price  REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS run_signals (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  TEXT NOT NULL,
    kind    INTEGER NOT NULL,
    price   REAL NOT NULL,
    at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_finished      ON runs(finished_at DESC);
CREATE INDEX IF NOT EXISTS idx_run_entries_run    ON run_entries(run_id);
CREATE INDEX IF NOT EXISTS idx_run_signals_run    ON run_signals(run_id);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.RunStorage sobre SQLite (Go puro, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y poda los runs viejos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun persiste la fila del run más su ledger y su historial de
// señales en una transacción.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	var pairs int
	var netGains, accuracy float64
	if run.Stats != nil {
		pairs = len(run.Stats.Pairs)
		netGains = run.Stats.Net.Value
		accuracy = run.Stats.Accuracy
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, symbol, interval, started_at, finished_at,
		                  initial_capital, trade_amount, fee_rate, entries, pairs,
		                  base_index_pct_change, total_pct_change, net_gains, accuracy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Symbol, run.Interval,
		fmtTime(run.StartedAt), fmtTime(run.FinishedAt),
		run.InitialCapital, run.TradeAmount, run.FeeRate,
		len(run.Entries), pairs,
		run.Performance.BaseIndexPctChange, run.Performance.TotalPctChange,
		netGains, accuracy,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run %s: %w", run.ID, err)
	}

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries (run_id, trade_time, amount_traded, actual_price)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare entries: %w", err)
	}
	defer entryStmt.Close()

	for _, e := range run.Entries {
		if _, err := entryStmt.ExecContext(ctx,
			run.ID, fmtTime(e.TradeTime), e.AmountTraded, e.ActualPrice,
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert entry: %w", err)
		}
	}

	signalStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_signals (run_id, kind, price, at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare signals: %w", err)
	}
	defer signalStmt.Close()

	for _, sig := range run.Signals {
		if _, err := signalStmt.ExecContext(ctx,
			run.ID, int(sig.Kind), sig.PricePoint.Value, fmtTime(sig.PricePoint.Time),
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert signal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// ListRuns devuelve los resúmenes de los runs terminados dentro del
// rango, los más nuevos primero.
func (s *SQLiteStorage) ListRuns(ctx context.Context, from, to time.Time) ([]domain.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, interval, finished_at, entries, pairs,
		       total_pct_change, net_gains, accuracy
		FROM runs
		WHERE finished_at BETWEEN ? AND ?
		ORDER BY finished_at DESC
	`, fmtTime(from), fmtTime(to))
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		var finishedAt string
		if err := rows.Scan(
			&r.ID, &r.Symbol, &r.Interval, &finishedAt, &r.Entries, &r.Pairs,
			&r.TotalPctChange, &r.NetGains, &r.Accuracy,
		); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan row: %w", err)
		}
		r.FinishedAt, _ = time.Parse(timeLayout, finishedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunEntries devuelve el ledger de un run guardado en orden de
// trade time.
func (s *SQLiteStorage) GetRunEntries(ctx context.Context, runID string) ([]domain.PositionEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_time, amount_traded, actual_price
		FROM run_entries
		WHERE run_id = ?
		ORDER BY trade_time ASC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRunEntries: query: %w", err)
	}
	defer rows.Close()

	var entries []domain.PositionEntry
	for rows.Next() {
		var e domain.PositionEntry
		var tradeTime string
		if err := rows.Scan(&tradeTime, &e.AmountTraded, &e.ActualPrice); err != nil {
			return nil, fmt.Errorf("storage.GetRunEntries: scan row: %w", err)
		}
		e.TradeTime, _ = time.Parse(timeLayout, tradeTime)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close cierra la conexión a la base de datos limpiamente.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld borra los runs fuera de retención, con sus entries y señales.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := fmtTime(time.Now().UTC().Add(-retentionRuns))
	s.db.ExecContext(ctx, `DELETE FROM run_entries WHERE run_id IN (SELECT id FROM runs WHERE finished_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM run_signals WHERE run_id IN (SELECT id FROM runs WHERE finished_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE finished_at < ?`, cutoff)
}

// timeLayout es de ancho fijo para que los timestamps guardados
// comparen lexicográficamente en las queries por rango.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
