// Package backtest orquesta un run completo: velas que entran, señales
// a través del ledger del portfolio, performance y estadísticas que salen.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
	"github.com/alejandrodnm/cryptoledger/internal/portfolio"
	"github.com/alejandrodnm/cryptoledger/internal/ports"
)

const (
	defaultCapital     = 5.0
	defaultTradeAmount = 1000.0
)

// Config son los parámetros de un run.
type Config struct {
	Symbol         string
	Interval       string
	Limit          int
	InitialCapital float64
	TradeAmount    float64
	FeeRate        float64

	// SnapshotPath, si está definido, escribe ahí el ledger del
	// portfolio al final del run.
	SnapshotPath string
}

// Engine cablea un proveedor de velas, una fuente de señales y un
// portfolio en un run síncrono. Storage y notifier son opcionales.
type Engine struct {
	cfg      Config
	feed     ports.CandleProvider
	source   ports.SignalSource
	store    ports.RunStorage
	notifier ports.Notifier
}

// New crea un engine de backtest.
func New(cfg Config, feed ports.CandleProvider, source ports.SignalSource, store ports.RunStorage, notifier ports.Notifier) *Engine {
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = defaultCapital
	}
	if cfg.TradeAmount <= 0 {
		cfg.TradeAmount = defaultTradeAmount
	}
	return &Engine{cfg: cfg, feed: feed, source: source, store: store, notifier: notifier}
}

// Run ejecuta un backtest: descarga velas, las pasa por la fuente de
// señales hacia el ledger, materializa performance y estadísticas, y
// después persiste y reporta. Las señales y el ledger se mantienen
// estrictamente single-writer durante todo el run.
func (e *Engine) Run(ctx context.Context) (domain.RunResult, error) {
	startedAt := time.Now().UTC()
	runID := uuid.New().String()

	candles, err := e.feed.Candles(ctx, e.cfg.Symbol, e.cfg.Interval, e.cfg.Limit)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("backtest.Run: fetch candles: %w", err)
	}
	if len(candles) == 0 {
		return domain.RunResult{}, fmt.Errorf("backtest.Run: no candles for %s %s", e.cfg.Symbol, e.cfg.Interval)
	}
	if w, ok := e.source.(interface{ Warmup() int }); ok && len(candles) <= w.Warmup() {
		return domain.RunResult{}, fmt.Errorf("backtest.Run: %d candles but the signal source needs more than %d to warm up",
			len(candles), w.Warmup())
	}

	slog.Info("backtest starting",
		"run", runID,
		"symbol", e.cfg.Symbol,
		"interval", e.cfg.Interval,
		"candles", len(candles),
	)

	book := portfolio.New(e.cfg.InitialCapital, e.cfg.TradeAmount,
		portfolio.WithFeeRate(e.cfg.FeeRate))

	for _, candle := range candles {
		signal, ok := e.source.Observe(candle)
		if !ok {
			continue // calentando
		}
		if err := book.Update(signal); err != nil {
			return domain.RunResult{}, fmt.Errorf("backtest.Run: %w", err)
		}
	}

	perf, err := book.ComputePerformance()
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("backtest.Run: %w", err)
	}

	result := domain.RunResult{
		ID:             runID,
		Symbol:         e.cfg.Symbol,
		Interval:       e.cfg.Interval,
		StartedAt:      startedAt,
		FinishedAt:     time.Now().UTC(),
		InitialCapital: e.cfg.InitialCapital,
		TradeAmount:    e.cfg.TradeAmount,
		FeeRate:        book.FeeRate(),
		Entries:        book.Entries(),
		Signals:        book.Signals(),
		Performance:    perf,
	}

	stats, err := domain.ComputeRunStatistics(book.Signals(), e.cfg.TradeAmount)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		// Un run corto o sin señales es un resultado válido sin estadísticas.
		slog.Warn("not enough signals to analyze", "run", runID, "err", err)
	case err != nil:
		return domain.RunResult{}, fmt.Errorf("backtest.Run: statistics: %w", err)
	default:
		result.Stats = &stats
	}

	if e.cfg.SnapshotPath != "" {
		if err := book.SaveToDisk(e.cfg.SnapshotPath); err != nil {
			return domain.RunResult{}, fmt.Errorf("backtest.Run: %w", err)
		}
		slog.Debug("portfolio snapshot written", "path", e.cfg.SnapshotPath)
	}

	if e.store != nil {
		if err := e.store.SaveRun(ctx, result); err != nil {
			return domain.RunResult{}, fmt.Errorf("backtest.Run: %w", err)
		}
	}

	if e.notifier != nil {
		if err := e.notifier.NotifyRun(ctx, result); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Info("backtest finished",
		"run", runID,
		"entries", len(result.Entries),
		"capital_pct", fmt.Sprintf("%+.2f%%", perf.TotalPctChange*100),
		"index_pct", fmt.Sprintf("%+.2f%%", perf.BaseIndexPctChange*100),
	)
	return result, nil
}
