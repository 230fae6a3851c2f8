package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/cryptoledger/config"
	"github.com/alejandrodnm/cryptoledger/internal/adapters/binance"
	"github.com/alejandrodnm/cryptoledger/internal/adapters/localfeed"
	"github.com/alejandrodnm/cryptoledger/internal/adapters/notify"
	"github.com/alejandrodnm/cryptoledger/internal/adapters/storage"
	"github.com/alejandrodnm/cryptoledger/internal/application/backtest"
	"github.com/alejandrodnm/cryptoledger/internal/ports"
	"github.com/alejandrodnm/cryptoledger/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	symbol := flag.String("symbol", "", "trading pair (overrides config)")
	interval := flag.String("interval", "", "candle interval (overrides config)")
	limit := flag.Int("limit", 0, "number of candles to fetch (overrides config)")
	offline := flag.String("offline", "", "run against a local candles JSON file instead of the exchange")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full report table (default: compact 1-line)")
	history := flag.Duration("history", 0, "list runs stored in the last duration and exit (e.g. 72h)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *symbol != "" {
		cfg.Feed.Symbol = *symbol
	}
	if *interval != "" {
		cfg.Feed.Interval = *interval
	}
	if *limit > 0 {
		cfg.Feed.Limit = *limit
	}
	setupLogger(cfg.Log)

	slog.Info("cryptoledger starting",
		"config", *configPath,
		"symbol", cfg.Feed.Symbol,
		"interval", cfg.Feed.Interval,
		"limit", cfg.Feed.Limit,
		"offline", *offline != "",
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history > 0 {
		printHistory(ctx, store, notifier, *history)
		return
	}

	var feed ports.CandleProvider
	if *offline != "" {
		feed = localfeed.New(*offline)
	} else {
		feed = binance.NewClient(cfg.Feed.BaseURL)
	}
	source := strategy.NewSMACrossover(cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow)

	engine := backtest.New(backtest.Config{
		Symbol:         cfg.Feed.Symbol,
		Interval:       cfg.Feed.Interval,
		Limit:          cfg.Feed.Limit,
		InitialCapital: cfg.Portfolio.InitialCapital,
		TradeAmount:    cfg.Portfolio.TradeAmount,
		FeeRate:        *cfg.Portfolio.FeeRate,
		SnapshotPath:   cfg.Storage.SnapshotPath,
	}, feed, source, store, notifier)

	if _, err := engine.Run(ctx); err != nil {
		slog.Error("backtest exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("cryptoledger finished cleanly")
}

func printHistory(ctx context.Context, store *storage.SQLiteStorage, notifier *notify.Console, window time.Duration) {
	now := time.Now().UTC()
	runs, err := store.ListRuns(ctx, now.Add(-window), now)
	if err != nil {
		slog.Error("failed to list runs", "err", err)
		os.Exit(1)
	}
	notifier.PrintHistory(runs)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
