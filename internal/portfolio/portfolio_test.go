package portfolio_test

import (
	"os"
	"testing"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
	"github.com/alejandrodnm/cryptoledger/internal/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(minute int) time.Time {
	return time.Date(2018, 5, 21, 0, minute, 59, 0, time.UTC)
}

func signal(kind domain.SignalKind, price float64, minute int) domain.Signal {
	return domain.Signal{
		Kind:       kind,
		PricePoint: domain.PricePoint{Value: price, Time: at(minute)},
	}
}

func TestPortfolio_EndToEndScenario(t *testing.T) {
	// Cierres [1.0, 1.0, 0.9, 1.1] con señales explícitas Buy, Hold, Sell, Buy.
	p := portfolio.New(5, 1000, portfolio.WithFeeRate(0))

	events := []domain.Signal{
		signal(domain.SignalBuy, 1.0, 0),
		signal(domain.SignalHold, 1.0, 1),
		signal(domain.SignalSell, 0.9, 2),
		signal(domain.SignalBuy, 1.1, 3),
	}
	for _, s := range events {
		require.NoError(t, p.Update(s))
	}

	perf, err := p.ComputePerformance()
	require.NoError(t, err)

	// order_expenditure = amount × price per entry
	assert.Equal(t, []float64{1000, 0, -900, 1100}, perf.OrderExpenditure)

	// cumulative running sum
	assert.Equal(t, []float64{1000, 1000, 100, 1200}, perf.CumulativeOrderExpenditure)

	// el capital baja en compras y sube en ventas por la magnitud del gasto
	require.Len(t, perf.RemainingCapital, 4)
	assert.InDelta(t, -995, perf.RemainingCapital[0], 1e-9)
	assert.InDelta(t, -995, perf.RemainingCapital[1], 1e-9)
	assert.InDelta(t, -95, perf.RemainingCapital[2], 1e-9)
	assert.InDelta(t, -1195, perf.RemainingCapital[3], 1e-9)

	// point stats over the whole window
	assert.InDelta(t, 0.1, perf.BaseIndexPctChange, 1e-9)
}

func TestPortfolio_AccountingInvariant(t *testing.T) {
	p := portfolio.New(100, 10)

	kinds := []domain.SignalKind{
		domain.SignalBuy, domain.SignalSell, domain.SignalBuy,
		domain.SignalHold, domain.SignalSell,
	}
	prices := []float64{1.5, 1.7, 1.6, 1.6, 1.9}
	for i, k := range kinds {
		require.NoError(t, p.Update(signal(k, prices[i], i)))
	}

	perf, err := p.ComputePerformance()
	require.NoError(t, err)

	// remaining_capital[i] == initial − cumsum(order_expenditure)[i], exactly
	var cum float64
	for i := range perf.OrderExpenditure {
		cum += perf.OrderExpenditure[i]
		assert.Equal(t, cum, perf.CumulativeOrderExpenditure[i])
		assert.Equal(t, 100-cum, perf.RemainingCapital[i])
	}
}

func TestPortfolio_ComputePerformanceIdempotent(t *testing.T) {
	p := portfolio.New(50, 100)
	require.NoError(t, p.Update(signal(domain.SignalBuy, 2.5, 0)))
	require.NoError(t, p.Update(signal(domain.SignalSell, 2.7, 1)))

	first, err := p.ComputePerformance()
	require.NoError(t, err)
	second, err := p.ComputePerformance()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPortfolio_ComputePerformanceSortsByTime(t *testing.T) {
	p := portfolio.New(10, 1, portfolio.WithFeeRate(0))
	// El orden de llegada no coincide con los timestamps.
	require.NoError(t, p.Update(signal(domain.SignalSell, 2.0, 5)))
	require.NoError(t, p.Update(signal(domain.SignalBuy, 1.0, 0)))

	perf, err := p.ComputePerformance()
	require.NoError(t, err)

	assert.Equal(t, at(0), perf.Times[0])
	assert.Equal(t, at(5), perf.Times[1])
	// buy first, then sell: 10 − 1 = 9, then 9 + 2 = 11
	assert.Equal(t, []float64{9, 11}, perf.RemainingCapital)
	assert.InDelta(t, 1.0, perf.BaseIndexPctChange, 1e-12)
}

func TestPortfolio_EmptyLedgerFails(t *testing.T) {
	p := portfolio.New(5, 1000)
	_, err := p.ComputePerformance()
	assert.ErrorIs(t, err, domain.ErrEmptyLedger)
}

func TestPortfolio_FeesConsumeCapitalBothSides(t *testing.T) {
	p := portfolio.New(0, 1, portfolio.WithFeeRate(0.1))
	require.NoError(t, p.Update(signal(domain.SignalBuy, 100, 0)))
	require.NoError(t, p.Update(signal(domain.SignalSell, 100, 1)))

	perf, err := p.ComputePerformance()
	require.NoError(t, err)

	// buy: 100 + 10 fee = 110 out; sell: −100 + 10 fee = −90 in
	assert.Equal(t, []float64{110, -90}, perf.OrderExpenditure)
	assert.Equal(t, -20.0, perf.CumulativeOrderExpenditure[1])
}

func TestPortfolio_UpdateWithOrder(t *testing.T) {
	p := portfolio.New(1000, 5, portfolio.WithFeeRate(0))

	order := domain.Order{
		ID:              "o-1",
		Symbol:          "XRPBTC",
		Side:            domain.OrderBuy,
		Price:           2.00,
		Size:            5,
		Filled:          4.5, // fill parcial: el ledger usa la cantidad real
		EquivalentPrice: 2.02,
		CompletedAt:     at(0),
		State:           domain.OrderStateFilled,
	}
	require.NoError(t, p.Update(order))

	entries := p.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 4.5, entries[0].AmountTraded)
	assert.Equal(t, 2.02, entries[0].ActualPrice) // el equivalente, no el intencionado
	assert.Equal(t, at(0), entries[0].TradeTime)
}

func TestPortfolio_UpdateUnknownOrderSideFails(t *testing.T) {
	p := portfolio.New(1000, 5)

	order := domain.Order{ID: "o-2", Side: "???", Filled: 1, CompletedAt: at(0)}
	err := p.Update(order)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownOrderSide)
	// Nada se apendea: un fill malo no debe mutar el ledger a medias.
	assert.Empty(t, p.Entries())
	assert.Empty(t, p.Orders())
}

func TestPortfolio_UpdateUnknownSignalKindFails(t *testing.T) {
	p := portfolio.New(1000, 5)

	err := p.Update(signal(domain.SignalKind(7), 1.0, 0))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSignalCode)
	// Nada se apendea: un kind desconocido no debe convertirse en entry.
	assert.Empty(t, p.Entries())
	assert.Empty(t, p.Signals())
}

func TestPortfolio_SnapshotRoundTrip(t *testing.T) {
	p := portfolio.New(5, 1000, portfolio.WithFeeRate(0.002))
	require.NoError(t, p.Update(signal(domain.SignalBuy, 1.0, 0)))
	require.NoError(t, p.Update(signal(domain.SignalSell, 1.2, 1)))

	path := t.TempDir() + "/portfolio.json"
	require.NoError(t, p.SaveToDisk(path))

	loaded, err := portfolio.LoadFromDisk(path)
	require.NoError(t, err)

	assert.Equal(t, p.InitialCapital(), loaded.InitialCapital())
	assert.Equal(t, p.TradeAmount(), loaded.TradeAmount())
	assert.Equal(t, p.FeeRate(), loaded.FeeRate())
	assert.Equal(t, p.Entries(), loaded.Entries())
	assert.Equal(t, p.Signals(), loaded.Signals())

	// Las series derivadas se reproducen exactas desde el ledger restaurado.
	want, err := p.ComputePerformance()
	require.NoError(t, err)
	got, err := loaded.ComputePerformance()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPortfolio_LoadFromDiskMissingFile(t *testing.T) {
	_, err := portfolio.LoadFromDisk(t.TempDir() + "/nope.json")
	assert.Error(t, err)
}

func TestPortfolio_LoadFromDiskRejectsUnknownSignalKind(t *testing.T) {
	path := t.TempDir() + "/portfolio.json"
	corrupt := `{
		"initial_capital": 5,
		"trade_amount": 1000,
		"fee_rate": 0,
		"signals": [{"kind": 7, "price_point": {"value": 1.0, "time": "2018-05-21T00:00:59Z"}}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o600))

	_, err := portfolio.LoadFromDisk(path)
	assert.ErrorIs(t, err, domain.ErrUnknownSignalCode)
}
