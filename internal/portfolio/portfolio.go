// Package portfolio implementa el ledger de posición/cash que convierte
// un stream ordenado en tiempo de señales y fills en series derivadas de
// capital.
//
// El ledger es single-writer: Update y ComputePerformance no deben
// llamarse concurrentemente. No hay locking interno; un feed en vivo y
// un replay apuntando al mismo portfolio necesitan sincronización
// externa.
package portfolio

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

const defaultFeeRate = 0.001 // 0.1% en Binance

// Portfolio es el dueño de la secuencia ordenada de entries de posición
// y del historial de señales y órdenes del que salieron. Las series
// derivadas nunca se guardan; ComputePerformance las recalcula.
type Portfolio struct {
	initialCapital float64
	tradeAmount    float64
	feeRate        float64

	entries []domain.PositionEntry
	signals []domain.Signal
	orders  []domain.Order
}

// Option configura un Portfolio en construcción.
type Option func(*Portfolio)

// WithFeeRate sobreescribe el fee rate por defecto. Un rate de 0
// desactiva los fees.
func WithFeeRate(rate float64) Option {
	return func(p *Portfolio) { p.feeRate = rate }
}

// New crea un portfolio vacío. Capital y trade amount son parámetros
// explícitos del constructor, nunca globals.
func New(initialCapital, tradeAmount float64, opts ...Option) *Portfolio {
	p := &Portfolio{
		initialCapital: initialCapital,
		tradeAmount:    tradeAmount,
		feeRate:        defaultFeeRate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Portfolio) InitialCapital() float64 { return p.initialCapital }
func (p *Portfolio) TradeAmount() float64    { return p.tradeAmount }
func (p *Portfolio) FeeRate() float64        { return p.feeRate }

// Signals devuelve el historial de señales recibidas en orden de llegada.
func (p *Portfolio) Signals() []domain.Signal {
	out := make([]domain.Signal, len(p.signals))
	copy(out, p.signals)
	return out
}

// Orders devuelve el historial de órdenes recibidas en orden de llegada.
func (p *Portfolio) Orders() []domain.Order {
	out := make([]domain.Order, len(p.orders))
	copy(out, p.orders)
	return out
}

// Entries devuelve las entries de posición en orden de llegada.
func (p *Portfolio) Entries() []domain.PositionEntry {
	out := make([]domain.PositionEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Update ingiere una señal o una orden ejecutada. Las señales aportan
// una entry de ±tradeAmount (Hold aporta cero) al precio y tiempo de la
// señal; las órdenes aportan su cantidad realmente llenada al precio
// realizado y tiempo de completado. Un evento malformado es un bug fatal
// del pipeline y se reporta, nunca se salta.
func (p *Portfolio) Update(ev domain.LedgerEvent) error {
	switch e := ev.(type) {
	case domain.Signal:
		if err := p.appendSignal(e); err != nil {
			return err
		}
	case domain.Order:
		if err := p.appendOrder(e); err != nil {
			return err
		}
	default:
		return fmt.Errorf("portfolio.Update: unsupported event %T", ev)
	}
	return nil
}

func (p *Portfolio) appendSignal(s domain.Signal) error {
	var amount float64
	switch s.Kind {
	case domain.SignalBuy:
		amount = p.tradeAmount
	case domain.SignalSell:
		amount = -p.tradeAmount
	case domain.SignalHold:
		amount = 0
	default:
		// Un kind fuera de {-1, 0, 1} es un snapshot corrupto o un bug
		// del pipeline; aceptarlo rompería el ledger en silencio.
		return fmt.Errorf("portfolio.Update: signal kind %d: %w", int(s.Kind), domain.ErrUnknownSignalCode)
	}
	p.entries = append(p.entries, domain.PositionEntry{
		TradeTime:    s.PricePoint.Time,
		AmountTraded: amount,
		ActualPrice:  s.PricePoint.Value,
	})
	p.signals = append(p.signals, s)
	slog.Debug("appended signal", "kind", s.Kind.String(), "price", s.PricePoint.Value)
	return nil
}

func (p *Portfolio) appendOrder(o domain.Order) error {
	amount, err := o.SignedFill()
	if err != nil {
		return fmt.Errorf("portfolio.Update: %w", err)
	}
	p.entries = append(p.entries, domain.PositionEntry{
		TradeTime:    o.CompletedAt,
		AmountTraded: amount,
		ActualPrice:  o.FillPrice(),
	})
	p.orders = append(p.orders, o)
	slog.Debug("appended order", "id", o.ID, "side", string(o.Side), "filled", o.Filled)
	return nil
}

// ComputePerformance materializa las series derivadas desde las entries
// de posición. Es una función pura del ledger: idempotente, determinista
// y segura de llamar repetidamente (pero no concurrentemente con Update).
// Un ledger vacío es un error, no una estadística de largo cero.
func (p *Portfolio) ComputePerformance() (domain.Performance, error) {
	if len(p.entries) == 0 {
		return domain.Performance{}, fmt.Errorf("portfolio.ComputePerformance: %w", domain.ErrEmptyLedger)
	}

	// Las sumas acumuladas asumen tiempo monotónico; ordenamos una
	// copia por si las entries llegaron desordenadas.
	entries := make([]domain.PositionEntry, len(p.entries))
	copy(entries, p.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TradeTime.Before(entries[j].TradeTime)
	})

	n := len(entries)
	perf := domain.Performance{
		Times:                      make([]time.Time, n),
		AmountTraded:               make([]float64, n),
		ActualPrice:                make([]float64, n),
		OrderExpenditure:           make([]float64, n),
		CumulativeOrderExpenditure: make([]float64, n),
		RemainingCapital:           make([]float64, n),
	}

	var cumulative float64
	for i, e := range entries {
		perf.Times[i] = e.TradeTime
		perf.AmountTraded[i] = e.AmountTraded
		perf.ActualPrice[i] = e.ActualPrice

		expenditure := e.AmountTraded * e.ActualPrice
		expenditure += math.Abs(expenditure) * p.feeRate
		perf.OrderExpenditure[i] = expenditure

		cumulative += expenditure
		perf.CumulativeOrderExpenditure[i] = cumulative
		perf.RemainingCapital[i] = p.initialCapital - cumulative
	}

	first, last := entries[0], entries[n-1]
	if first.ActualPrice != 0 {
		perf.BaseIndexPctChange = (last.ActualPrice - first.ActualPrice) / first.ActualPrice
	}
	if p.initialCapital != 0 {
		perf.TotalPctChange = (perf.RemainingCapital[n-1] - p.initialCapital) / p.initialCapital
	}

	return perf, nil
}
