package strategy_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
	"github.com/alejandrodnm/cryptoledger/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candles(closes ...float64) []domain.Candle {
	t0 := time.Date(2018, 5, 21, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Candle, len(closes))
	for i, c := range closes {
		out[i] = domain.Candle{
			Symbol:    "XRPBTC",
			OpenTime:  t0.Add(time.Duration(i) * time.Minute),
			CloseTime: t0.Add(time.Duration(i+1)*time.Minute - time.Millisecond),
			Close:     c,
		}
	}
	return out
}

func observeAll(src *strategy.SMACrossover, cs []domain.Candle) []domain.Signal {
	var signals []domain.Signal
	for _, c := range cs {
		if s, ok := src.Observe(c); ok {
			signals = append(signals, s)
		}
	}
	return signals
}

func TestSMACrossover_WarmupSuppressesOutput(t *testing.T) {
	src := strategy.NewSMACrossover(2, 4)

	signals := observeAll(src, candles(1, 1, 1))
	assert.Empty(t, signals)
}

func TestSMACrossover_WarmupReportsSlowWindow(t *testing.T) {
	src := strategy.NewSMACrossover(2, 4)
	assert.Equal(t, 4, src.Warmup())

	// Con exactamente Warmup() velas llega la primera emisión.
	signals := observeAll(src, candles(1, 1, 1, 1))
	assert.Len(t, signals, 1)
}

func TestSMACrossover_BuyThenSell(t *testing.T) {
	src := strategy.NewSMACrossover(2, 3)

	// La bajada mantiene la rápida debajo de la lenta, el rally la cruza
	// hacia arriba (Buy), el derrumbe la devuelve abajo (Sell).
	signals := observeAll(src, candles(10, 9, 8, 7, 9, 12, 13, 9, 5, 4))

	var kinds []domain.SignalKind
	for _, s := range signals {
		if s.Kind != domain.SignalHold {
			kinds = append(kinds, s.Kind)
		}
	}
	require.Equal(t, []domain.SignalKind{domain.SignalBuy, domain.SignalSell}, kinds)
}

func TestSMACrossover_FlatSeriesHolds(t *testing.T) {
	src := strategy.NewSMACrossover(2, 3)

	for _, s := range observeAll(src, candles(5, 5, 5, 5, 5, 5)) {
		assert.Equal(t, domain.SignalHold, s.Kind)
	}
}

func TestSMACrossover_SignalCarriesClosePricePoint(t *testing.T) {
	src := strategy.NewSMACrossover(1, 2)
	cs := candles(1, 2, 3)

	signals := observeAll(src, cs)
	require.NotEmpty(t, signals)

	last := signals[len(signals)-1]
	assert.Equal(t, cs[2].Close, last.PricePoint.Value)
	assert.Equal(t, cs[2].CloseTime, last.PricePoint.Time)
}

func TestScripted_ReplaysCodes(t *testing.T) {
	src := strategy.NewScripted([]int{-1, 0, 1})
	cs := candles(1.0, 1.1, 1.2, 1.3)

	var kinds []domain.SignalKind
	for _, c := range cs {
		if s, ok := src.Observe(c); ok {
			kinds = append(kinds, s.Kind)
		}
	}

	// Agotada tras tres códigos: la cuarta vela no emite nada.
	assert.Equal(t, []domain.SignalKind{domain.SignalBuy, domain.SignalHold, domain.SignalSell}, kinds)
}

func TestScripted_UnknownCodeBecomesHold(t *testing.T) {
	src := strategy.NewScripted([]int{7})

	s, ok := src.Observe(candles(1.0)[0])
	require.True(t, ok)
	assert.Equal(t, domain.SignalHold, s.Kind)
}
