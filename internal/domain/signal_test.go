package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pp(value float64, minute int) PricePoint {
	return PricePoint{
		Value: value,
		Time:  time.Date(2018, 5, 21, 0, minute, 59, 0, time.UTC),
	}
}

func TestSignalFromPrediction_ValidCodes(t *testing.T) {
	point := pp(1.0, 0)

	buy, err := SignalFromPrediction(-1, point)
	require.NoError(t, err)
	assert.Equal(t, SignalBuy, buy.Kind)

	sell, err := SignalFromPrediction(1, point)
	require.NoError(t, err)
	assert.Equal(t, SignalSell, sell.Kind)

	hold, err := SignalFromPrediction(0, point)
	require.NoError(t, err)
	assert.Equal(t, SignalHold, hold.Kind)
}

func TestSignalFromPrediction_UnknownCode(t *testing.T) {
	_, err := SignalFromPrediction(7, pp(1.0, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSignalCode)
	assert.Contains(t, err.Error(), "7")
}

func TestReplaceRepeatingSignalsWithHolds(t *testing.T) {
	// predictions [-1, -1, 1, 1, -1] → Buy, Hold, Sell, Hold, Buy
	signals := []Signal{
		NewBuy(pp(1.0, 0)),
		NewBuy(pp(1.1, 1)),
		NewSell(pp(1.2, 2)),
		NewSell(pp(1.3, 3)),
		NewBuy(pp(1.4, 4)),
	}

	cleaned := ReplaceRepeatingSignalsWithHolds(signals)

	kinds := make([]SignalKind, len(cleaned))
	for i, s := range cleaned {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []SignalKind{SignalBuy, SignalHold, SignalSell, SignalHold, SignalBuy}, kinds)

	// Los price points sobreviven la conversión.
	assert.Equal(t, 1.1, cleaned[1].PricePoint.Value)
	assert.Equal(t, 1.3, cleaned[3].PricePoint.Value)
}

func TestReplaceRepeatingSignalsWithHolds_RepeatAcrossHold(t *testing.T) {
	// Un Hold entre dos Buys no resetea la detección de repetidos.
	signals := []Signal{
		NewBuy(pp(1.0, 0)),
		NewHold(pp(1.0, 1)),
		NewBuy(pp(1.1, 2)),
	}

	cleaned := ReplaceRepeatingSignalsWithHolds(signals)

	assert.Equal(t, SignalBuy, cleaned[0].Kind)
	assert.Equal(t, SignalHold, cleaned[1].Kind)
	assert.Equal(t, SignalHold, cleaned[2].Kind)
}

func TestReplaceRepeatingSignalsWithHolds_Empty(t *testing.T) {
	assert.Empty(t, ReplaceRepeatingSignalsWithHolds(nil))
}

func TestCleanupSignals_DropsHolds(t *testing.T) {
	signals := []Signal{
		NewBuy(pp(1.0, 0)),
		NewHold(pp(1.0, 1)),
		NewSell(pp(1.2, 2)),
		NewHold(pp(1.2, 3)),
	}

	cleaned := CleanupSignals(signals)

	require.Len(t, cleaned, 2)
	assert.Equal(t, SignalBuy, cleaned[0].Kind)
	assert.Equal(t, SignalSell, cleaned[1].Kind)
}
