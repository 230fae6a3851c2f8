package localfeed_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/adapters/localfeed"
	"github.com/alejandrodnm/cryptoledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCandles(t *testing.T, candles []domain.Candle) string {
	t.Helper()
	data, err := json.Marshal(candles)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "candles.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func candleAt(minute int, closePrice float64) domain.Candle {
	open := time.Date(2018, 5, 21, 0, minute, 0, 0, time.UTC)
	return domain.Candle{
		Symbol:    "XRPBTC",
		OpenTime:  open,
		CloseTime: open.Add(59 * time.Second),
		Open:      closePrice,
		High:      closePrice,
		Low:       closePrice,
		Close:     closePrice,
		Volume:    100,
	}
}

func TestCandles_ReadsFile(t *testing.T) {
	path := writeCandles(t, []domain.Candle{
		candleAt(0, 1.0), candleAt(1, 1.1), candleAt(2, 0.9),
	})

	got, err := localfeed.New(path).Candles(context.Background(), "XRPBTC", "1m", 0)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].Close)
	assert.Equal(t, 0.9, got[2].Close)
}

func TestCandles_SortsAndLimitsToNewest(t *testing.T) {
	// Desordenadas a propósito.
	path := writeCandles(t, []domain.Candle{
		candleAt(2, 0.9), candleAt(0, 1.0), candleAt(3, 1.1), candleAt(1, 1.05),
	})

	got, err := localfeed.New(path).Candles(context.Background(), "XRPBTC", "1m", 2)
	require.NoError(t, err)

	// Las 2 más recientes, de vieja a nueva.
	require.Len(t, got, 2)
	assert.Equal(t, 0.9, got[0].Close)
	assert.Equal(t, 1.1, got[1].Close)
	assert.True(t, got[0].CloseTime.Before(got[1].CloseTime))
}

func TestCandles_EmptyFileFails(t *testing.T) {
	path := writeCandles(t, []domain.Candle{})
	_, err := localfeed.New(path).Candles(context.Background(), "XRPBTC", "1m", 0)
	assert.Error(t, err)
}

func TestCandles_MissingFileFails(t *testing.T) {
	_, err := localfeed.New(filepath.Join(t.TempDir(), "nope.json")).
		Candles(context.Background(), "XRPBTC", "1m", 0)
	assert.Error(t, err)
}
