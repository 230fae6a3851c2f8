package ports

import (
	"context"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// CandleProvider descarga velas OHLCV históricas para un símbolo.
type CandleProvider interface {
	// Candles devuelve hasta limit velas del símbolo en el intervalo
	// dado (ej. "1m"), de la más vieja a la más nueva.
	Candles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error)
}
