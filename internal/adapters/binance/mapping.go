package binance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// parseKline mapea un elemento de la respuesta de /api/v3/klines a una
// Candle. Binance devuelve cada kline como array JSON posicional:
//
//	[ openTime, open, high, low, close, volume, closeTime, ... ]
//
// donde los tiempos son epoch millis y los precios strings decimales.
func parseKline(symbol string, k []any) (domain.Candle, error) {
	if len(k) < 7 {
		return domain.Candle{}, fmt.Errorf("kline has %d fields, want at least 7", len(k))
	}

	openTime, err := klineMillis(k[0])
	if err != nil {
		return domain.Candle{}, fmt.Errorf("open time: %w", err)
	}
	closeTime, err := klineMillis(k[6])
	if err != nil {
		return domain.Candle{}, fmt.Errorf("close time: %w", err)
	}

	prices := make([]float64, 5)
	for i, field := range []string{"open", "high", "low", "close", "volume"} {
		prices[i], err = klinePrice(k[i+1])
		if err != nil {
			return domain.Candle{}, fmt.Errorf("%s: %w", field, err)
		}
	}

	return domain.Candle{
		Symbol:    symbol,
		OpenTime:  time.UnixMilli(openTime).UTC(),
		CloseTime: time.UnixMilli(closeTime).UTC(),
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    prices[4],
	}, nil
}

// klineMillis maneja los campos de timestamp numéricos, que llegan como
// json numbers (float64 a través del decoder de any).
func klineMillis(v any) (int64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("want number, got %T", v)
	}
	return int64(f), nil
}

// klinePrice maneja los campos de precio en string decimal.
func klinePrice(v any) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("want string, got %T", v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return f, nil
}
