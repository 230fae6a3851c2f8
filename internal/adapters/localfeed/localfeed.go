// Package localfeed sirve velas desde un archivo local, para correr
// backtests sin red contra datos históricos ya descargados.
package localfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// Feed implementa ports.CandleProvider leyendo un archivo JSON de velas.
type Feed struct {
	path string
}

// New crea un Feed sobre el archivo dado. El archivo se lee en cada
// llamada a Candles; no hay cache.
func New(path string) *Feed {
	return &Feed{path: path}
}

// Candles devuelve hasta limit velas del archivo, las más recientes,
// ordenadas de más vieja a más nueva. El symbol e interval pedidos se
// ignoran: el archivo ES el dataset del run.
func (f *Feed) Candles(_ context.Context, _, _ string, limit int) ([]domain.Candle, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("localfeed.Candles: read %q: %w", f.path, err)
	}

	var candles []domain.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, fmt.Errorf("localfeed.Candles: parse %q: %w", f.path, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("localfeed.Candles: %q has no candles", f.path)
	}

	// El pipeline asume tiempo monotónico; un archivo editado a mano
	// puede venir desordenado.
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].CloseTime.Before(candles[j].CloseTime)
	})

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}
