package domain

import "time"

// Candle es una barra OHLCV sobre un intervalo fijo.
type Candle struct {
	Symbol    string    `json:"symbol"`
	OpenTime  time.Time `json:"open_time"`
	CloseTime time.Time `json:"close_time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// ClosePricePoint devuelve el cierre de la vela como PricePoint, la
// observación sobre la que operan las fuentes de señales y el ledger.
func (c Candle) ClosePricePoint() PricePoint {
	return PricePoint{Value: c.Close, Time: c.CloseTime}
}
