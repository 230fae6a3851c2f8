package domain

import "time"

// PositionEntry es una línea del ledger: una cantidad con signo operada a
// un precio y un tiempo. AmountTraded es el flujo de activo — positivo en
// compras, negativo en ventas, cero en holds — así el cash flow de la
// entry es siempre AmountTraded × ActualPrice.
type PositionEntry struct {
	TradeTime    time.Time `json:"trade_time"`
	AmountTraded float64   `json:"amount_traded"`
	ActualPrice  float64   `json:"actual_price"`
}
