package domain

import "time"

// Performance son las series derivadas materializadas desde las entries
// del portfolio. Todos los slices comparten el largo y el orden de la
// secuencia de entries (trade time ascendente).
type Performance struct {
	Times                      []time.Time `json:"times"`
	AmountTraded               []float64   `json:"amount_traded"`
	ActualPrice                []float64   `json:"actual_price"`
	OrderExpenditure           []float64   `json:"order_expenditure"`
	CumulativeOrderExpenditure []float64   `json:"cumulative_order_expenditure"`
	RemainingCapital           []float64   `json:"remaining_capital"`

	// Estadísticas puntuales sobre la ventana completa.
	BaseIndexPctChange float64 `json:"base_index_pct_change"`
	TotalPctChange     float64 `json:"total_pct_change"`
}

// RunResult es todo lo que produjo un backtest terminado: el ledger, su
// performance derivada y las estadísticas del analizador. Se persiste
// como estructura read-only; nada downstream la muta.
type RunResult struct {
	ID             string
	Symbol         string
	Interval       string
	StartedAt      time.Time
	FinishedAt     time.Time
	InitialCapital float64
	TradeAmount    float64
	FeeRate        float64

	Entries     []PositionEntry
	Signals     []Signal
	Performance Performance

	// Stats es nil cuando el run produjo muy poco historial para analizar.
	Stats *RunStats
}

// RunSummary es la fila ligera por run que se guarda para los listados
// de historial.
type RunSummary struct {
	ID             string
	Symbol         string
	Interval       string
	FinishedAt     time.Time
	Entries        int
	Pairs          int
	TotalPctChange float64
	NetGains       float64
	Accuracy       float64
}
