package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// RunStorage persiste los runs de backtest completados.
type RunStorage interface {
	// SaveRun persiste un run junto con sus entries del ledger y su
	// historial de señales.
	SaveRun(ctx context.Context, run domain.RunResult) error

	// ListRuns devuelve los resúmenes de los runs terminados en el
	// rango dado, los más nuevos primero.
	ListRuns(ctx context.Context, from, to time.Time) ([]domain.RunSummary, error)

	// GetRunEntries devuelve las entries de posición de un run
	// guardado en orden de trade time.
	GetRunEntries(ctx context.Context, runID string) ([]domain.PositionEntry, error)

	// Close libera la base de datos subyacente.
	Close() error
}
