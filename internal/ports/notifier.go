package ports

import (
	"context"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// Notifier reporta un run terminado donde un humano pueda verlo.
type Notifier interface {
	NotifyRun(ctx context.Context, run domain.RunResult) error
}
