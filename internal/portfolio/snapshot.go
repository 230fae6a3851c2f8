package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// snapshot es la forma en disco de un portfolio: el ledger completo más
// los parámetros de construcción para reconstruirlo. Round-trip interno
// solamente; no se promete compatibilidad de formato entre sistemas.
type snapshot struct {
	InitialCapital float64                `json:"initial_capital"`
	TradeAmount    float64                `json:"trade_amount"`
	FeeRate        float64                `json:"fee_rate"`
	Entries        []domain.PositionEntry `json:"entries"`
	Signals        []domain.Signal        `json:"signals"`
	Orders         []domain.Order         `json:"orders"`
}

// SaveToDisk escribe un snapshot del objeto completo del ledger. El
// archivo se escribe a una ruta temporal y se renombra al final, así un
// crash a mitad de escritura deja el snapshot anterior intacto.
func (p *Portfolio) SaveToDisk(path string) error {
	snap := snapshot{
		InitialCapital: p.initialCapital,
		TradeAmount:    p.tradeAmount,
		FeeRate:        p.feeRate,
		Entries:        p.entries,
		Signals:        p.signals,
		Orders:         p.orders,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("portfolio.SaveToDisk: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("portfolio.SaveToDisk: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("portfolio.SaveToDisk: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("portfolio.SaveToDisk: close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("portfolio.SaveToDisk: rename: %w", err)
	}
	return nil
}

// LoadFromDisk reconstruye un portfolio desde un snapshot escrito por
// SaveToDisk.
func LoadFromDisk(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("portfolio.LoadFromDisk: read %q: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("portfolio.LoadFromDisk: parse %q: %w", path, err)
	}

	// El JSON trae el kind como entero crudo; un snapshot editado o
	// corrupto no debe entrar al ledger.
	for i, s := range snap.Signals {
		switch s.Kind {
		case domain.SignalBuy, domain.SignalSell, domain.SignalHold:
		default:
			return nil, fmt.Errorf("portfolio.LoadFromDisk: signal %d kind %d: %w",
				i, int(s.Kind), domain.ErrUnknownSignalCode)
		}
	}

	return &Portfolio{
		initialCapital: snap.InitialCapital,
		tradeAmount:    snap.TradeAmount,
		feeRate:        snap.FeeRate,
		entries:        snap.Entries,
		signals:        snap.Signals,
		orders:         snap.Orders,
	}, nil
}
