package domain

import (
	"fmt"
	"math"
	"time"
)

// Gains es un retorno porcentual medido sobre una ventana de tiempo.
// Trading gains e index gains solo son comparables cuando sus ventanas
// coinciden.
type Gains struct {
	Value   float64       `json:"value"`
	Elapsed time.Duration `json:"elapsed"`
}

func (g Gains) String() string {
	return fmt.Sprintf("gained %.4f%% within a timeframe of %s", g.Value*100, g.Elapsed)
}

// NetGains es la ventaja de la estrategia sobre buy-and-hold: trading
// gains menos index gains sobre la ventana idéntica.
type NetGains struct {
	Value   float64       `json:"value"`
	Elapsed time.Duration `json:"elapsed"`
}

// CalculateTradingGains devuelve el retorno porcentual de la estrategia
// relativo al capital comprometido en el primer trade.
func CalculateTradingGains(pairs []OrderPair, tradeAmount float64) (Gains, error) {
	if len(pairs) == 0 {
		return Gains{}, fmt.Errorf("domain.CalculateTradingGains: no order pairs: %w", ErrInsufficientData)
	}
	var total float64
	for _, p := range pairs {
		total += p.Net()
	}
	initialInvestment := pairs[0].Entry.PricePoint.Value * tradeAmount
	if initialInvestment == 0 {
		return Gains{}, fmt.Errorf("domain.CalculateTradingGains: zero initial investment: %w", ErrInsufficientData)
	}
	return Gains{
		Value:   total * tradeAmount / initialInvestment,
		Elapsed: pairsWindow(pairs),
	}, nil
}

// CalculateIndexGains devuelve el benchmark buy-and-hold sobre la misma
// ventana de precios que los trading gains: última salida contra primera
// entrada.
func CalculateIndexGains(pairs []OrderPair) (Gains, error) {
	if len(pairs) == 0 {
		return Gains{}, fmt.Errorf("domain.CalculateIndexGains: no order pairs: %w", ErrInsufficientData)
	}
	first := pairs[0].Entry.PricePoint
	last := pairs[len(pairs)-1].Exit.PricePoint
	if first.Value == 0 {
		return Gains{}, fmt.Errorf("domain.CalculateIndexGains: zero entry price: %w", ErrInsufficientData)
	}
	return Gains{
		Value:   (last.Value - first.Value) / first.Value,
		Elapsed: pairsWindow(pairs),
	}, nil
}

// NetGainsFrom resta los index gains de los trading gains. Ambos tienen
// que estar medidos sobre la ventana idéntica; cualquier otra cosa
// significa que el caller compara períodos distintos, que es un bug, no
// una estadística.
func NetGainsFrom(trading, index Gains) (NetGains, error) {
	if trading.Elapsed != index.Elapsed {
		return NetGains{}, fmt.Errorf("domain.NetGainsFrom: trading window %s != index window %s: %w",
			trading.Elapsed, index.Elapsed, ErrWindowMismatch)
	}
	return NetGains{Value: trading.Value - index.Value, Elapsed: trading.Elapsed}, nil
}

// ProfitPerPair reparte los net gains entre las órdenes individuales de
// la secuencia de pares (dos órdenes por par).
func (n NetGains) ProfitPerPair(numPairs int) (float64, error) {
	if numPairs == 0 {
		return 0, fmt.Errorf("domain.NetGains.ProfitPerPair: zero pairs: %w", ErrInsufficientData)
	}
	return n.Value / float64(numPairs*2), nil
}

// ComputeProfitsAndLosses devuelve el neto por par, redondeado a 8
// decimales para que el ruido sub-satoshi del float no llegue a los
// reportes.
func ComputeProfitsAndLosses(pairs []OrderPair) []float64 {
	net := make([]float64, len(pairs))
	for i, p := range pairs {
		net[i] = math.Round(p.Net()*1e8) / 1e8
	}
	return net
}

// ProfitToLossRatio es |suma de profits / suma de pérdidas|. Sin pares
// perdedores el ratio es +Inf, igual que la división que nombra.
func ProfitToLossRatio(net []float64) float64 {
	var profits, losses float64
	for _, v := range net {
		if v > 0 {
			profits += v
		} else {
			losses += -v
		}
	}
	if losses == 0 {
		if profits == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return profits / losses
}

// PredictionAccuracy mide el acierto direccional sobre señales no-Hold
// consecutivas: un Buy acierta cuando el siguiente precio es mayor, un
// Sell cuando es menor.
func PredictionAccuracy(signals []Signal) (float64, error) {
	cleaned := CleanupSignals(signals)
	if len(cleaned) < 2 {
		return 0, fmt.Errorf("domain.PredictionAccuracy: need at least 2 signals, have %d: %w",
			len(cleaned), ErrInsufficientData)
	}
	correct := 0
	total := len(cleaned) - 1
	for i := 0; i < total; i++ {
		cur, next := cleaned[i], cleaned[i+1]
		switch cur.Kind {
		case SignalBuy:
			if next.PricePoint.Value > cur.PricePoint.Value {
				correct++
			}
		case SignalSell:
			if next.PricePoint.Value < cur.PricePoint.Value {
				correct++
			}
		}
	}
	return float64(correct) / float64(total), nil
}

func pairsWindow(pairs []OrderPair) time.Duration {
	return pairs[len(pairs)-1].Exit.PricePoint.Time.Sub(pairs[0].Entry.PricePoint.Time)
}
