package domain

import "fmt"

// RunStats es el output del analizador de performance para un run.
type RunStats struct {
	Pairs             []OrderPair
	ProfitsAndLosses  []float64
	Trading           Gains
	Index             Gains
	Net               NetGains
	ProfitPerPair     float64
	Accuracy          float64
	ProfitToLossRatio float64
}

// ComputeRunStatistics postprocesa el historial de señales de un
// portfolio en gains, accuracy y profit por par. El historial crudo se
// deduplica (repeticiones consecutivas pasan a Hold) y se limpia de
// Holds antes de emparejar. Historial insuficiente para formar un par se
// reporta como ErrInsufficientData, no como estadística en cero.
func ComputeRunStatistics(signals []Signal, tradeAmount float64) (RunStats, error) {
	cleaned := CleanupSignals(ReplaceRepeatingSignalsWithHolds(signals))
	pairs := GenerateOrderPairs(cleaned)
	if len(pairs) == 0 {
		return RunStats{}, fmt.Errorf("domain.ComputeRunStatistics: %d cleaned signals form no pairs: %w",
			len(cleaned), ErrInsufficientData)
	}

	trading, err := CalculateTradingGains(pairs, tradeAmount)
	if err != nil {
		return RunStats{}, err
	}
	index, err := CalculateIndexGains(pairs)
	if err != nil {
		return RunStats{}, err
	}
	net, err := NetGainsFrom(trading, index)
	if err != nil {
		return RunStats{}, err
	}
	perPair, err := net.ProfitPerPair(len(pairs))
	if err != nil {
		return RunStats{}, err
	}
	accuracy, err := PredictionAccuracy(cleaned)
	if err != nil {
		return RunStats{}, err
	}

	pnl := ComputeProfitsAndLosses(pairs)
	return RunStats{
		Pairs:             pairs,
		ProfitsAndLosses:  pnl,
		Trading:           trading,
		Index:             index,
		Net:               net,
		ProfitPerPair:     perPair,
		Accuracy:          accuracy,
		ProfitToLossRatio: ProfitToLossRatio(pnl),
	}, nil
}
