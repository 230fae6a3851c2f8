package strategy

import "github.com/alejandrodnm/cryptoledger/internal/domain"

// Scripted reproduce una secuencia predeterminada de códigos de
// dirección, uno por vela, atando cada uno al cierre de la vela. Lo usan
// los runs mock y hace de clasificador en los tests.
type Scripted struct {
	codes []int
	pos   int
}

// NewScripted construye una fuente que emite los códigos dados en orden
// y deja de emitir cuando se agotan.
func NewScripted(codes []int) *Scripted {
	return &Scripted{codes: codes}
}

// Observe implementa ports.SignalSource. Los códigos desconocidos se
// emiten como Holds; el portfolio nunca los ve como trades.
func (s *Scripted) Observe(c domain.Candle) (domain.Signal, bool) {
	if s.pos >= len(s.codes) {
		return domain.Signal{}, false
	}
	code := s.codes[s.pos]
	s.pos++

	sig, err := domain.SignalFromPrediction(code, c.ClosePricePoint())
	if err != nil {
		return domain.NewHold(c.ClosePricePoint()), true
	}
	return sig, true
}
