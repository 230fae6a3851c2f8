package domain

import "fmt"

// SignalKind es la dirección de una señal de trading. Los códigos enteros
// son el wire format del clasificador: -1 compra, 1 vende, 0 mantiene.
type SignalKind int

const (
	SignalBuy  SignalKind = -1
	SignalHold SignalKind = 0
	SignalSell SignalKind = 1
)

func (k SignalKind) String() string {
	switch k {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	case SignalHold:
		return "HOLD"
	}
	return fmt.Sprintf("SignalKind(%d)", int(k))
}

// Signal es una intención direccional emitida por vela observada.
// Inmutable después de crearse; el portfolio la consume exactamente una vez.
type Signal struct {
	Kind       SignalKind `json:"kind"`
	PricePoint PricePoint `json:"price_point"`
}

func (Signal) ledgerEvent() {}

func (s Signal) String() string {
	return fmt.Sprintf("Signal(%s at %s)", s.Kind, s.PricePoint)
}

// NewBuy, NewSell y NewHold construyen señales de cada tipo.
func NewBuy(pp PricePoint) Signal  { return Signal{Kind: SignalBuy, PricePoint: pp} }
func NewSell(pp PricePoint) Signal { return Signal{Kind: SignalSell, PricePoint: pp} }
func NewHold(pp PricePoint) Signal { return Signal{Kind: SignalHold, PricePoint: pp} }

// SignalFromPrediction decodifica la predicción entera de un clasificador.
// Un código fuera de {-1, 0, 1} es un bug del pipeline y falla fuerte.
func SignalFromPrediction(code int, pp PricePoint) (Signal, error) {
	switch SignalKind(code) {
	case SignalBuy, SignalSell, SignalHold:
		return Signal{Kind: SignalKind(code), PricePoint: pp}, nil
	}
	return Signal{}, fmt.Errorf("domain.SignalFromPrediction: code %d: %w", code, ErrUnknownSignalCode)
}

// ReplaceRepeatingSignalsWithHolds convierte la segunda y siguientes de
// una racha de señales consecutivas del mismo tipo en Holds, conservando
// el precio. Los Holds no actualizan el estado del último tipo retenido,
// así Buy,Hold,Buy sigue contando como repetición. Esto evita contar
// señales idénticas consecutivas como trades separados.
func ReplaceRepeatingSignalsWithHolds(signals []Signal) []Signal {
	out := make([]Signal, 0, len(signals))
	var last SignalKind
	var seen bool
	for _, s := range signals {
		if s.Kind != SignalHold && seen && s.Kind == last {
			out = append(out, NewHold(s.PricePoint))
			continue
		}
		if s.Kind != SignalHold {
			last = s.Kind
			seen = true
		}
		out = append(out, s)
	}
	return out
}

// CleanupSignals descarta los Holds, dejando la secuencia alternante
// Buy/Sell que consume el resolver de pares.
func CleanupSignals(signals []Signal) []Signal {
	out := make([]Signal, 0, len(signals))
	for _, s := range signals {
		if s.Kind != SignalHold {
			out = append(out, s)
		}
	}
	return out
}
