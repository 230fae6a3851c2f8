package ports

import "github.com/alejandrodnm/cryptoledger/internal/domain"

// SignalSource es lo que produce las señales — un clasificador
// entrenado, una regla de cruce, o un doble scripted en tests. El engine
// lo trata como caja negra que emite una dirección por vela observada.
type SignalSource interface {
	// Observe alimenta una vela y devuelve su señal. ok es false
	// mientras la fuente sigue calentando.
	Observe(c domain.Candle) (s domain.Signal, ok bool)
}
