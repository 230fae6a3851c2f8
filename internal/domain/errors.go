package domain

import "errors"

var (
	// ErrEmptyLedger se devuelve al pedir performance sobre un
	// portfolio que nunca recibió una señal u orden.
	ErrEmptyLedger = errors.New("portfolio ledger is empty")

	// ErrInsufficientData se devuelve por estadísticas indefinidas
	// sobre inputs demasiado cortos (index gains sobre cero pares,
	// accuracy sobre una sola señal).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrWindowMismatch se devuelve al pedir net gains desde trading e
	// index gains medidos sobre ventanas de tiempo distintas.
	ErrWindowMismatch = errors.New("gains measured over mismatched time windows")

	// ErrUnknownOrderSide señala una orden malformada llegando al
	// ledger. El pipeline upstream tiene un bug; saltarla rompería en
	// silencio la reconciliación cash/posición.
	ErrUnknownOrderSide = errors.New("unknown order side")

	// ErrUnknownSignalCode señala un código de predicción fuera de {-1, 0, 1}.
	ErrUnknownSignalCode = errors.New("unknown signal code")
)
