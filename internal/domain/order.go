package domain

import (
	"fmt"
	"time"
)

// OrderSide es el lado de un fill realizado.
type OrderSide string

const (
	OrderBuy  OrderSide = "BUY"
	OrderSell OrderSide = "SELL"
)

// OrderState es el estado de ciclo de vida que reporta el exchange (o el
// simulador) para una orden.
type OrderState string

const (
	OrderStateOpen      OrderState = "OPEN"
	OrderStateFilled    OrderState = "FILLED"
	OrderStateCancelled OrderState = "CANCELLED"
	OrderStateRejected  OrderState = "REJECTED"
)

// Order es un trade realizado, en contraste con la intención de un
// Signal. Lleva la cantidad realmente llenada, el precio realmente
// conseguido y el tiempo real de completado — no los intencionados.
type Order struct {
	ID              string     `json:"id"`
	Symbol          string     `json:"symbol"`
	Side            OrderSide  `json:"side"`
	Price           float64    `json:"price"`
	Size            float64    `json:"size"`
	Filled          float64    `json:"filled"`
	EquivalentPrice float64    `json:"equivalent_price"`
	CompletedAt     time.Time  `json:"completed_at"`
	State           OrderState `json:"state"`
}

func (Order) ledgerEvent() {}

// SignedFill devuelve la cantidad llenada con signo según el lado:
// entrada de activo positiva en compra, negativa en venta. Un lado
// desconocido significa que upstream se perdió un fill y no debe
// descartarse en silencio.
func (o Order) SignedFill() (float64, error) {
	switch o.Side {
	case OrderBuy:
		return o.Filled, nil
	case OrderSell:
		return -o.Filled, nil
	}
	return 0, fmt.Errorf("domain.Order.SignedFill: order %q side %q: %w", o.ID, o.Side, ErrUnknownOrderSide)
}

// FillPrice devuelve el precio realizado: el equivalente (ponderado por
// volumen) cuando el exchange lo reporta, el cotizado si no.
func (o Order) FillPrice() float64 {
	if o.EquivalentPrice > 0 {
		return o.EquivalentPrice
	}
	return o.Price
}

// LedgerEvent es la unión etiquetada que consume el portfolio: un Signal
// o una Order. Nada más la satisface.
type LedgerEvent interface {
	ledgerEvent()
}
