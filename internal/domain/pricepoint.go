package domain

import (
	"fmt"
	"time"
)

// PricePoint es una observación de mercado: un precio en un instante.
// Es un value type y nunca se muta después de crearse.
type PricePoint struct {
	Value float64   `json:"value"`
	Time  time.Time `json:"time"`
}

// NewPricePoint construye un PricePoint desde un precio y un timestamp en
// epoch millis, la unidad en la que los exchanges reportan los cierres.
func NewPricePoint(value float64, epochMillis int64) PricePoint {
	return PricePoint{Value: value, Time: time.UnixMilli(epochMillis).UTC()}
}

func (p PricePoint) String() string {
	return fmt.Sprintf("%.8f @ %s", p.Value, p.Time.Format(time.RFC3339))
}
