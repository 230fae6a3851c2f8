package domain

// OrderPair es un round trip (entrada, salida) formado desde una
// secuencia limpia de señales. El profit es siempre precio de salida
// menos precio de entrada: algo vendido menos algo comprado.
type OrderPair struct {
	Entry Signal
	Exit  Signal
}

// Net devuelve el profit o la pérdida del par por unidad de activo.
func (p OrderPair) Net() float64 {
	return p.Exit.PricePoint.Value - p.Entry.PricePoint.Value
}

// GenerateOrderPairs agrupa una secuencia limpia (sin Holds) en pares
// (entrada, salida). Cuando la secuencia abre con un Sell no hay compra
// previa que lo empareje, así que ese Sell inicial se descarta y el
// emparejado arranca en el segundo elemento. Las secuencias demasiado
// cortas dan un resultado vacío, no un error.
func GenerateOrderPairs(signals []Signal) []OrderPair {
	if len(signals) < 2 {
		return nil
	}
	start := 0
	if signals[0].Kind == SignalSell {
		start = 1
	}
	var pairs []OrderPair
	for i := start; i+1 < len(signals); i += 2 {
		pairs = append(pairs, OrderPair{Entry: signals[i], Exit: signals[i+1]})
	}
	return pairs
}
