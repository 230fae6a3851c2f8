// Package strategy contiene las fuentes de señales incorporadas. Un
// clasificador entrenado puede reemplazar a cualquiera detrás de
// ports.SignalSource; la regla de cruce de abajo es el default
// determinista que usan los backtests.
package strategy

import (
	"github.com/alejandrodnm/cryptoledger/internal/domain"
)

// SMACrossover emite Buy cuando la media móvil simple rápida cruza por
// encima de la lenta, Sell en el cruce opuesto y Hold entre medio.
type SMACrossover struct {
	fast rollingMean
	slow rollingMean

	// lastAbove registra si la rápida estaba por encima de la lenta en
	// la vela anterior ya calentada.
	lastAbove bool
	primed    bool
}

// NewSMACrossover construye una fuente de cruce. Las ventanas son en
// velas; fast tiene que ser menor que slow, lo inválido se ajusta.
func NewSMACrossover(fastWindow, slowWindow int) *SMACrossover {
	if fastWindow < 1 {
		fastWindow = 1
	}
	if slowWindow <= fastWindow {
		slowWindow = fastWindow + 1
	}
	return &SMACrossover{
		fast: newRollingMean(fastWindow),
		slow: newRollingMean(slowWindow),
	}
}

// Warmup devuelve cuántas velas consume la fuente hasta su primera
// emisión: la media lenta tiene que llenarse primero.
func (s *SMACrossover) Warmup() int { return s.slow.size }

// Observe implementa ports.SignalSource.
func (s *SMACrossover) Observe(c domain.Candle) (domain.Signal, bool) {
	s.fast.push(c.Close)
	s.slow.push(c.Close)
	if !s.slow.full() {
		return domain.Signal{}, false
	}

	above := s.fast.mean() > s.slow.mean()
	pp := c.ClosePricePoint()

	if !s.primed {
		s.primed = true
		s.lastAbove = above
		return domain.NewHold(pp), true
	}

	defer func() { s.lastAbove = above }()
	switch {
	case above && !s.lastAbove:
		return domain.NewBuy(pp), true
	case !above && s.lastAbove:
		return domain.NewSell(pp), true
	}
	return domain.NewHold(pp), true
}

// rollingMean es una media corrida de ventana fija sobre cierres.
type rollingMean struct {
	size int
	buf  []float64
	next int
	n    int
	sum  float64
}

func newRollingMean(size int) rollingMean {
	return rollingMean{size: size, buf: make([]float64, size)}
}

func (r *rollingMean) push(v float64) {
	if r.n == r.size {
		r.sum -= r.buf[r.next]
	} else {
		r.n++
	}
	r.buf[r.next] = v
	r.sum += v
	r.next = (r.next + 1) % r.size
}

func (r *rollingMean) full() bool { return r.n == r.size }

func (r *rollingMean) mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.sum / float64(r.n)
}
