package infra

import (
	"context"

	"outbound-dispatcher/outbound/dispatch/domain"

	"golang.org/x/time/rate"
)

// PacedTransport aplica um token bucket (x/time/rate) antes de cada envio.
//
// Ele fica por fora do Dispatcher: a lane já está adquirida quando Wait roda,
// então o tempo de espera conta como parte da chamada de transporte.
type PacedTransport struct {
	next domain.Transport
	lim  *rate.Limiter
}

var _ domain.Transport = (*PacedTransport)(nil)

func NewPacedTransport(next domain.Transport, rps float64, burst int) *PacedTransport {
	if burst <= 0 {
		burst = 1
	}
	return &PacedTransport{
		next: next,
		lim:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (t *PacedTransport) RPS() float64 { return float64(t.lim.Limit()) }
func (t *PacedTransport) Burst() int   { return t.lim.Burst() }

func (t *PacedTransport) Send(ctx context.Context, payload []byte) error {
	if err := t.lim.Wait(ctx); err != nil {
		return err
	}
	return t.next.Send(ctx, payload)
}
