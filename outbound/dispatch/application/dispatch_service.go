package application

import (
	"context"
	"errors"
	"time"

	"outbound-dispatcher/outbound/dispatch/domain"

	"github.com/go-logr/logr"
)

// DispatchService concentra a regra de envio limitada por lanes,
// sem saber nada sobre como os bytes trafegam.
type DispatchService struct {
	Pool      domain.LanePool
	Ledger    domain.TraceLedger
	Encoder   domain.Encoder
	Transport domain.Transport
	// Sink é opcional e best-effort.
	Sink   domain.OutcomeSink
	Logger logr.Logger

	// Now é usado para carimbar OutcomeEvent. Se nil, usa time.Now.
	Now func() time.Time
}

// Send despacha uma requisição.
//
// A lane é liberada em todos os caminhos de saída (inclusive panic do encoder ou
// do transporte). Falha de encoding não chega ao ledger e é devolvida como
// *domain.EncodingError. Falha de transporte é registrada e engolida.
// O Sink só é chamado depois do release, fora do tempo em que a lane fica presa.
func (s DispatchService) Send(ctx context.Context, request any) error {
	lane := s.Pool.Acquire()

	var outcome *domain.OutcomeEvent
	defer func() {
		if outcome != nil {
			s.publish(ctx, *outcome)
		}
	}()
	defer s.release(lane)

	payload, err := s.Encoder.Encode(request)
	if err != nil {
		return &domain.EncodingError{Err: err}
	}

	succeeded := true
	if err := s.Transport.Send(ctx, payload); err != nil {
		succeeded = false
		trErr := &domain.TransportError{Lane: lane, Err: err}
		s.Logger.V(1).Info("transport call failed", "lane", lane, "error", trErr.Error())
	}
	s.Ledger.RecordOutcome(lane, succeeded)
	if s.Sink != nil {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		outcome = &domain.OutcomeEvent{Lane: lane, Succeeded: succeeded, At: now()}
	}
	return nil
}

func (s DispatchService) publish(ctx context.Context, ev domain.OutcomeEvent) {
	if err := s.Sink.Record(ctx, ev); err != nil {
		s.Logger.Error(err, "outcome sink record failed", "lane", ev.Lane)
	}
}

func (s DispatchService) release(lane domain.LaneID) {
	if err := s.Pool.Release(lane); err != nil {
		// só acontece com um LanePool defeituoso; não há o que devolver ao chamador
		s.Logger.Error(err, "lane release failed", "lane", lane, "notHeld", errors.Is(err, domain.ErrLaneNotHeld))
	}
}
