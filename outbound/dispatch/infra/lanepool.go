package infra

import (
	"sync"
	"sync/atomic"

	"outbound-dispatcher/outbound/dispatch/domain"
)

// lanePool mantém o conjunto de lanes livres e um canal de notificações de release.
//
// Toda mutação do conjunto livre acontece sob mu. Ninguém bloqueia segurando mu:
// quem espera fica parado no canal notify e, ao acordar, verifica de novo o conjunto
// (outro chamador pode ter levado a lane antes).
type lanePool struct {
	mu       sync.Mutex
	free     map[domain.LaneID]struct{}
	capacity int

	// notify tem buffer = capacity; um release publica no máximo uma notificação
	// e nunca bloqueia.
	notify chan struct{}

	inflight atomic.Int64
}

// NewLanePool cria um pool com as lanes [0, capacity).
func NewLanePool(capacity int) (domain.LanePool, error) {
	if capacity <= 0 {
		return nil, domain.ErrInvalidCapacity
	}
	free := make(map[domain.LaneID]struct{}, capacity)
	for i := 0; i < capacity; i++ {
		free[domain.LaneID(i)] = struct{}{}
	}
	return &lanePool{
		free:     free,
		capacity: capacity,
		notify:   make(chan struct{}, capacity),
	}, nil
}

func (p *lanePool) Acquire() domain.LaneID {
	for {
		if lane, ok := p.tryTake(); ok {
			return lane
		}
		<-p.notify
	}
}

func (p *lanePool) tryTake() (domain.LaneID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// iteração de map: a escolha da lane é arbitrária
	for lane := range p.free {
		delete(p.free, lane)
		p.inflight.Add(1)
		return lane, true
	}
	return 0, false
}

func (p *lanePool) Release(lane domain.LaneID) error {
	if lane >= domain.LaneID(p.capacity) {
		return domain.ErrUnknownLane
	}

	p.mu.Lock()
	if _, ok := p.free[lane]; ok {
		p.mu.Unlock()
		return domain.ErrLaneNotHeld
	}
	p.free[lane] = struct{}{}
	p.inflight.Add(-1)
	p.mu.Unlock()

	// buffer cheio significa que já existem notificações pendentes; quem consumir
	// qualquer uma delas vai enxergar esta lane no conjunto livre.
	select {
	case p.notify <- struct{}{}:
	default:
	}
	return nil
}

func (p *lanePool) Capacity() int { return p.capacity }

func (p *lanePool) InFlight() int { return int(p.inflight.Load()) }
