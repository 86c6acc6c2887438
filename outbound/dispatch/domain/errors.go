package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be > 0")
	ErrNilTransport    = errors.New("transport is required")
	ErrUnknownLane     = errors.New("lane does not belong to pool")
	ErrLaneNotHeld     = errors.New("lane is not held")
)

// EncodingError indica falha de serialização antes de qualquer tentativa de rede.
// É o único erro que Send propaga ao chamador.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string { return fmt.Sprintf("encode request: %v", e.Err) }
func (e *EncodingError) Unwrap() error { return e.Err }

// TransportError indica falha de rede numa lane.
// Ele é registrado no ledger e logado, nunca devolvido ao chamador de Send.
type TransportError struct {
	Lane LaneID
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport send on lane %d: %v", e.Lane, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }
