package domain

import (
	"context"
	"time"
)

// OutcomeEvent representa o resultado de uma chamada ao Transport numa lane.
type OutcomeEvent struct {
	Lane      LaneID
	Succeeded bool

	At time.Time
}

// OutcomeSink é um espelho externo (best-effort) dos resultados.
//
// Implementações podem armazenar em Redis, Postgres, memória, etc.
// O dispatcher trata erro como best-effort (não derruba o envio).
// O TraceLedger em memória continua sendo a fonte de verdade do snapshot.
type OutcomeSink interface {
	Record(ctx context.Context, ev OutcomeEvent) error
}
