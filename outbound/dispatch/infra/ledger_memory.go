package infra

import (
	"sort"
	"sync"

	"outbound-dispatcher/outbound/dispatch/domain"
)

// MemoryTraceLedger é o ledger em memória usado pelo Dispatcher.
//
// Não persiste nada: os contadores vivem enquanto o processo viver.
type MemoryTraceLedger struct {
	mu      sync.Mutex
	records map[domain.LaneID]domain.TraceRecord
}

func NewMemoryTraceLedger() *MemoryTraceLedger {
	return &MemoryTraceLedger{
		records: make(map[domain.LaneID]domain.TraceRecord),
	}
}

func (l *MemoryTraceLedger) RecordOutcome(lane domain.LaneID, succeeded bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[lane]
	if !ok {
		r = domain.TraceRecord{LaneID: lane}
	}
	r.RequestsCount++
	if succeeded {
		r.SucceededRequestsCount++
	}
	l.records[lane] = r
}

// Snapshot copia os registros sob o lock, ordenados por lane.
func (l *MemoryTraceLedger) Snapshot() []domain.TraceRecord {
	l.mu.Lock()
	out := make([]domain.TraceRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].LaneID < out[j].LaneID })
	return out
}
