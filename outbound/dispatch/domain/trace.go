package domain

import "encoding/json"

// TraceRecord guarda os contadores acumulados de uma lane.
//
// Invariante: SucceededRequestsCount <= RequestsCount. O número de falhas é derivado.
type TraceRecord struct {
	LaneID                 LaneID
	RequestsCount          uint64
	SucceededRequestsCount uint64
}

func (r TraceRecord) FailedRequestsCount() uint64 {
	return r.RequestsCount - r.SucceededRequestsCount
}

type traceRecordJSON struct {
	LaneID                 LaneID `json:"lane_id"`
	RequestsCount          uint64 `json:"requests_count"`
	SucceededRequestsCount uint64 `json:"succeeded_requests_count"`
	FailedRequestsCount    uint64 `json:"failed_requests_count"`
}

// MarshalJSON inclui o campo derivado failed_requests_count.
func (r TraceRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(traceRecordJSON{
		LaneID:                 r.LaneID,
		RequestsCount:          r.RequestsCount,
		SucceededRequestsCount: r.SucceededRequestsCount,
		FailedRequestsCount:    r.FailedRequestsCount(),
	})
}

// TraceLedger mapeia lane -> TraceRecord.
//
// Registros são criados no primeiro uso da lane e nunca removidos; contadores só crescem.
// Snapshot retorna uma visão consistente de todas as lanes já tocadas.
type TraceLedger interface {
	RecordOutcome(lane LaneID, succeeded bool)
	Snapshot() []TraceRecord
}
