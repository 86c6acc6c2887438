package domain

// LaneID identifica uma vaga de concorrência no intervalo [0, capacity).
//
// Uma lane não carrega payload: ela é apenas um token. Segurar uma lane autoriza
// exatamente uma chamada em andamento ao Transport.
type LaneID uint

// LanePool representa um conjunto fixo de lanes.
//
// A semântica é: Acquire bloqueia até conseguir uma lane livre (sem timeout e sem
// cancelamento). Cada Acquire bem-sucedido deve ser pareado com exatamente um Release.
// Qual lane é entregue, e qual chamador em espera é acordado primeiro, não é especificado.
type LanePool interface {
	Acquire() LaneID
	Release(lane LaneID) error
	Capacity() int
	InFlight() int
}
