package domain

import "context"

// Transport envia bytes por um meio possivelmente não confiável.
// Retry, encoding e detalhes de rede ficam a cargo da implementação.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
}

// Encoder converte a requisição do chamador em bytes.
type Encoder interface {
	Encode(v any) ([]byte, error)
}
