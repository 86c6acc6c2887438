package infra

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"outbound-dispatcher/outbound/dispatch/domain"
)

type jsonEncoder struct{}

// NewJSONEncoder cria um encoder usando encoding/json (padrão do Dispatcher).
func NewJSONEncoder() domain.Encoder { return jsonEncoder{} }

func (jsonEncoder) Encode(v any) ([]byte, error) { return json.Marshal(v) }

type gobEncoder struct{}

// NewGobEncoder cria um encoder usando o formato binário gob.
func NewGobEncoder() domain.Encoder { return gobEncoder{} }

func (gobEncoder) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewEncoder escolhe o encoder pelo nome ("json" ou "gob").
func NewEncoder(name string) (domain.Encoder, error) {
	switch name {
	case "", "json":
		return NewJSONEncoder(), nil
	case "gob":
		return NewGobEncoder(), nil
	default:
		return nil, fmt.Errorf("invalid encoder %s", name)
	}
}
