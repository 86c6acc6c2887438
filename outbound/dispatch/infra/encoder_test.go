package infra

import (
	"bytes"
	"encoding/gob"
	"testing"
)

type sample struct {
	ID   int
	Name string
}

func TestJSONEncoder_Encode(t *testing.T) {
	b, err := NewJSONEncoder().Encode(sample{ID: 1, Name: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"ID":1,"Name":"a"}` {
		t.Fatalf("unexpected payload %s", b)
	}
}

func TestJSONEncoder_FailsOnUnsupportedValue(t *testing.T) {
	if _, err := NewJSONEncoder().Encode(make(chan int)); err == nil {
		t.Fatalf("expected error encoding a channel")
	}
}

func TestGobEncoder_Decodable(t *testing.T) {
	b, err := NewGobEncoder().Encode(sample{ID: 7, Name: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got sample
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 7 || got.Name != "x" {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestNewEncoder_ByName(t *testing.T) {
	for _, name := range []string{"", "json", "gob"} {
		if _, err := NewEncoder(name); err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
	}
	if _, err := NewEncoder("xml"); err == nil {
		t.Fatalf("expected error for unknown encoder")
	}
}
