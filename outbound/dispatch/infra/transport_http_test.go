package infra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPTransport_PostsPayload(t *testing.T) {
	var gotBody, gotCT, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotCT = r.Header.Get("Content-Type")
		gotMethod = r.Method
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, WithHTTPClient(srv.Client()))
	if err := tr.Send(context.Background(), []byte(`{"a":1}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotBody != `{"a":1}` {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if gotCT != "application/json" {
		t.Fatalf("unexpected content type %q", gotCT)
	}
}

func TestHTTPTransport_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, WithContentType("application/octet-stream"))
	if err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestHTTPTransport_NoURL(t *testing.T) {
	if err := NewHTTPTransport("").Send(context.Background(), nil); err == nil {
		t.Fatalf("expected error without url")
	}
}
