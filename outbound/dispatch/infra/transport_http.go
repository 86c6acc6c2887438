package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"outbound-dispatcher/outbound/dispatch/domain"
)

// HTTPTransport faz POST do payload numa URL fixa.
// Qualquer status fora de 2xx conta como falha de transporte.
type HTTPTransport struct {
	url         string
	client      *http.Client
	contentType string
}

var _ domain.Transport = (*HTTPTransport)(nil)

type HTTPTransportOption func(*HTTPTransport)

func WithHTTPClient(c *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) { t.client = c }
}

func WithContentType(ct string) HTTPTransportOption {
	return func(t *HTTPTransport) { t.contentType = ct }
}

func NewHTTPTransport(url string, opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		url:         url,
		client:      http.DefaultClient,
		contentType: "application/json",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) Send(ctx context.Context, payload []byte) error {
	if t.url == "" {
		return errors.New("http transport has no url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", t.contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	// drena o corpo para reaproveitar a conexão
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("http error: %s", resp.Status)
	}
	return nil
}
