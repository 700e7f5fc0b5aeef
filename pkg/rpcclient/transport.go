package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
)

// Transport sends a single encoded request to the node and returns the
// encoded response. Implementations report connection and status problems
// as *neorpc.TransportError. No retries are made.
type Transport interface {
	Exchange(ctx context.Context, req []byte) ([]byte, error)
	Close() error
}

// HTTPTransport is a Transport making one POST request per exchange.
type HTTPTransport struct {
	cli      *http.Client
	endpoint string
	user     string
	password string
}

// NewHTTPTransport creates an HTTP transport for the given endpoint using
// timeouts, connection limit and credentials from opts.
func NewHTTPTransport(endpoint string, opts Options) *HTTPTransport {
	return &HTTPTransport{
		cli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: opts.DialTimeout,
				}).DialContext,
				MaxConnsPerHost: opts.MaxConnsPerHost,
			},
			Timeout: opts.RequestTimeout,
		},
		endpoint: endpoint,
		user:     opts.User,
		password: opts.Password,
	}
}

// Exchange implements the Transport interface.
func (t *HTTPTransport) Exchange(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &neorpc.TransportError{Op: "send", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if t.user != "" {
		req.SetBasicAuth(t.user, t.password)
	}
	resp, err := t.cli.Do(req)
	if err != nil {
		return nil, &neorpc.TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &neorpc.TransportError{Op: "receive", StatusCode: resp.StatusCode, Err: err}
	}
	// The node might send us a proper JSON anyway, so if it parses it has
	// more relevant data than HTTP error code.
	if resp.StatusCode != http.StatusOK && !json.Valid(body) {
		return nil, &neorpc.TransportError{
			Op:         "receive",
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	return body, nil
}

// Close closes idle connections.
func (t *HTTPTransport) Close() error {
	t.cli.CloseIdleConnections()
	return nil
}
