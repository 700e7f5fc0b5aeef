package rpcclient

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
)

// ErrWSConnLost is returned for exchanges over a closed WebSocket transport.
var ErrWSConnLost = errors.New("connection lost")

// WSTransport is a Transport working over a single persistent WebSocket
// connection. Exchanges are serialized, the next request is only sent after
// the response to the previous one is received.
type WSTransport struct {
	lock    sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
	closed  bool
}

// NewWSTransport dials the endpoint and returns a ready to use transport.
func NewWSTransport(ctx context.Context, endpoint string, opts Options) (*WSTransport, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.DialTimeout,
	}
	var header http.Header
	if opts.User != "" {
		header = http.Header{}
		header.Set("Authorization", "Basic "+
			base64.StdEncoding.EncodeToString([]byte(opts.User+":"+opts.Password)))
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		terr := &neorpc.TransportError{Op: "dial", Err: err}
		if resp != nil {
			terr.StatusCode = resp.StatusCode
		}
		return nil, terr
	}
	return &WSTransport{
		conn:    conn,
		timeout: opts.RequestTimeout,
	}, nil
}

// Exchange implements the Transport interface.
func (t *WSTransport) Exchange(ctx context.Context, data []byte) ([]byte, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return nil, &neorpc.TransportError{Op: "send", Err: ErrWSConnLost}
	}
	if err := ctx.Err(); err != nil {
		return nil, &neorpc.TransportError{Op: "send", Err: err}
	}
	if t.timeout > 0 {
		deadline := time.Now().Add(t.timeout)
		_ = t.conn.SetWriteDeadline(deadline)
		_ = t.conn.SetReadDeadline(deadline)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.drop()
		return nil, &neorpc.TransportError{Op: "send", Err: err}
	}
	_, msg, err := t.conn.ReadMessage()
	if err != nil {
		t.drop()
		return nil, &neorpc.TransportError{Op: "receive", Err: err}
	}
	return msg, nil
}

// drop closes the connection after a failed exchange, it can't be reused
// then. Must be called with the lock held.
func (t *WSTransport) drop() {
	t.closed = true
	_ = t.conn.Close()
}

// Close sends the close frame and closes the connection.
func (t *WSTransport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return t.conn.Close()
}
