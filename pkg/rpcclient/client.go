package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
)

// Client represents the middleman for executing JSON RPC calls
// to remote NEO RPC nodes. Client is thread-safe and can be used from
// multiple goroutines.
type Client struct {
	endpoint  *url.URL
	ctx       context.Context
	opts      Options
	transport Transport
	log       *zap.Logger
	metrics   *metrics

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID to be used for the subsequent request creation.
	// It is defined on Client, so that our testing code can override this method
	// for the sake of more predictable request IDs generation behavior.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client.
// All values are optional. If any duration is not specified,
// a default of 4 seconds will be used.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int
	// User and Password are used for the Basic authentication if User is set.
	User     string
	Password string

	// Logger is used to log every exchange at the Debug level, nop logger
	// is used by default.
	Logger *zap.Logger
	// Registerer is used to register client metrics, no metrics are
	// collected if it's nil.
	Registerer prometheus.Registerer
	// Transport overrides the default transport picked by the endpoint
	// scheme (WebSocket for ws/wss, HTTP for anything else).
	Transport Transport
}

// New returns a new Client ready to use. ctx bounds the lifetime of the
// underlying connections, it's not used to cancel individual calls.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	cl := new(Client)
	err := initClient(ctx, cl, endpoint, opts)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func initClient(ctx context.Context, cl *Client, endpoint string, opts Options) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	tr := opts.Transport
	if tr == nil {
		switch u.Scheme {
		case "ws", "wss":
			tr, err = NewWSTransport(ctx, u.String(), opts)
			if err != nil {
				return err
			}
		default:
			tr = NewHTTPTransport(u.String(), opts)
		}
	}
	m, err := newMetrics(opts.Registerer)
	if err != nil {
		_ = tr.Close()
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	cl.ctx = ctx
	cl.endpoint = u
	cl.transport = tr
	cl.log = opts.Logger
	cl.metrics = m
	cl.latestReqID = atomic.NewUint64(0)
	cl.getNextRequestID = (cl).getRequestID
	cl.opts = opts
	return nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Init checks that the node is reachable and returns its version. Nothing
// is cached, the version contains the network magic transactions should be
// signed for.
func (c *Client) Init() (*result.Version, error) {
	version, err := c.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get network magic: %w", err)
	}
	return version, nil
}

// Endpoint returns the client endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// performRequest makes exactly one exchange with the node and returns the raw
// result. Node errors are returned as *neorpc.Error, transport failures as
// *neorpc.TransportError.
func (c *Client) performRequest(method string, p []any) (json.RawMessage, error) {
	var (
		id    = c.getNextRequestID()
		start = time.Now()
	)
	req, err := neorpc.NewRequest(id, method, p...)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	res, err := c.exchange(id, data)
	c.metrics.observe(method, err, time.Since(start))
	if err != nil {
		c.log.Debug("RPC request failed",
			zap.String("method", method),
			zap.Uint64("id", id),
			zap.Duration("time", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	c.log.Debug("RPC request",
		zap.String("method", method),
		zap.Uint64("id", id),
		zap.Duration("time", time.Since(start)))
	return res, nil
}

func (c *Client) exchange(id uint64, data []byte) (json.RawMessage, error) {
	body, err := c.transport.Exchange(c.ctx, data)
	if err != nil {
		return nil, err
	}
	resp := new(neorpc.Response)
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, &neorpc.TransportError{Op: "decode", Err: err}
	}
	// Some errors (like parse errors) can't be attributed to any request,
	// so they come with a null ID.
	if !resp.HasNullID() && !resp.IDMatches(id) {
		return nil, &neorpc.TransportError{
			Op:  "correlate",
			Err: fmt.Errorf("response ID %s doesn't match request ID %d", string(resp.ID), id),
		}
	}
	return resp.Unwrap()
}

// Ping attempts to create a connection to the endpoint
// and returns an error if there is any.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("tcp", c.endpoint.Host, c.opts.DialTimeout)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
