package rpcclient

import (
	"errors"
	"strconv"
	"time"

	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics is a set of client metrics, nil metrics are valid and do nothing.
type metrics struct {
	requests *prometheus.CounterVec
	times    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Help:      "Number of RPC requests made by method and status",
				Name:      "requests_total",
				Namespace: "neorpc",
				Subsystem: "client",
			},
			[]string{"method", "status"},
		),
		times: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Help:      "RPC request round-trip time",
				Name:      "request_duration_seconds",
				Namespace: "neorpc",
				Subsystem: "client",
			},
			[]string{"method"},
		),
	}
	for _, c := range []prometheus.Collector{m.requests, m.times} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(method string, err error, t time.Duration) {
	if m == nil {
		return
	}
	m.times.WithLabelValues(method).Observe(t.Seconds())
	m.requests.WithLabelValues(method, status(err)).Inc()
}

// status returns a metric label for the request outcome: "ok", "transport"
// or the node error code.
func status(err error) string {
	if err == nil {
		return "ok"
	}
	var rpcErr *neorpc.Error
	if errors.As(err, &rpcErr) {
		return strconv.FormatInt(rpcErr.Code, 10)
	}
	var trErr *neorpc.TransportError
	if errors.As(err, &trErr) {
		return "transport"
	}
	return "error"
}
