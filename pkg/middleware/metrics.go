package middleware

import (
	"bytes"
	"strconv"
	"time"

	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics collects Prometheus metrics for every request passing through its
// middleware: a request counter labeled by method and status, and a latency
// histogram labeled by method.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates a Metrics collector with its own registry, using the
// given namespace for all metric names.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of requests processed.",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.registry.MustRegister(m.requests, m.latency)
	return m
}

// Registry returns the underlying Prometheus registry, for callers that
// want to register additional collectors or gather metrics themselves.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware returns the collection middleware. It records the request
// after the rest of the chain has run, so the status label reflects what
// was actually sent.
func (m *Metrics) Middleware() common.Middleware {
	return func(req *state.Req, res *state.Res, next common.Next) {
		start := time.Now()
		method := req.Method()

		next()

		m.requests.WithLabelValues(method, strconv.Itoa(res.StatusCode())).Inc()
		m.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}

// Handler returns a terminal handler that renders the registry in the
// Prometheus text exposition format, suitable for registering at a metrics
// route.
func (m *Metrics) Handler() common.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return func(req *state.Req, res *state.Res) {
		families, err := m.registry.Gather()
		if err != nil {
			res.Status(500)
			res.Send("failed to gather metrics")
			return
		}

		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, format)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				res.Status(500)
				res.Send("failed to encode metrics")
				return
			}
		}

		res.SetHeader("Content-Type", string(format))
		res.Send(buf.String())
	}
}
