// Package metric exposes Prometheus instrumentation for the protocol
// client: request counts per operation, traversal cache hits, points
// sent, and stream message counts, on a private registry so multiple
// clients in one process never collide.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics holds the instrument set for one protocol client. All
// methods are safe on a nil receiver so instrumentation stays optional.
type ClientMetrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestErrorsTotal *prometheus.CounterVec
	cacheHitsTotal     prometheus.Counter
	pointsSentTotal    prometheus.Counter
	streamMsgsTotal    *prometheus.CounterVec
}

// NewClientMetrics creates and registers the client instrument set on
// a fresh private registry, along with Go runtime collectors.
func NewClientMetrics() *ClientMetrics {
	registry := prometheus.NewRegistry()

	m := &ClientMetrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nodewire",
			Name:      "requests_total",
			Help:      "Protocol requests issued, by operation",
		}, []string{"op"}),
		requestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nodewire",
			Name:      "request_errors_total",
			Help:      "Protocol requests that failed, by operation",
		}, []string{"op"}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nodewire",
			Name:      "traversal_cache_hits_total",
			Help:      "Node ids resolved from the per-call traversal cache",
		}),
		pointsSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nodewire",
			Name:      "points_sent_total",
			Help:      "Points sent via SendNodePoints and SendEdgePoints",
		}),
		streamMsgsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nodewire",
			Name:      "stream_messages_total",
			Help:      "Messages decoded from subscriptions, by stream kind",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestErrorsTotal,
		m.cacheHitsTotal,
		m.pointsSentTotal,
		m.streamMsgsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying Prometheus registry
func (m *ClientMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the
// Prometheus exposition format.
func (m *ClientMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncRequest counts one protocol request for op
func (m *ClientMetrics) IncRequest(op string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(op).Inc()
}

// IncRequestError counts one failed protocol request for op
func (m *ClientMetrics) IncRequestError(op string) {
	if m == nil {
		return
	}
	m.requestErrorsTotal.WithLabelValues(op).Inc()
}

// IncCacheHit counts one traversal cache hit
func (m *ClientMetrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHitsTotal.Inc()
}

// AddPointsSent counts n points handed to a send operation
func (m *ClientMetrics) AddPointsSent(n int) {
	if m == nil {
		return
	}
	m.pointsSentTotal.Add(float64(n))
}

// IncStreamMessage counts one decoded subscription message for kind
// ("points", "messages", "notifications").
func (m *ClientMetrics) IncStreamMessage(kind string) {
	if m == nil {
		return
	}
	m.streamMsgsTotal.WithLabelValues(kind).Inc()
}
