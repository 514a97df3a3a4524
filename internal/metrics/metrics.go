// Package metrics exposes Prometheus collectors for the HTTP surface and the
// session and verification flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	sessions   *prometheus.CounterVec
	codes      *prometheus.CounterVec
	redemption *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_session_resolutions_total",
			Help: "Session resolution outcomes.",
		}, []string{"result"}),
		codes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_codes_issued_total",
			Help: "Ephemeral codes issued by kind.",
		}, []string{"kind"}),
		redemption: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_code_redemptions_total",
			Help: "Ephemeral code redemption attempts by kind and result.",
		}, []string{"kind", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.sessions, m.codes, m.redemption,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

// SessionResolved counts one resolver outcome, e.g. "access", "reissued" or an error type.
func (m *Metrics) SessionResolved(result string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(result).Inc()
}

func (m *Metrics) CodeIssued(kind string) {
	if m == nil {
		return
	}
	m.codes.WithLabelValues(kind).Inc()
}

func (m *Metrics) CodeRedeemed(kind, result string) {
	if m == nil {
		return
	}
	m.redemption.WithLabelValues(kind, result).Inc()
}
