package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	issued         prometheus.Counter
	issuerFailures prometheus.Counter
}

// NewMetrics registers collectors on reg. A nil registerer yields a no-op Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Failed HTTP requests by domain error code.",
		}, []string{"method", "route", "code"}),
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "giftcards_issued_total",
			Help: "Gift cards persisted after a successful issue.",
		}),
		issuerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "issuer_failures_total",
			Help: "Calls to the code issuer that failed.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.errors, m.issued, m.issuerFailures)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

// GiftCardIssued counts a persisted gift card.
func (m *Metrics) GiftCardIssued() {
	if m == nil {
		return
	}
	m.issued.Inc()
}

// IssuerFailed counts a failed issuer call.
func (m *Metrics) IssuerFailed() {
	if m == nil {
		return
	}
	m.issuerFailures.Inc()
}
