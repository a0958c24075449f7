// Package metrics owns the Prometheus registry for the API: estimate outcomes,
// session lifecycle and per route request timings. Every method is nil safe so
// callers built without metrics need no branches
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codg"

// Metrics is one registry plus the collectors registered on it
type Metrics struct {
	reg *prometheus.Registry

	Estimates       *prometheus.CounterVec
	EstimateSeconds prometheus.Histogram
	Sessions        *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
}

// New builds a private registry with the Go and process collectors attached
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_total",
			Help:      "Estimates computed, by outcome status",
		}, []string{"status"}),
		EstimateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_seconds",
			Help:      "Time spent fitting and solving one estimate",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		Sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Session lifecycle events",
		}, []string{"event"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),
		RequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Estimates, m.EstimateSeconds, m.Sessions, m.Requests, m.RequestSeconds,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveEstimate records one finished estimate
func (m *Metrics) ObserveEstimate(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Estimates.WithLabelValues(status).Inc()
	m.EstimateSeconds.Observe(elapsed.Seconds())
}

// SessionEvent counts a lifecycle event such as started, answered or completed
func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.Sessions.WithLabelValues(event).Inc()
}

// ObserveRequest satisfies the access log observer
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
