// Package metrics exposes Prometheus counters for the portfolio server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a private registry and every collector registered on it.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	chatIntents     *prometheus.CounterVec
	llmRequests     *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	contactMessages *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the "portfolio" metric prefix.
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

// WithHistogramBuckets sets the latency buckets in seconds.
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) { m.buckets = b }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager creates a Manager backed by a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "portfolio",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.chatIntents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "chat_intents_total",
		Help:      "Chat messages by classified intent",
	}, []string{"intent"})

	m.llmRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "llm_requests_total",
		Help:      "External model calls by outcome",
	}, []string{"outcome"})

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "recommendations_total",
		Help:      "Recommendation results by path (ranked or default)",
	}, []string{"path"})

	m.contactMessages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "contact_messages_total",
		Help:      "Contact form submissions by outcome",
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   m.buckets,
	}, []string{"method", "route"})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordIntent counts a classified chat message.
func (m *Manager) RecordIntent(intent string) {
	m.chatIntents.WithLabelValues(intent).Inc()
}

// RecordLLM counts an external model call: success, failure or unconfigured.
func (m *Manager) RecordLLM(outcome string) {
	m.llmRequests.WithLabelValues(outcome).Inc()
}

// RecordRecommendation counts a recommendation result.
func (m *Manager) RecordRecommendation(ranked bool) {
	path := "default"
	if ranked {
		path = "ranked"
	}
	m.recommendations.WithLabelValues(path).Inc()
}

// RecordContact counts a contact submission: stored, emailed, invalid or failed.
func (m *Manager) RecordContact(outcome string) {
	m.contactMessages.WithLabelValues(outcome).Inc()
}

// RecordHTTP records one served request.
func (m *Manager) RecordHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Middleware records every request using the matched route pattern, so path
// parameters do not explode label cardinality.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
