package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SourceRequestsTotal   *prometheus.CounterVec
	SourceRequestDuration *prometheus.HistogramVec
	FallbacksTotal        *prometheus.CounterVec
	BreakerState          *prometheus.GaugeVec

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry - для тестов, чтобы не ловить повторную регистрацию в глобальном реестре
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "multisearch_requests_total",
				Help: "Total number of requests processed",
			},
			[]string{"type", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "multisearch_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"type"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "multisearch_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		SourceRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "multisearch_source_requests_total",
				Help: "Total number of upstream source calls",
			},
			[]string{"source", "status"},
		),
		SourceRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "multisearch_source_request_duration_seconds",
				Help:    "Upstream source call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"source"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "multisearch_fallbacks_total",
				Help: "Total number of synthesized fallback results",
			},
			[]string{"source"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "multisearch_breaker_state",
				Help: "Circuit breaker state per source (0 closed, 1 half-open, 2 open)",
			},
			[]string{"source"},
		),

		LLMRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "multisearch_llm_requests_total",
				Help: "Total number of LLM API requests",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "multisearch_llm_request_duration_seconds",
				Help:    "LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "multisearch_cache_hits_total",
				Help: "Total number of cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "multisearch_cache_misses_total",
				Help: "Total number of cache misses",
			},
		),

		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "multisearch_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"scope"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(reqType, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(reqType, status).Inc()
	m.RequestDuration.WithLabelValues(reqType).Observe(duration.Seconds())
}

func (m *Metrics) RecordSourceRequest(source, status string, duration time.Duration) {
	m.SourceRequestsTotal.WithLabelValues(source, status).Inc()
	m.SourceRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) RecordFallback(source string) {
	m.FallbacksTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) SetBreakerState(source string, state float64) {
	m.BreakerState.WithLabelValues(source).Set(state)
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit(scope string) {
	m.RateLimitHitsTotal.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
