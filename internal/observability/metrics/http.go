package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics collects request-level and pipeline-level metrics
// for the query API.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pipelineRequestsTotal *prometheus.CounterVec
	pipelineStageDuration *prometheus.HistogramVec
	pipelineVerdictTotal  *prometheus.CounterVec
	retrievedPassages     *prometheus.HistogramVec
	llmFailoverTotal      *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndra",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndra",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ndra",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pipelineRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndra",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total completed pipeline runs by intent.",
		},
		[]string{"service", "intent"},
	)
	pipelineStageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndra",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "stage"},
	)
	pipelineVerdictTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndra",
			Subsystem: "pipeline",
			Name:      "verdicts_total",
			Help:      "Total parsed verdicts by value.",
		},
		[]string{"service", "verdict"},
	)
	retrievedPassages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndra",
			Subsystem: "pipeline",
			Name:      "retrieved_passages",
			Help:      "Distribution of retrieved passages per run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)
	llmFailoverTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndra",
			Subsystem: "llm",
			Name:      "failover_total",
			Help:      "Total provider failures that triggered failover.",
		},
		[]string{"service", "provider"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pipelineRequestsTotal,
		pipelineStageDuration,
		pipelineVerdictTotal,
		retrievedPassages,
		llmFailoverTotal,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		pipelineRequestsTotal: pipelineRequestsTotal,
		pipelineStageDuration: pipelineStageDuration,
		pipelineVerdictTotal:  pipelineVerdictTotal,
		retrievedPassages:     retrievedPassages,
		llmFailoverTotal:      llmFailoverTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &metricsStatusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	if len(path) > len("/v1/documents/") && path[:len("/v1/documents/")] == "/v1/documents/" {
		return "/v1/documents/{document_id}"
	}
	return path
}

// RecordPipelineRun records one completed pipeline execution.
func (m *HTTPServerMetrics) RecordPipelineRun(service, intent, verdict string, passages int, retrieval, inference, total float64) {
	m.pipelineRequestsTotal.WithLabelValues(service, intent).Inc()
	m.pipelineVerdictTotal.WithLabelValues(service, verdict).Inc()
	m.retrievedPassages.WithLabelValues(service).Observe(float64(passages))
	m.pipelineStageDuration.WithLabelValues(service, "retrieval").Observe(retrieval)
	m.pipelineStageDuration.WithLabelValues(service, "inference").Observe(inference)
	m.pipelineStageDuration.WithLabelValues(service, "total").Observe(total)
}

// RecordFailover counts a provider failure that caused the next
// provider to be tried.
func (m *HTTPServerMetrics) RecordFailover(service, provider string) {
	m.llmFailoverTotal.WithLabelValues(service, provider).Inc()
}

type metricsStatusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *metricsStatusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *metricsStatusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *metricsStatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
