package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers the offline ingestion job.
type WorkerMetrics struct {
	registry *prometheus.Registry

	documentsTotal     *prometheus.CounterVec
	chunksIndexedTotal *prometheus.CounterVec
	processingDuration *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndra",
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Total processed documents by outcome.",
		},
		[]string{"service", "status"},
	)
	chunksIndexedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndra",
			Subsystem: "ingest",
			Name:      "chunks_indexed_total",
			Help:      "Total chunks written to the vector index.",
		},
		[]string{"service"},
	)
	processingDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndra",
			Subsystem: "ingest",
			Name:      "processing_duration_seconds",
			Help:      "Document processing duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service"},
	)

	registry.MustRegister(documentsTotal, chunksIndexedTotal, processingDuration)

	return &WorkerMetrics{
		registry:           registry,
		documentsTotal:     documentsTotal,
		chunksIndexedTotal: chunksIndexedTotal,
		processingDuration: processingDuration,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) RecordDocument(service, status string, chunks int, duration time.Duration) {
	m.documentsTotal.WithLabelValues(service, status).Inc()
	if chunks > 0 {
		m.chunksIndexedTotal.WithLabelValues(service).Add(float64(chunks))
	}
	m.processingDuration.WithLabelValues(service).Observe(duration.Seconds())
}
