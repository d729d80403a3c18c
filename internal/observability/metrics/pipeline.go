package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// PipelineMetrics tracks analysis outcomes regardless of entry point. The
// source label separates synchronous requests ("text", "file") from the
// asynchronous worker path ("queue").
type PipelineMetrics struct {
	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	fallbackTotal    *prometheus.CounterVec
	confidence       *prometheus.HistogramVec
}

func NewPipelineMetrics(registry *prometheus.Registry) *PipelineMetrics {
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "emailai",
			Subsystem: "pipeline",
			Name:      "analyses_total",
			Help:      "Total completed analyses by category and source.",
		},
		[]string{"service", "source", "category"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "emailai",
			Subsystem: "pipeline",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "source"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "emailai",
			Subsystem: "pipeline",
			Name:      "reply_fallback_total",
			Help:      "Total replies served from templates after generator failure.",
		},
		[]string{"service", "category"},
	)
	confidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "emailai",
			Subsystem: "pipeline",
			Name:      "classification_confidence",
			Help:      "Distribution of classifier confidence per category.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
		},
		[]string{"service", "category"},
	)

	registry.MustRegister(analysisTotal, analysisDuration, fallbackTotal, confidence)

	return &PipelineMetrics{
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
		fallbackTotal:    fallbackTotal,
		confidence:       confidence,
	}
}

func (m *PipelineMetrics) ObserveAnalysis(service, source string, result domain.AnalysisResult, duration time.Duration) {
	category := result.Classification.Label()
	m.analysisTotal.WithLabelValues(service, source, category).Inc()
	m.analysisDuration.WithLabelValues(service, source).Observe(duration.Seconds())
	m.confidence.WithLabelValues(service, category).Observe(result.Confidence)
}

func (m *PipelineMetrics) RecordFallback(service string, category domain.Category) {
	m.fallbackTotal.WithLabelValues(service, category.Label()).Inc()
}
