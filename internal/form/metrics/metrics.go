package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the form pipeline.
type Metrics struct {
	// Merge latencies by certificate form name
	MergeLatency *prometheus.HistogramVec

	// Validation outcomes by mode and result
	ValidationOutcome *prometheus.CounterVec

	// Validation failures by constraint type
	ValidationFailures *prometheus.CounterVec

	// Field mapping latency across all consignments of a render call
	RenderLatency prometheus.Histogram

	// Mapping inconsistencies, always worth alerting on
	MappingInconsistencies prometheus.Counter
}

// New creates a new Metrics instance with all form pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		MergeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certform_merge_duration_seconds",
			Help:    "Duration of template merge operations by form",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"form"}),

		ValidationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certform_validation_outcomes_total",
			Help: "Total validation passes by mode and result",
		}, []string{"mode", "result"}), // result: "valid", "invalid"

		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certform_validation_failures_total",
			Help: "Total validation failures by constraint type",
		}, []string{"constraint"}),

		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certform_render_duration_seconds",
			Help:    "Duration of answer-to-field mapping including populators",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		MappingInconsistencies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certform_mapping_inconsistencies_total",
			Help: "Total fatal template/answer drift failures during mapping",
		}),
	}
}

// ObserveMergeLatency records the duration of one merge.
func (m *Metrics) ObserveMergeLatency(form string, d time.Duration) {
	if m != nil {
		m.MergeLatency.WithLabelValues(form).Observe(d.Seconds())
	}
}

// IncrementValidationOutcome records one validation pass.
func (m *Metrics) IncrementValidationOutcome(mode string, valid bool) {
	if m != nil {
		result := "valid"
		if !valid {
			result = "invalid"
		}
		m.ValidationOutcome.WithLabelValues(mode, result).Inc()
	}
}

// IncrementValidationFailure records one constraint failure.
func (m *Metrics) IncrementValidationFailure(constraint string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(constraint).Inc()
	}
}

// ObserveRenderLatency records the total duration of one render call.
func (m *Metrics) ObserveRenderLatency(d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
	}
}

// IncrementMappingInconsistency records one fatal mapping failure.
func (m *Metrics) IncrementMappingInconsistency() {
	if m != nil {
		m.MappingInconsistencies.Inc()
	}
}
