package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the QC pipeline.
type Metrics struct {
	ProfilesConsumed prometheus.Counter
	ProfilesProduced prometheus.Counter
	DecodeErrors     prometheus.Counter
	ProfileErrors    prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// QC metrics.
	CheckViolations *prometheus.CounterVec // labels: check
	ChecksSkipped   *prometheus.CounterVec // labels: check
	LevelsRejected  prometheus.Counter
	ProfilesByState *prometheus.CounterVec // labels: status={clean,flagged,skipped}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProfilesConsumed,
		m.ProfilesProduced,
		m.DecodeErrors,
		m.ProfileErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.CheckViolations,
		m.ChecksSkipped,
		m.LevelsRejected,
		m.ProfilesByState,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProfilesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "profiles_consumed_total",
			Help:      "Total profiles read from the source topic.",
		}),
		ProfilesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "profiles_produced_total",
			Help:      "Total QC reports written to the sink topic.",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "decode_errors_total",
			Help:      "Total messages that could not be decoded as profiles.",
		}),
		ProfileErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "profile_errors_total",
			Help:      "Total profiles abandoned because a check could not be set up.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sounding_qc",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sounding_qc",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sounding_qc",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-check-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CheckViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "check_violations_total",
			Help:      "Inconsistent level pairs found, by check.",
		}, []string{"check"}),
		ChecksSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "checks_skipped_total",
			Help:      "Checks that declined to run on malformed profiles, by check.",
		}, []string{"check"}),
		LevelsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "levels_rejected_total",
			Help:      "Levels carrying the final-reject flag after QC.",
		}),
		ProfilesByState: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sounding_qc",
			Name:      "profiles_total",
			Help:      "Checked profiles by QC status.",
		}, []string{"status"}),
	}
}
