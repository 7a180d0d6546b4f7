package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for ingestion runs.
// They live in a private registry so a run can dump them to a textfile.
type Metrics struct {
	FilesProcessed prometheus.Counter
	FilesFailed    *prometheus.CounterVec // labels: stage={select,read,blueprint,apply,update,load}
	PlanesUpdated  prometheus.Counter
	StageDuration  *prometheus.HistogramVec // labels: stage
	LastSuccess    prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the ingestion metrics and registers them with a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "draogmims2caom2",
			Name:      "files_processed_total",
			Help:      "Total files turned into CAOM2 observations.",
		}),
		FilesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "draogmims2caom2",
			Name:      "files_failed_total",
			Help:      "Total files that failed, by pipeline stage.",
		}, []string{"stage"}),
		PlanesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "draogmims2caom2",
			Name:      "planes_updated_total",
			Help:      "Total planes given derived spatial bounds.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "draogmims2caom2",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "draogmims2caom2",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful file.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FilesProcessed,
		m.FilesFailed,
		m.PlanesUpdated,
		m.StageDuration,
		m.LastSuccess,
	)

	return m
}

// Registry exposes the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps all metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
