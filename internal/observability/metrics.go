package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons used as the "reason" label of RowsDropped.
const (
	ReasonMalformedCoordinates = "malformed_coordinates"
	ReasonOutsideBoundingBox   = "outside_bounding_box"
	ReasonEmptyGeometry        = "empty_geometry"
	ReasonInvalidQuarter       = "invalid_quarter"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// pipeline run. Each Metrics owns its registry so the batch commands and
// tests never share state.
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead          prometheus.Counter
	RowsDropped       *prometheus.CounterVec // labels: reason
	RowsWritten       prometheus.Counter
	PartitionsWritten prometheus.Counter
	FilesWritten      prometheus.Counter
	StageDuration     *prometheus.HistogramVec // labels: stage
	LastRunSuccess    prometheus.Gauge
}

// NewMetrics creates and registers the pipeline metrics. pipeline is attached
// as a constant label ("cleaner" or "charter").
func NewMetrics(pipeline string) *Metrics {
	labels := prometheus.Labels{"pipeline": pipeline}

	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cable_theft",
			Name:        "rows_read_total",
			Help:        "Rows loaded from the input table.",
			ConstLabels: labels,
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "cable_theft",
			Name:        "rows_dropped_total",
			Help:        "Rows removed during cleaning or aggregation, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cable_theft",
			Name:        "rows_written_total",
			Help:        "Rows written to the cleaned table.",
			ConstLabels: labels,
		}),
		PartitionsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cable_theft",
			Name:        "partitions_written_total",
			Help:        "Per-year partition files written.",
			ConstLabels: labels,
		}),
		FilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cable_theft",
			Name:        "artifacts_written_total",
			Help:        "Charts and reports written.",
			ConstLabels: labels,
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "cable_theft",
			Name:        "stage_duration_seconds",
			Help:        "Duration of each pipeline stage.",
			Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: labels,
		}, []string{"stage"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "cable_theft",
			Name:        "last_run_success",
			Help:        "1 when the last run finished without error, 0 otherwise.",
			ConstLabels: labels,
		}),
	}

	m.Registry.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.RowsWritten,
		m.PartitionsWritten,
		m.FilesWritten,
		m.StageDuration,
		m.LastRunSuccess,
	)

	return m
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
// An empty path disables the dump.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
