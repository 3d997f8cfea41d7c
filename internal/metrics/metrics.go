package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SeedMetrics collects per-run seeding metrics on a private registry.
type SeedMetrics struct {
	Registry *prometheus.Registry

	// RowsInserted counts rows written per table
	RowsInserted *prometheus.CounterVec
	// StageDuration records the wall time of each pipeline stage
	StageDuration *prometheus.HistogramVec
	// LastSuccess is the unix time of the last completed run
	LastSuccess prometheus.Gauge
}

// New registers the seeding metrics under prefix.
func New(prefix string) *SeedMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &SeedMetrics{
		Registry: reg,
		RowsInserted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_rows_inserted_total",
				Help: "Total number of rows inserted by the seeder",
			},
			[]string{"table"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_stage_duration_seconds",
				Help:    "Duration of seeding stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_last_success_timestamp_seconds",
				Help: "Unix time of the last successful seeding run",
			},
		),
	}
}

// TrackStage returns a function that records the duration of a stage
func (m *SeedMetrics) TrackStage(stage string) func(startTime time.Time) {
	return func(startTime time.Time) {
		m.StageDuration.WithLabelValues(stage).Observe(time.Since(startTime).Seconds())
	}
}

// RecordRows adds n to the inserted row counter of table
func (m *SeedMetrics) RecordRows(table string, n int) {
	m.RowsInserted.WithLabelValues(table).Add(float64(n))
}

// MarkSuccess stamps the last success gauge with now.
func (m *SeedMetrics) MarkSuccess() {
	m.LastSuccess.SetToCurrentTime()
}

// WriteTextfile writes the metrics in the text exposition format, suitable
// for the node_exporter textfile collector.
func (m *SeedMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
