package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the entity-layer metrics: loads and commits against the
// quad store adapter, change-tracking volume, and conversion failures.
type Metrics struct {
	// Entity store metrics
	EntityLoads     prometheus.Counter
	LoadDuration    prometheus.Histogram
	CommitsTotal    *prometheus.CounterVec
	CommitDuration  prometheus.Histogram
	StagedQuads     prometheus.Gauge
	TrackedEntities prometheus.Gauge

	// Value transformation metrics
	ConversionErrors prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all entity-layer metrics
func NewMetrics() *Metrics {
	return &Metrics{
		EntityLoads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "romanticweb",
				Subsystem: "store",
				Name:      "entity_loads_total",
				Help:      "Total number of entity quad set loads from the adapter",
			},
		),

		LoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "romanticweb",
				Subsystem: "store",
				Name:      "load_duration_seconds",
				Help:      "Entity load duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		CommitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "romanticweb",
				Subsystem: "store",
				Name:      "commits_total",
				Help:      "Total number of commit attempts",
			},
			[]string{"status"},
		),

		CommitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "romanticweb",
				Subsystem: "store",
				Name:      "commit_duration_seconds",
				Help:      "Commit duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		StagedQuads: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "romanticweb",
				Subsystem: "store",
				Name:      "staged_quads",
				Help:      "Number of quads currently staged for assertion or retraction",
			},
		),

		TrackedEntities: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "romanticweb",
				Subsystem: "store",
				Name:      "tracked_entities",
				Help:      "Number of entities tracked by the entity store",
			},
		),

		ConversionErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "romanticweb",
				Subsystem: "transform",
				Name:      "conversion_errors_total",
				Help:      "Total number of node-to-value conversion failures",
			},
		),
	}
}

// Register registers all metrics with the given registerer
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.EntityLoads,
		m.LoadDuration,
		m.CommitsTotal,
		m.CommitDuration,
		m.StagedQuads,
		m.TrackedEntities,
		m.ConversionErrors,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordLoad records one entity load and its duration
func (m *Metrics) RecordLoad(duration time.Duration) {
	m.EntityLoads.Inc()
	m.LoadDuration.Observe(duration.Seconds())
}

// RecordCommit records one commit attempt with its status and duration
func (m *Metrics) RecordCommit(status string, duration time.Duration) {
	m.CommitsTotal.WithLabelValues(status).Inc()
	m.CommitDuration.Observe(duration.Seconds())
}

// RecordStagedQuads updates the staged quad gauge
func (m *Metrics) RecordStagedQuads(count int) {
	m.StagedQuads.Set(float64(count))
}

// RecordTrackedEntities updates the tracked entity gauge
func (m *Metrics) RecordTrackedEntities(count int) {
	m.TrackedEntities.Set(float64(count))
}

// RecordConversionError increments the conversion failure counter
func (m *Metrics) RecordConversionError() {
	m.ConversionErrors.Inc()
}
