package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MigrationMetrics tracks guest-to-account migration outcomes.
type MigrationMetrics struct {
	outcomes *prometheus.CounterVec
	merged   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMigrationMetrics registers the migration metrics on the provided registerer.
func NewMigrationMetrics(reg prometheus.Registerer) *MigrationMetrics {
	if reg == nil {
		return &MigrationMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guest_migration_total",
		Help: "Guest session migrations, partitioned by outcome.",
	}, []string{"outcome"})
	merged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guest_migration_merged_total",
		Help: "Rows merged into accounts during migration, partitioned by family.",
	}, []string{"family"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "guest_migration_duration_seconds",
		Help:    "Duration of guest session migrations in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(outcomes, merged, duration)
	return &MigrationMetrics{
		outcomes: outcomes,
		merged:   merged,
		duration: duration,
	}
}

// ObserveOutcome records one attempted migration.
func (m *MigrationMetrics) ObserveOutcome(succeeded bool, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	m.outcomes.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// AddMerged records the number of rows folded into the account for a family.
func (m *MigrationMetrics) AddMerged(family string, count int64) {
	if m == nil || m.merged == nil || count <= 0 {
		return
	}
	m.merged.WithLabelValues(normalizeLabel(family)).Add(float64(count))
}
