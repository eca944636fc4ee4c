// Package metrics collects and exposes Prometheus metrics for the import
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the interface the application layer records through, so use
// cases can be tested without a registry.
type Recorder interface {
	RecordBatch(status string, duration time.Duration)
	RecordRows(status string, count int)
	RecordRollback(deleted int64)
	RecordNotification(delivered bool)
}

// Collector implements Recorder on top of Prometheus.
type Collector struct {
	batches       *prometheus.CounterVec
	rows          *prometheus.CounterVec
	rollbacks     prometheus.Counter
	rolledBack    prometheus.Counter
	notifications *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_import_batches_total",
			Help: "Import batches finalized, by status.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_import_rows_total",
			Help: "Processed batch rows, by outcome status.",
		}, []string{"status"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_import_rollbacks_total",
			Help: "Successful batch rollbacks.",
		}),
		rolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_import_rolled_back_identities_total",
			Help: "Identities deleted by rollbacks.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_import_notifications_total",
			Help: "Welcome notifications attempted, by result.",
		}, []string{"result"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "identity_import_batch_duration_seconds",
			Help:    "Wall-clock duration of batch executions.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.batches,
		c.rows,
		c.rollbacks,
		c.rolledBack,
		c.notifications,
		c.batchDuration,
	)

	return c
}

func (c *Collector) RecordBatch(status string, duration time.Duration) {
	c.batches.WithLabelValues(status).Inc()
	c.batchDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordRows(status string, count int) {
	if count > 0 {
		c.rows.WithLabelValues(status).Add(float64(count))
	}
}

func (c *Collector) RecordRollback(deleted int64) {
	c.rollbacks.Inc()
	c.rolledBack.Add(float64(deleted))
}

func (c *Collector) RecordNotification(delivered bool) {
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	c.notifications.WithLabelValues(result).Inc()
}

// Nop discards all measurements; used in tests.
type Nop struct{}

func (Nop) RecordBatch(string, time.Duration) {}
func (Nop) RecordRows(string, int)            {}
func (Nop) RecordRollback(int64)              {}
func (Nop) RecordNotification(bool)           {}
