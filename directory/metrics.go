package directory

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the "observation points" spec.md §1 notes as bare
// Prometheus collectors: queue depth, op outcomes, duplicates destroyed.
// This package owns no metrics subsystem of its own (no push gateway, no
// label plumbing) - the embedding process registers these the way it
// registers every other collector.
type Metrics struct {
	queueDepth          prometheus.Gauge
	opsOK               prometheus.Counter
	opsRetried          prometheus.Counter
	opsDropped          prometheus.Counter
	duplicatesDestroyed prometheus.Counter
}

// NewMetrics constructs and registers the collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dirhandoff",
			Name:      "op_queue_depth",
			Help:      "Number of outbound handoff operations currently queued.",
		}),
		opsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dirhandoff",
			Name:      "op_succeeded_total",
			Help:      "Queued operations that completed successfully.",
		}),
		opsRetried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dirhandoff",
			Name:      "op_retried_total",
			Help:      "Queued operation attempts that failed and were retried.",
		}),
		opsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dirhandoff",
			Name:      "op_dropped_total",
			Help:      "Queued operations dropped after exhausting retries.",
		}),
		duplicatesDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dirhandoff",
			Name:      "duplicate_activations_destroyed_total",
			Help:      "Duplicate activations destroyed via the catalog after a registration race.",
		}),
	}
	reg.MustRegister(m.queueDepth, m.opsOK, m.opsRetried, m.opsDropped, m.duplicatesDestroyed)
	return m
}
