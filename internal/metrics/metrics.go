// Package metrics provides Prometheus metrics for logos
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the database
type Metrics struct {
	TransactTotal      *prometheus.CounterVec
	TransactDuration   *prometheus.HistogramVec
	QueryTotal         *prometheus.CounterVec
	QueryDuration      *prometheus.HistogramVec
	RecordsAssertedTotal prometheus.Counter
	NodeRetrievalsTotal  prometheus.Counter
	NodeStoragesTotal    prometheus.Counter
	IdentsTotal          prometheus.Gauge
	NextEntityID         prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{}

	m.TransactTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logos_transact_total",
			Help: "Total number of transact calls",
		},
		[]string{"status"},
	)

	m.TransactDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logos_transact_duration_seconds",
			Help:    "Duration of transact calls in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	m.QueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logos_query_total",
			Help: "Total number of query calls",
		},
		[]string{"status"},
	)

	m.QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logos_query_duration_seconds",
			Help:    "Duration of query calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	m.RecordsAssertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logos_records_asserted_total",
			Help: "Total number of records asserted across all transactions",
		},
	)

	m.NodeRetrievalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logos_node_retrievals_total",
			Help: "Total number of B-tree node reads that missed the node store cache and went to the KV store",
		},
	)

	m.NodeStoragesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logos_node_storages_total",
			Help: "Total number of B-tree node writes to the node store",
		},
	)

	m.IdentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logos_idents_total",
			Help: "Number of entries currently in the ident map",
		},
	)

	m.NextEntityID = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logos_next_entity_id",
			Help: "Next entity id to be allocated",
		},
	)

	return m
}

// RecordTransact records the outcome of a transact call
func (m *Metrics) RecordTransact(status string, duration time.Duration) {
	m.TransactTotal.WithLabelValues(status).Inc()
	m.TransactDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordQuery records the outcome of a query call
func (m *Metrics) RecordQuery(status string, duration time.Duration) {
	m.QueryTotal.WithLabelValues(status).Inc()
	m.QueryDuration.WithLabelValues(status).Observe(duration.Seconds())
}
