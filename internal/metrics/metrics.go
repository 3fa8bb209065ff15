// Package metrics exposes Prometheus collectors for ledger mutations and
// availability searches. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medstock/m/internal/apperr"
)

// Collector owns its own registry so tests and embedded servers do not
// collide on the global one.
type Collector struct {
	registry       *prometheus.Registry
	mutations      *prometheus.CounterVec
	searches       prometheus.Counter
	searchResults  prometheus.Histogram
	operationTimes *prometheus.HistogramVec
}

// NewCollector creates and registers the medstock collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medstock_batch_mutations_total",
				Help: "Batch ledger operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medstock_search_requests_total",
			Help: "Availability searches served",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "medstock_search_results",
			Help:    "Number of results returned per availability search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		operationTimes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medstock_operation_duration_seconds",
				Help:    "Time spent in inventory operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(c.mutations, c.searches, c.searchResults, c.operationTimes)
	registry.MustRegister(collectors.NewGoCollector())
	return c
}

// ObserveMutation counts one ledger operation, labelled with the error kind
// it ended with ("ok" on success).
func (c *Collector) ObserveMutation(op string, err error) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(op, apperr.Kind(err)).Inc()
}

func (c *Collector) ObserveSearch(results int) {
	if c == nil {
		return
	}
	c.searches.Inc()
	c.searchResults.Observe(float64(results))
}

// ObserveDuration records the time elapsed since start under op.
func (c *Collector) ObserveDuration(op string, start time.Time) {
	if c == nil {
		return
	}
	c.operationTimes.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
