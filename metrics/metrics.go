// Package metrics exposes Prometheus collectors for the retrieval engine.
// Collectors register on the default registry, so embedding applications
// only need to mount promhttp.Handler to scrape them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts finished queries by retrieval method.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linker_queries_total",
		Help: "Total number of finished queries by retrieval method.",
	}, []string{"method"})

	// QueryDuration tracks query latency by retrieval method.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linker_query_duration_seconds",
		Help:    "Query latency in seconds by retrieval method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// NodesTotal tracks the number of nodes held in memory.
	NodesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linker_nodes_total",
		Help: "Number of nodes held in the in memory store.",
	})

	// LinksTotal tracks the number of links in the current link index.
	LinksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linker_links_total",
		Help: "Number of links in the current link index.",
	})

	// GraphBuildsTotal counts link index builds.
	GraphBuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linker_graph_builds_total",
		Help: "Total number of link index builds.",
	})
)

// ObserveQuery records one finished query for the given method.
func ObserveQuery(method string, elapsed time.Duration) {
	QueriesTotal.WithLabelValues(method).Inc()
	QueryDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
