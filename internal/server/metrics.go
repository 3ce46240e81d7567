package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultFound    = "found"
	resultNotFound = "not_found"
	resultError    = "error"
)

type metrics struct {
	registry *prometheus.Registry
	queries  *prometheus.CounterVec
	visited  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gitdistance",
			Name:      "queries_total",
			Help:      "Distance queries served, by endpoint and result.",
		}, []string{"endpoint", "result"}),
		visited: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gitdistance",
			Name:      "visited_commits",
			Help:      "Commits expanded per request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"strategy"}),
	}
	m.registry.MustRegister(m.queries, m.visited)
	return m
}

func (m *metrics) observe(endpoint, result string) {
	m.queries.WithLabelValues(endpoint, result).Inc()
}
