// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"net/http"
	"time"

	"github.com/jcodagnone/hospitalfinder/finder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records search statistics. It implements finder.Observer.
type Metrics struct {
	registry *prometheus.Registry
	searches *prometheus.CounterVec
	duration prometheus.Histogram
	results  prometheus.Histogram
}

// NewMetrics creates the search collectors on a private registry, next to
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospitalfinder",
			Name:      "searches_total",
			Help:      "Searches by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hospitalfinder",
			Name:      "search_duration_seconds",
			Help:      "Time spent answering a search, including table loading.",
			Buckets:   prometheus.DefBuckets,
		}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hospitalfinder",
			Name:      "search_results",
			Help:      "Hospitals returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		}),
	}

	m.registry.MustRegister(
		m.searches,
		m.duration,
		m.results,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveSearch implements finder.Observer.
func (m *Metrics) ObserveSearch(outcome finder.Outcome, elapsed time.Duration, results int) {
	m.searches.WithLabelValues(string(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())

	if outcome != finder.OutcomeError {
		m.results.Observe(float64(results))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
