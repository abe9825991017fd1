// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability exposes the service's Prometheus metric bundle.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "smartnetwork"

	subsystemRetrieval = "retrieval"
	subsystemStore     = "store"
	subsystemCache     = "filter_option_cache"
)

// Metrics is the service-wide metric bundle. Construct once in main and
// inject into the retrieval service.
type Metrics struct {
	RetrievalsTotal   *prometheus.CounterVec
	RetrievalDuration *prometheus.HistogramVec

	TemplateQueryDuration *prometheus.HistogramVec
	GateWaitSeconds       prometheus.Histogram
	ActiveRequests        prometheus.Gauge

	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	CacheEntries   prometheus.Gauge
}

// NewMetrics registers the bundle with the given registerer, or the
// default registerer when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RetrievalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemRetrieval,
			Name:      "requests_total",
			Help:      "Retrieval requests by mode and outcome.",
		}, []string{"mode", "status"}),

		RetrievalDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemRetrieval,
			Name:      "duration_seconds",
			Help:      "End-to-end retrieval latency by mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),

		TemplateQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "template_query_duration_seconds",
			Help:      "Per-template graph query latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"template"}),

		GateWaitSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemStore,
			Name:      "gate_wait_seconds",
			Help:      "Time spent waiting for a database slot.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}),

		ActiveRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemRetrieval,
			Name:      "active_requests",
			Help:      "Retrieval requests currently in flight.",
		}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "hits_total",
			Help:      "Filter-option cache hits.",
		}),

		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "misses_total",
			Help:      "Filter-option cache misses.",
		}),

		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "evictions_total",
			Help:      "Filter-option cache evictions and expirations.",
		}),

		CacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "entries",
			Help:      "Filter-option cache entry count.",
		}),
	}
}

// RecordRetrieval observes one finished retrieval.
func (m *Metrics) RecordRetrieval(mode string, success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.RetrievalsTotal.WithLabelValues(mode, status).Inc()
	m.RetrievalDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// RecordTemplateQuery observes one template execution against the store.
func (m *Metrics) RecordTemplateQuery(template string, elapsed time.Duration) {
	m.TemplateQueryDuration.WithLabelValues(template).Observe(elapsed.Seconds())
}

// RecordGateWait observes time spent acquiring a database slot.
func (m *Metrics) RecordGateWait(elapsed time.Duration) {
	m.GateWaitSeconds.Observe(elapsed.Seconds())
}

// RecordCacheLookup observes one cache consult.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}
