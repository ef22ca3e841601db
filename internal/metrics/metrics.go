// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the enrichment pipeline:
// - Catalog API latency, status and error taxonomy
// - Result cache efficiency
// - Rate limiter admissions/rejections
// - Circuit breaker state
// - Per-item enrichment outcomes and run duration
//
// Emission is fire-and-forget: collectors never fail the pipeline.

var (
	// Catalog API metrics
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog API lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_request_errors_total",
			Help: "Total catalog API errors by type",
		},
		[]string{"endpoint", "error_type"}, // "rate_limited", "auth", "transient"
	)

	CatalogRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_retries_total",
			Help: "Total retried catalog lookups",
		},
		[]string{"endpoint"},
	)

	// Result cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_hits_total",
			Help: "Total result cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_misses_total",
			Help: "Total result cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_evictions_total",
			Help: "Total result cache entries evicted (stale or replaced)",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_entries",
			Help: "Current number of cached products",
		},
	)

	// Rate limiter metrics
	RateLimiterAdmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_admissions_total",
			Help: "Total requests admitted by the sliding window limiter",
		},
		[]string{"endpoint"},
	)

	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_rejections_total",
			Help: "Total requests denied by the sliding window limiter",
		},
		[]string{"endpoint"},
	)

	// Circuit breaker metrics (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by outcome",
		},
		[]string{"name", "outcome"}, // "success", "failure", "rejected"
	)

	// Pipeline metrics
	EnrichmentItemsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_items_settled_total",
			Help: "Total suggestions settled by terminal state",
		},
		[]string{"outcome"}, // "enriched", "unenriched"
	)

	EnrichmentRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_run_duration_seconds",
			Help:    "Duration of full enrichment runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	EnrichmentFallbackDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_fallback_depth",
			Help:    "Number of search terms tried before an item settled",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7},
		},
	)
)
