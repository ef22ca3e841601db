// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package ratelimit bounds outbound catalog request rate with a per-endpoint
// sliding window and computes backoff delays for retried calls.
//
// The limiter keeps exact admission timestamps rather than bucketed counts:
// the invariant is that no more than max requests fall inside any trailing
// window, which bucketing only approximates.
package ratelimit

import (
	"sync"
	"time"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/metrics"
)

// Limiter is a sliding-window rate limiter keyed by logical endpoint.
// Safe for concurrent use; one instance is shared across all pipeline runs
// in the process so that global backoff stays correct.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time

	max    int
	window time.Duration

	backoffBase time.Duration
	backoffCap  time.Duration

	now func() time.Time
}

// Options configures a Limiter.
type Options struct {
	// Max is the request budget per window. Default 30.
	Max int
	// Window is the trailing window duration. Default 60s.
	Window time.Duration
	// BackoffBase seeds the exponential backoff schedule. Default 1s.
	BackoffBase time.Duration
	// BackoffCap caps the computed backoff. Default 8s.
	BackoffCap time.Duration
}

// New creates a Limiter with the given options, applying defaults for
// zero values.
func New(opts Options) *Limiter {
	if opts.Max <= 0 {
		opts.Max = 30
	}
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if opts.BackoffCap <= 0 {
		opts.BackoffCap = 8 * time.Second
	}

	return &Limiter{
		windows:     make(map[string][]time.Time),
		max:         opts.Max,
		window:      opts.Window,
		backoffBase: opts.BackoffBase,
		backoffCap:  opts.BackoffCap,
		now:         time.Now,
	}
}

// Admit reports whether a request to the endpoint may proceed now. On
// admission the request timestamp is recorded as a side effect. Timestamps
// older than the window are pruned on every call.
func (l *Limiter) Admit(endpoint string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	window := l.prune(endpoint, now)

	if len(window) >= l.max {
		metrics.RateLimiterRejections.WithLabelValues(endpoint).Inc()
		return false
	}

	l.windows[endpoint] = append(window, now)
	metrics.RateLimiterAdmissions.WithLabelValues(endpoint).Inc()
	return true
}

// NextAdmit returns how long until the endpoint has budget again. Zero
// means a request would be admitted immediately.
func (l *Limiter) NextAdmit(endpoint string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	window := l.prune(endpoint, now)
	if len(window) < l.max {
		return 0
	}

	// Oldest recorded request leaves the window first.
	return window[0].Add(l.window).Sub(now)
}

// BackoffDelay computes the exponential backoff for a retry attempt
// (0-based): base * 2^attempt, capped. An explicit Retry-After from the
// catalog API takes precedence over this schedule (see the retry package).
func (l *Limiter) BackoffDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := l.backoffBase
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= l.backoffCap {
			return l.backoffCap
		}
	}
	if delay > l.backoffCap {
		delay = l.backoffCap
	}
	return delay
}

// prune drops timestamps older than the window. Must be called with the
// lock held; returns the surviving window slice.
func (l *Limiter) prune(endpoint string, now time.Time) []time.Time {
	window := l.windows[endpoint]
	cutoff := now.Add(-l.window)

	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	if i > 0 {
		window = append(window[:0:0], window[i:]...)
		l.windows[endpoint] = window
	}
	return window
}
