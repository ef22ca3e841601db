// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/logging"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/metrics"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

// BreakerClient wraps a LookupClient with a circuit breaker and a smoothing
// limiter. The breaker keeps a down or misbehaving catalog from being
// hammered by concurrent runs; the limiter spreads calls that the window
// limiter admits in a burst.
//
// An open circuit surfaces as a transient catalog error, so affected items
// settle Unenriched instead of failing the run.
type BreakerClient struct {
	client  LookupClient
	cb      *gobreaker.CircuitBreaker[*models.Product]
	limiter *rate.Limiter
	name    string
}

// Ensure BreakerClient implements LookupClient
var _ LookupClient = (*BreakerClient)(nil)

// NewBreakerClient wraps client with circuit breaker protection.
//
// Breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 30 second timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// smoothingRPS bounds the steady outbound request rate; zero disables the
// smoothing limiter.
func NewBreakerClient(client LookupClient, name string, smoothingRPS float64) *BreakerClient {
	if name == "" {
		name = "catalog-api"
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*models.Product](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening catalog circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("Catalog circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	var limiter *rate.Limiter
	if smoothingRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(smoothingRPS), 1)
	}

	return &BreakerClient{
		client:  client,
		cb:      cb,
		limiter: limiter,
		name:    name,
	}
}

// Lookup waits for the smoothing limiter, then runs the wrapped lookup
// through the circuit breaker.
func (b *BreakerClient) Lookup(ctx context.Context, searchTerm string, priceRange *models.PriceRange) (*models.Product, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	product, err := b.cb.Execute(func() (*models.Product, error) {
		return b.client.Lookup(ctx, searchTerm, priceRange)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, &Error{Kind: KindTransient, Message: "circuit open", Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return product, nil
}

// State returns the current breaker state for observability endpoints.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
