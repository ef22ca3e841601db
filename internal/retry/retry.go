// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package retry provides a reusable retry combinator driven by an explicit
// policy, keeping retry logic out of the catalog client itself.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// Backoff returns the delay before retry attempt n (0-based).
	Backoff func(attempt int) time.Duration

	// IsRetryable classifies errors. Non-retryable errors are returned
	// immediately without consuming further attempts.
	IsRetryable func(err error) bool

	// OnRetry, if set, is called before each sleep with the attempt
	// number and the error that triggered the retry.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// retryAfterHinter is implemented by errors that carry an explicit
// Retry-After value from the upstream API. The hint takes precedence over
// the policy's computed backoff.
type retryAfterHinter interface {
	RetryAfterHint() (time.Duration, bool)
}

// Do runs op, retrying per the policy. The last error is returned when
// retries are exhausted or the error is not retryable. Context
// cancellation interrupts backoff sleeps.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.IsRetryable == nil || !p.IsRetryable(err) {
			return zero, err
		}
		if attempt >= p.MaxRetries {
			return zero, lastErr
		}

		delay := time.Duration(0)
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		var hinter retryAfterHinter
		if errors.As(lastErr, &hinter) {
			if hint, present := hinter.RetryAfterHint(); present && hint > 0 {
				delay = hint
			}
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// sleep waits for d unless the context is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
