// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies catalog API failures for retry decisions.
type Kind int

const (
	// KindRateLimited marks HTTP 429 responses. Retryable; an explicit
	// Retry-After header is carried in the error when present.
	KindRateLimited Kind = iota + 1

	// KindAuth marks credential or subscription failures (401/403).
	// Terminal: never retried.
	KindAuth

	// KindTransient marks network errors, timeouts and 5xx responses.
	// Retryable with backoff.
	KindTransient
)

// String returns a short label for the kind, used as a metric label.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is a classified catalog API failure.
type Error struct {
	Kind       Kind
	Status     int           // HTTP status, 0 for network errors
	RetryAfter time.Duration // from the Retry-After header, 0 if absent
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("catalog %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// RetryAfterHint exposes the server-declared retry delay to the retry
// combinator, which prefers it over computed backoff.
func (e *Error) RetryAfterHint() (time.Duration, bool) {
	return e.RetryAfter, e.RetryAfter > 0
}

// IsAuth reports whether err is a terminal credential failure.
func IsAuth(err error) bool { return kindOf(err) == KindAuth }

// IsRateLimited reports whether err is an HTTP 429.
func IsRateLimited(err error) bool { return kindOf(err) == KindRateLimited }

// IsRetryable reports whether err may be retried with backoff.
func IsRetryable(err error) bool {
	k := kindOf(err)
	return k == KindRateLimited || k == KindTransient
}

func kindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
