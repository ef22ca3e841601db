// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")
var errTerminal = errors.New("terminal")

type hintedErr struct {
	hint time.Duration
}

func (e *hintedErr) Error() string { return "rate limited" }

func (e *hintedErr) RetryAfterHint() (time.Duration, bool) { return e.hint, true }

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	p := Policy{
		MaxRetries:  3,
		Backoff:     func(int) time.Duration { return 0 },
		IsRetryable: func(err error) bool { return errors.Is(err, errTransient) },
	}

	got, err := Do(context.Background(), p, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	p := Policy{
		MaxRetries:  2,
		Backoff:     func(int) time.Duration { return 0 },
		IsRetryable: func(error) bool { return true },
	}

	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Errorf("want last error, got %v", err)
	}
	if calls != 3 { // initial + 2 retries
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestDoTerminalErrorNotRetried(t *testing.T) {
	calls := 0
	p := Policy{
		MaxRetries:  5,
		Backoff:     func(int) time.Duration { return 0 },
		IsRetryable: func(err error) bool { return !errors.Is(err, errTerminal) },
	}

	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, errTerminal
	})
	if !errors.Is(err, errTerminal) {
		t.Errorf("want terminal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("terminal error retried: %d calls", calls)
	}
}

func TestRetryAfterHintOverridesBackoff(t *testing.T) {
	var delays []time.Duration
	p := Policy{
		MaxRetries:  1,
		Backoff:     func(int) time.Duration { return time.Hour }, // would hang if used
		IsRetryable: func(error) bool { return true },
		OnRetry: func(_ int, delay time.Duration, _ error) {
			delays = append(delays, delay)
		},
	}

	start := time.Now()
	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		return 0, &hintedErr{hint: 5 * time.Millisecond}
	})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if time.Since(start) > time.Second {
		t.Fatal("computed backoff used despite Retry-After hint")
	}
	if len(delays) != 1 || delays[0] != 5*time.Millisecond {
		t.Errorf("delays = %v, want [5ms]", delays)
	}
}

func TestDoContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		MaxRetries:  1,
		Backoff:     func(int) time.Duration { return time.Minute },
		IsRetryable: func(error) bool { return true },
		OnRetry:     func(int, time.Duration, error) { cancel() },
	}

	_, err := Do(ctx, p, func(context.Context) (int, error) {
		return 0, errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
