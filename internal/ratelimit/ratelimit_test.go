// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := New(Options{Max: max, Window: window})
	l.now = clock.now
	return l, clock
}

func TestAdmitWithinBudget(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Admit("search") {
			t.Fatalf("request %d: expected admission", i)
		}
	}
	if l.Admit("search") {
		t.Error("expected rejection once budget exhausted")
	}
}

func TestWindowInvariantUnderBursts(t *testing.T) {
	const max = 5
	l, clock := newTestLimiter(max, time.Minute)

	// Bursty pattern: fire many attempts, advance a little, repeat.
	// The invariant: admitted count within any trailing window never
	// exceeds max.
	admittedAt := []time.Time{}
	for step := 0; step < 30; step++ {
		for i := 0; i < 10; i++ {
			if l.Admit("search") {
				admittedAt = append(admittedAt, clock.now())
			}
		}
		clock.advance(7 * time.Second)
	}

	for _, ref := range admittedAt {
		count := 0
		for _, ts := range admittedAt {
			if !ts.After(ref) && ts.After(ref.Add(-time.Minute)) {
				count++
			}
		}
		if count > max {
			t.Fatalf("window ending %v holds %d admissions, max %d", ref, count, max)
		}
	}
}

func TestBudgetRecoversAfterWindow(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	if !l.Admit("search") || !l.Admit("search") {
		t.Fatal("expected initial admissions")
	}
	if l.Admit("search") {
		t.Fatal("expected rejection at capacity")
	}

	clock.advance(61 * time.Second)
	if !l.Admit("search") {
		t.Error("expected admission after window elapsed")
	}
}

func TestEndpointsIsolated(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Admit("search") {
		t.Fatal("expected admission on first endpoint")
	}
	if !l.Admit("details") {
		t.Error("expected independent budget per endpoint")
	}
}

func TestNextAdmit(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	if d := l.NextAdmit("search"); d != 0 {
		t.Errorf("NextAdmit on empty window = %v, want 0", d)
	}

	l.Admit("search")
	clock.advance(20 * time.Second)

	if d := l.NextAdmit("search"); d != 40*time.Second {
		t.Errorf("NextAdmit = %v, want 40s", d)
	}
}

func TestBackoffDelay(t *testing.T) {
	l := New(Options{BackoffBase: time.Second, BackoffCap: 8 * time.Second})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 8 * time.Second}, // capped
		{10, 8 * time.Second},
		{-1, time.Second},
	}

	for _, tt := range tests {
		if got := l.BackoffDelay(tt.attempt); got != tt.want {
			t.Errorf("BackoffDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestConcurrentAdmitNeverExceedsMax(t *testing.T) {
	const max = 10
	l := New(Options{Max: max, Window: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Admit("search") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != max {
		t.Errorf("admitted %d concurrent requests, want exactly %d", admitted, max)
	}
}
