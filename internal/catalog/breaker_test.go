// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package catalog

import (
	"context"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

// failingClient always returns a transient error.
type failingClient struct {
	calls int
}

func (f *failingClient) Lookup(context.Context, string, *models.PriceRange) (*models.Product, error) {
	f.calls++
	return nil, &Error{Kind: KindTransient, Message: "boom"}
}

// okClient always returns no match.
type okClient struct{}

func (okClient) Lookup(context.Context, string, *models.PriceRange) (*models.Product, error) {
	return nil, nil
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &failingClient{}
	client := NewBreakerClient(inner, "test-breaker-open", 0)

	for i := 0; i < 15; i++ {
		_, _ = client.Lookup(context.Background(), "term", nil)
	}

	if client.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v after sustained failures, want open", client.State())
	}

	before := inner.calls
	_, err := client.Lookup(context.Background(), "term", nil)
	if err == nil {
		t.Fatal("expected error while circuit open")
	}
	if !IsRetryable(err) || IsAuth(err) {
		t.Errorf("open circuit must surface as transient, got %v", err)
	}
	if inner.calls != before {
		t.Error("open circuit still reached the wrapped client")
	}
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	client := NewBreakerClient(okClient{}, "test-breaker-closed", 0)

	for i := 0; i < 20; i++ {
		product, err := client.Lookup(context.Background(), "term", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product != nil {
			t.Fatalf("unexpected product: %+v", product)
		}
	}

	if client.State() != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", client.State())
	}
}

func TestStateLabels(t *testing.T) {
	if stateToString(gobreaker.StateOpen) != "open" || stateToFloat(gobreaker.StateOpen) != 2 {
		t.Error("unexpected open-state labels")
	}
	if stateToString(gobreaker.StateClosed) != "closed" || stateToFloat(gobreaker.StateClosed) != 0 {
		t.Error("unexpected closed-state labels")
	}
}
