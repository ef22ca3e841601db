// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func goodProduct() *models.Product {
	return &models.Product{
		Title:       "Handcrafted Leather Bifold Wallet",
		Description: "Full-grain leather wallet",
		Price:       35,
		Currency:    "USD",
		ImageURL:    "https://img.example.com/wallet.jpg",
		Category:    "Accessories",
		Rating:      floatPtr(4.6),
		RatingCount: intPtr(812),
		ExternalID:  "B0LW1",
	}
}

func assertRejected(t *testing.T, err error, reasonFragment string) {
	t.Helper()
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("want RejectionError, got %v", err)
	}
	if !strings.Contains(rej.Reason, reasonFragment) {
		t.Errorf("reason %q does not mention %q", rej.Reason, reasonFragment)
	}
}

func TestValidateAccepts(t *testing.T) {
	v := New(Options{})
	pr := &models.PriceRange{Min: 20, Max: 50}

	enriched, err := v.Validate(goodProduct(), "Leather Wallet", pr)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if enriched.Title != "Handcrafted Leather Bifold Wallet" {
		t.Errorf("title = %q, want catalog title kept", enriched.Title)
	}
	if enriched.Rating != 4.6 || enriched.TotalRatingCount != 812 {
		t.Errorf("rating carried wrong: %+v", enriched)
	}
}

func TestTitleLengthBounds(t *testing.T) {
	v := New(Options{})

	p := goodProduct()
	p.Title = "Short"
	_, err := v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "too short")

	p = goodProduct()
	p.Title = strings.Repeat("x", 201)
	_, err = v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "too long")
}

func TestBlacklistedTerms(t *testing.T) {
	v := New(Options{})

	p := goodProduct()
	p.Title = "Replacement Strap for Leather Wallet"
	_, err := v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "blacklisted")
}

func TestExcludedCategory(t *testing.T) {
	v := New(Options{})

	p := goodProduct()
	p.Category = "Gift Cards"
	_, err := v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "excluded category")
}

func TestRatingRules(t *testing.T) {
	v := New(Options{})

	p := goodProduct()
	p.Rating = floatPtr(2.9)
	_, err := v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "rating")

	p = goodProduct()
	p.RatingCount = intPtr(4)
	_, err = v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "ratings")

	// Absent rating data must not reject new listings.
	p = goodProduct()
	p.Rating = nil
	p.RatingCount = nil
	if _, err := v.Validate(p, "Leather Wallet", nil); err != nil {
		t.Errorf("unrated product rejected: %v", err)
	}
}

func TestPriceRules(t *testing.T) {
	v := New(Options{})
	pr := &models.PriceRange{Min: 20, Max: 50}

	p := goodProduct()
	p.Price = 0
	_, err := v.Validate(p, "Leather Wallet", pr)
	assertRejected(t, err, "price")

	p = goodProduct()
	p.Price = 12
	_, err = v.Validate(p, "Leather Wallet", pr)
	assertRejected(t, err, "outside")

	p = goodProduct()
	p.Price = 70 // above 50*1.2
	_, err = v.Validate(p, "Leather Wallet", pr)
	assertRejected(t, err, "outside")
}

func TestValidatePriceBoundary(t *testing.T) {
	// Tolerance floor at min*0.8 is inclusive.
	if !ValidatePrice(16, 20, 50, 0.2) {
		t.Error("ValidatePrice(16, 20, 50) = false, want true at inclusive floor")
	}
	if ValidatePrice(15.99, 20, 50, 0.2) {
		t.Error("ValidatePrice(15.99, 20, 50) = true, want false below floor")
	}
	if !ValidatePrice(60, 20, 50, 0.2) {
		t.Error("ValidatePrice(60, 20, 50) = false, want true at inclusive ceiling")
	}
	if ValidatePrice(60.01, 20, 50, 0.2) {
		t.Error("ValidatePrice(60.01, 20, 50) = true, want false above ceiling")
	}
}

func TestRequiredFields(t *testing.T) {
	v := New(Options{})

	p := goodProduct()
	p.ImageURL = ""
	_, err := v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "image")

	p = goodProduct()
	p.ExternalID = ""
	_, err = v.Validate(p, "Leather Wallet", nil)
	assertRejected(t, err, "catalog id")
}

func TestReconcileTitle(t *testing.T) {
	// Weak overlap keeps the requested title.
	got := ReconcileTitle("Acme Solar Garden Light", "Unrelated Kitchen Knife Set")
	if got != "Acme Solar Garden Light" {
		t.Errorf("weak overlap kept %q, want requested title", got)
	}

	// Strong overlap keeps the catalog title.
	got = ReconcileTitle("Acme Solar Garden Light", "Acme Solar Powered Garden Light Set")
	if got != "Acme Solar Powered Garden Light Set" {
		t.Errorf("strong overlap kept %q, want returned title", got)
	}

	// No significant words in the request keeps the catalog title.
	if got := ReconcileTitle("a an it", "Some Catalog Product Name"); got != "Some Catalog Product Name" {
		t.Errorf("got %q, want returned title", got)
	}
}

func TestReconciledTitleFlowsIntoEnrichment(t *testing.T) {
	v := New(Options{})

	p := goodProduct()
	p.Title = "Stainless Steel Kitchen Utensil Set"
	enriched, err := v.Validate(p, "Acme Solar Garden Light", nil)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if enriched.Title != "Acme Solar Garden Light" {
		t.Errorf("title = %q, want requested title preserved on mismatch", enriched.Title)
	}
}
