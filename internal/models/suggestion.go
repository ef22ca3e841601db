// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package models

// Suggestion is a candidate gift idea produced by the suggestion generator.
// Title, Description and Reason are fixed at creation; the pipeline only
// attaches Enrichment (and, on failure, an EnrichmentNote).
type Suggestion struct {
	// Title is the candidate gift title as produced by the generator.
	Title string `json:"title"`

	// Description explains what the gift is.
	Description string `json:"description"`

	// Reason explains why the gift fits the request.
	Reason string `json:"reason"`

	// PriceRangeLabel is the free-form price label the user supplied
	// (e.g. "20-50", "$45", "around 30").
	PriceRangeLabel string `json:"price_range"`

	// SearchQuery is an optional generator-supplied search term. When set
	// it is preferred over a term derived from the title.
	SearchQuery string `json:"search_query,omitempty"`

	// Enrichment holds verified catalog data once the pipeline has matched
	// the suggestion to a purchasable product. Nil means unenriched.
	Enrichment *EnrichedProduct `json:"enrichment,omitempty"`

	// EnrichmentNote annotates suggestions that settled without enrichment
	// because of a terminal error (e.g. invalid catalog credentials).
	EnrichmentNote string `json:"enrichment_note,omitempty"`
}

// Enriched reports whether catalog data has been attached.
func (s *Suggestion) Enriched() bool {
	return s.Enrichment != nil
}

// PriceRange bounds acceptable product prices. Min >= 0 and Max >= Min.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Valid reports whether the range satisfies its invariant.
func (r PriceRange) Valid() bool {
	return r.Min >= 0 && r.Max >= r.Min
}

// Product is a raw catalog record as returned by the catalog API, before
// quality validation. Rating and RatingCount are pointers because the
// catalog omits them for new listings and absence must not look like zero.
type Product struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
	ExternalID  string   `json:"external_id"`
}

// EnrichedProduct is a validated, displayable product record. Immutable once
// produced by the validator. Rating fields of zero mean the catalog had no
// rating data for the listing.
type EnrichedProduct struct {
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	ImageURL         string  `json:"image_url"`
	Rating           float64 `json:"rating,omitempty"`
	TotalRatingCount int     `json:"total_rating_count,omitempty"`
	ExternalID       string  `json:"external_id"`
}
