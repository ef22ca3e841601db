// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package validate accepts or rejects candidate catalog products against
// quality and price rules before they are attached to a suggestion.
package validate

import (
	"fmt"
	"strings"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

// Options configures the validator. Zero values take the documented
// defaults via New.
type Options struct {
	MinTitleLength     int
	MaxTitleLength     int
	BlacklistTerms     []string
	ExcludedCategories []string
	MinRating          float64
	MinRatingCount     int
	PriceTolerance     float64
}

// DefaultOptions returns the standard quality rules.
func DefaultOptions() Options {
	return Options{
		MinTitleLength: 10,
		MaxTitleLength: 200,
		BlacklistTerms: []string{
			"manual", "replacement", "warranty", "refund policy",
			"spare part", "repair kit", "user guide", "instruction booklet",
		},
		ExcludedCategories: []string{
			"software", "gift card", "subscription", "digital download",
		},
		MinRating:      3.5,
		MinRatingCount: 10,
		PriceTolerance: 0.2,
	}
}

// RejectionError explains why a candidate was rejected. Rejection is not a
// pipeline error; the orchestrator moves on to the next fallback term.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("product rejected: %s", e.Reason)
}

// Validator applies the quality rules. Safe for concurrent use.
type Validator struct {
	opts       Options
	blacklist  []string
	categories []string
}

// New builds a Validator, filling zero options with defaults.
func New(opts Options) *Validator {
	def := DefaultOptions()
	if opts.MinTitleLength <= 0 {
		opts.MinTitleLength = def.MinTitleLength
	}
	if opts.MaxTitleLength <= 0 {
		opts.MaxTitleLength = def.MaxTitleLength
	}
	if opts.BlacklistTerms == nil {
		opts.BlacklistTerms = def.BlacklistTerms
	}
	if opts.ExcludedCategories == nil {
		opts.ExcludedCategories = def.ExcludedCategories
	}
	if opts.MinRating <= 0 {
		opts.MinRating = def.MinRating
	}
	if opts.MinRatingCount <= 0 {
		opts.MinRatingCount = def.MinRatingCount
	}
	if opts.PriceTolerance <= 0 {
		opts.PriceTolerance = def.PriceTolerance
	}

	return &Validator{
		opts:       opts,
		blacklist:  lowerAll(opts.BlacklistTerms),
		categories: lowerAll(opts.ExcludedCategories),
	}
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks a candidate against all rules and, on acceptance, builds
// the enriched record with the reconciled title. priceRange may be nil for
// unfiltered fallback lookups; the price rule then only requires a
// positive price.
func (v *Validator) Validate(candidate *models.Product, requestedTitle string, priceRange *models.PriceRange) (models.EnrichedProduct, error) {
	var zero models.EnrichedProduct

	if candidate == nil {
		return zero, &RejectionError{Reason: "no candidate"}
	}

	title := strings.TrimSpace(candidate.Title)
	if len(title) < v.opts.MinTitleLength {
		return zero, &RejectionError{Reason: fmt.Sprintf("title too short (%d chars)", len(title))}
	}
	if len(title) > v.opts.MaxTitleLength {
		return zero, &RejectionError{Reason: fmt.Sprintf("title too long (%d chars)", len(title))}
	}

	lowerTitle := strings.ToLower(title)
	for _, term := range v.blacklist {
		if strings.Contains(lowerTitle, term) {
			return zero, &RejectionError{Reason: fmt.Sprintf("blacklisted term %q", term)}
		}
	}

	lowerCategory := strings.ToLower(candidate.Category)
	for _, cat := range v.categories {
		if lowerCategory != "" && strings.Contains(lowerCategory, cat) {
			return zero, &RejectionError{Reason: fmt.Sprintf("excluded category %q", cat)}
		}
	}

	// New listings without rating data are not penalized; the rule only
	// applies when both rating and count are present.
	if candidate.Rating != nil && candidate.RatingCount != nil {
		if *candidate.Rating < v.opts.MinRating {
			return zero, &RejectionError{Reason: fmt.Sprintf("rating %.1f below %.1f", *candidate.Rating, v.opts.MinRating)}
		}
		if *candidate.RatingCount < v.opts.MinRatingCount {
			return zero, &RejectionError{Reason: fmt.Sprintf("only %d ratings", *candidate.RatingCount)}
		}
	}

	if candidate.Price <= 0 {
		return zero, &RejectionError{Reason: "missing or non-positive price"}
	}
	if priceRange != nil && !ValidatePrice(candidate.Price, priceRange.Min, priceRange.Max, v.opts.PriceTolerance) {
		return zero, &RejectionError{Reason: fmt.Sprintf("price %.2f outside %.2f-%.2f", candidate.Price, priceRange.Min, priceRange.Max)}
	}

	if strings.TrimSpace(candidate.ImageURL) == "" {
		return zero, &RejectionError{Reason: "missing image"}
	}
	if strings.TrimSpace(candidate.ExternalID) == "" {
		return zero, &RejectionError{Reason: "missing catalog id"}
	}

	enriched := models.EnrichedProduct{
		Title:       ReconcileTitle(requestedTitle, title),
		Description: candidate.Description,
		Price:       candidate.Price,
		Currency:    candidate.Currency,
		ImageURL:    candidate.ImageURL,
		ExternalID:  candidate.ExternalID,
	}
	if candidate.Rating != nil {
		enriched.Rating = *candidate.Rating
	}
	if candidate.RatingCount != nil {
		enriched.TotalRatingCount = *candidate.RatingCount
	}
	return enriched, nil
}

// ValidatePrice reports whether price falls inside the tolerance-widened
// range [min*(1-tolerance), max*(1+tolerance)]. Both bounds are inclusive.
func ValidatePrice(price, min, max, tolerance float64) bool {
	lower := min * (1 - tolerance)
	upper := max * (1 + tolerance)
	return price >= lower && price <= upper
}

// ReconcileTitle decides which title the enriched record keeps. Catalog
// full-text search can return weakly related top hits; when fewer than a
// third of the requested title's significant words appear in the returned
// title, the requested title is kept so the user never sees a mismatched
// product name.
func ReconcileTitle(requestedTitle, returnedTitle string) string {
	words := significantWords(requestedTitle)
	if len(words) == 0 {
		return returnedTitle
	}

	lowerReturned := strings.ToLower(returnedTitle)
	matched := 0
	for _, w := range words {
		if strings.Contains(lowerReturned, w) {
			matched++
		}
	}

	if float64(matched)/float64(len(words)) < 1.0/3.0 {
		return requestedTitle
	}
	return returnedTitle
}

// significantWords keeps lower-cased words longer than 2 characters.
func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?()[]\"'")
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
