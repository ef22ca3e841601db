// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package pricerange derives numeric price bounds from free-form labels
// such as "20-50", "$45" or "around 30 kr".
package pricerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

// ErrInvalidPriceFormat indicates a label that cannot be turned into a
// price range. Callers recover by falling back to DefaultRange.
var ErrInvalidPriceFormat = errors.New("invalid price format")

const (
	// anchorVariance widens a single anchor price into a range (±20%).
	anchorVariance = 0.2

	// DefaultMin and DefaultMax bound the fallback range used when a
	// label cannot be parsed.
	DefaultMin = 20
	DefaultMax = 100
)

// DefaultRange is the range used when a label is unparseable. The pipeline
// never aborts on a bad price label.
func DefaultRange() models.PriceRange {
	return models.PriceRange{Min: DefaultMin, Max: DefaultMax}
}

// Parse turns a free-form price label into a validated range.
//
// "20-50" becomes {20, 50}. A single anchor like "$45" becomes {36, 54},
// the anchor widened by ±20%. Anything else fails with ErrInvalidPriceFormat.
func Parse(label string) (models.PriceRange, error) {
	cleaned := clean(label)

	if strings.Contains(cleaned, "-") {
		parts := strings.SplitN(cleaned, "-", 2)
		min, errMin := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		max, errMax := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errMin != nil || errMax != nil || min <= 0 || max < min {
			return models.PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceFormat, label)
		}
		return models.PriceRange{Min: min, Max: max}, nil
	}

	anchor, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || anchor <= 0 {
		return models.PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceFormat, label)
	}

	return models.PriceRange{
		Min: anchor * (1 - anchorVariance),
		Max: anchor * (1 + anchorVariance),
	}, nil
}

// ParseOrDefault parses the label, falling back to DefaultRange on failure.
func ParseOrDefault(label string) models.PriceRange {
	r, err := Parse(label)
	if err != nil {
		return DefaultRange()
	}
	return r
}

// clean strips everything except digits, '.' and '-'.
func clean(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
