// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package searchterm turns noisy suggestion titles into catalog search
// queries. Catalog full-text search degrades sharply on over-specific
// titles, so alongside the cleaned primary term it produces an ordered
// list of progressively more generic fallback terms that trade precision
// for recall.
package searchterm

import (
	"regexp"
	"strings"
)

// MaxFallbacks bounds the fallback list per title.
const MaxFallbacks = 6

// Term is a single catalog search attempt. PriceFiltered controls whether
// the caller forwards price bounds with the query.
type Term struct {
	Query         string
	PriceFiltered bool
}

// Vocabulary holds the closed word lists used to detect brand, product
// type and attribute tokens in a title. The lists are configuration data
// (see config.Default) so they can be extended without code changes.
type Vocabulary struct {
	Brands       []string `koanf:"brands"`
	ProductTypes []string `koanf:"product_types"`
	Attributes   []string `koanf:"attributes"`
}

// Generator derives search terms from suggestion titles. Safe for
// concurrent use; all state is read-only after construction.
type Generator struct {
	brands       map[string]struct{}
	productTypes map[string]struct{}
	attributes   map[string]struct{}
}

// NewGenerator builds a Generator from the given vocabulary.
func NewGenerator(v Vocabulary) *Generator {
	return &Generator{
		brands:       toSet(v.Brands),
		productTypes: toSet(v.ProductTypes),
		attributes:   toSet(v.Attributes),
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

var (
	bracketRe = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

	// measurement/model noise: "$45", "500ml", "64gb", "2000mah", "12pcs"
	noiseTokenRe = regexp.MustCompile(`(?i)^[$€£]?\d+([.,]\d+)?(ml|l|oz|g|kg|lb|cm|mm|in|inch|ft|pcs|pack|ct|w|v|mah|gb|tb)?$`)

	punctTrim = strings.NewReplacer(",", " ", ";", " ", ":", " ", "/", " ", "|", " ", "&", " ", "!", " ", "\"", " ", "'", "")
)

var sizeNoise = map[string]struct{}{
	"xs": {}, "xl": {}, "xxl": {}, "xxxl": {},
}

// Primary returns the cleaned search term for a title: bracketed specs
// removed, currency/size/model noise tokens dropped, whitespace collapsed.
func (g *Generator) Primary(title string) string {
	stripped := bracketRe.ReplaceAllString(title, " ")
	stripped = punctTrim.Replace(stripped)

	var kept []string
	for _, tok := range strings.Fields(stripped) {
		lower := strings.ToLower(tok)
		if noiseTokenRe.MatchString(tok) {
			continue
		}
		if _, ok := sizeNoise[lower]; ok {
			continue
		}
		kept = append(kept, lower)
	}
	return strings.Join(kept, " ")
}

// Fallbacks returns the ordered fallback terms for a title, most specific
// first. The list is deduplicated and never longer than MaxFallbacks. An
// optional ageHint ("teen", "toddler", ...) adds one broader hinted term
// at the end when room remains.
//
// Tiers:
//  1. first 3 significant words, price-filtered
//  2. first 3 significant words, unfiltered
//  3. brand + product type + attribute (all detected), unfiltered
//  4. brand + product type, price-filtered
//  5. brand + product type, unfiltered
//  6. first 4 significant words, price-filtered
func (g *Generator) Fallbacks(title, ageHint string) []Term {
	words := significantWords(g.Primary(title))

	first3 := strings.Join(firstN(words, 3), " ")
	first4 := strings.Join(firstN(words, 4), " ")

	brand := g.detect(words, g.brands)
	productType := g.detect(words, g.productTypes)
	attribute := g.detect(words, g.attributes)

	var tiers []Term
	if first3 != "" {
		tiers = append(tiers,
			Term{Query: first3, PriceFiltered: true},
			Term{Query: first3, PriceFiltered: false},
		)
	}
	if brand != "" && productType != "" {
		if attribute != "" {
			tiers = append(tiers, Term{Query: brand + " " + productType + " " + attribute, PriceFiltered: false})
		}
		tiers = append(tiers,
			Term{Query: brand + " " + productType, PriceFiltered: true},
			Term{Query: brand + " " + productType, PriceFiltered: false},
		)
	}
	if first4 != "" && first4 != first3 {
		tiers = append(tiers, Term{Query: first4, PriceFiltered: true})
	}
	if hint := strings.ToLower(strings.TrimSpace(ageHint)); hint != "" && first3 != "" {
		tiers = append(tiers, Term{Query: first3 + " for " + hint, PriceFiltered: false})
	}

	return dedupe(tiers)
}

// detect returns the first title word present in the vocabulary set.
func (g *Generator) detect(words []string, set map[string]struct{}) string {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return w
		}
	}
	return ""
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

func firstN(words []string, n int) []string {
	if len(words) < n {
		n = len(words)
	}
	return words[:n]
}

func dedupe(terms []Term) []Term {
	seen := make(map[Term]struct{}, len(terms))
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if t.Query == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxFallbacks {
			break
		}
	}
	return out
}
