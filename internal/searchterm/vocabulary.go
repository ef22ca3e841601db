// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package searchterm

// DefaultVocabulary returns the built-in brand/product-type/attribute word
// lists. Deployments extend these via the vocabulary section of the config
// file; the defaults cover the gift categories the suggestion generator
// most often produces.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Brands: []string{
			"lego", "sony", "bose", "apple", "samsung", "nintendo",
			"kindle", "fitbit", "garmin", "yeti", "stanley", "moleskine",
			"polaroid", "fujifilm", "jbl", "anker", "logitech", "philips",
			"dyson", "weber", "victorinox", "casio", "timex", "fossil",
		},
		ProductTypes: []string{
			"wallet", "speaker", "headphones", "earbuds", "watch", "mug",
			"tumbler", "bottle", "backpack", "bag", "lamp", "candle",
			"blanket", "scarf", "gloves", "knife", "board", "puzzle",
			"game", "book", "journal", "notebook", "camera", "drone",
			"keyboard", "mouse", "charger", "frame", "planter", "kit",
		},
		Attributes: []string{
			"leather", "wireless", "bluetooth", "portable", "wooden",
			"ceramic", "stainless", "insulated", "waterproof", "smart",
			"vintage", "personalized", "handmade", "mini", "electric",
			"solar", "magnetic", "foldable", "rechargeable", "heated",
		},
	}
}
