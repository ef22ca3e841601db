// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package enrich

import (
	"context"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

// Event is one progressively delivered result. Events arrive in completion
// order; Index places the result in the input order.
type Event struct {
	Index      int               `json:"index"`
	Suggestion models.Suggestion `json:"suggestion"`
}

// Result carries the final ordered slice once a streamed run finishes.
type Result struct {
	Suggestions []models.Suggestion
	Err         error
}

// Stream runs enrichment and delivers per-item events on a channel instead
// of a callback. The events channel is closed after the last item settles;
// the result channel then yields exactly one Result. Structural input
// errors surface immediately before any goroutine starts.
func (p *Pipeline) Stream(ctx context.Context, suggestions []models.Suggestion, priceLabel string) (<-chan Event, <-chan Result, error) {
	if len(suggestions) == 0 {
		return nil, nil, ErrEmptyInput
	}

	events := make(chan Event, len(suggestions))
	done := make(chan Result, 1)

	go func() {
		defer close(events)

		results, err := p.Run(ctx, suggestions, priceLabel, func(index int, result models.Suggestion) {
			// Buffered to input length, so sends never block even if
			// the consumer only reads the final result.
			events <- Event{Index: index, Suggestion: result}
		})
		done <- Result{Suggestions: results, Err: err}
	}()

	return events, done, nil
}
