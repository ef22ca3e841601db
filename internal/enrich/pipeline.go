// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package enrich orchestrates the suggestion enrichment pipeline: it takes
// candidate gift suggestions, resolves each against the product catalog
// through the cache, rate limiter and fallback search terms, validates the
// matches and delivers results progressively while preserving input order.
package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/cache"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/catalog"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/config"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/metrics"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/pricerange"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/ratelimit"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/retry"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/searchterm"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/validate"
)

// ErrEmptyInput is returned when Run is called without suggestions. This is
// the only run-level error; individual item failures never fail a run.
var ErrEmptyInput = errors.New("enrich: empty suggestion list")

// searchEndpoint is the logical endpoint name for limiter and metrics.
const searchEndpoint = "search"

// Progress receives each suggestion as soon as it reaches a terminal state.
// Invoked exactly once per input index, in completion order; consumers must
// use the index to place results.
type Progress func(index int, result models.Suggestion)

// Pipeline runs enrichment over batches of suggestions. The limiter, cache
// and catalog client are shared across all concurrent runs of the process;
// per-run state lives in runState.
type Pipeline struct {
	policy    config.PipelineConfig
	client    catalog.LookupClient
	cache     *cache.ResultCache
	limiter   *ratelimit.Limiter
	validator *validate.Validator
	terms     *searchterm.Generator
	logger    zerolog.Logger
}

// New builds a Pipeline from configuration. The client is typically a
// catalog.BreakerClient wrapping the raw catalog client.
func New(cfg *config.Config, client catalog.LookupClient, logger zerolog.Logger) *Pipeline {
	pol := cfg.Pipeline

	return &Pipeline{
		policy: pol,
		client: client,
		cache:  cache.New(pol.CacheTTL),
		limiter: ratelimit.New(ratelimit.Options{
			Max:         pol.WindowLimit,
			Window:      pol.WindowDuration,
			BackoffBase: pol.BackoffBase,
			BackoffCap:  pol.BackoffCap,
		}),
		validator: validate.New(validate.Options{
			MinTitleLength:     cfg.Validation.MinTitleLength,
			MaxTitleLength:     cfg.Validation.MaxTitleLength,
			BlacklistTerms:     cfg.Validation.BlacklistTerms,
			ExcludedCategories: cfg.Validation.ExcludedCategories,
			MinRating:          cfg.Validation.MinRating,
			MinRatingCount:     cfg.Validation.MinRatingCount,
			PriceTolerance:     pol.PriceTolerance,
		}),
		terms:  searchterm.NewGenerator(cfg.Vocabulary),
		logger: logger,
	}
}

// StartCacheJanitor runs periodic stale-entry sweeps until ctx is cancelled.
func (p *Pipeline) StartCacheJanitor(ctx context.Context) {
	p.cache.StartJanitor(ctx, p.policy.JanitorInterval)
}

// CacheStats exposes result cache counters for observability handlers.
func (p *Pipeline) CacheStats() cache.Stats {
	return p.cache.GetStats()
}

// runState is the single mutable resource of one Run. Each slot settles
// exactly once; later writes are ignored.
type runState struct {
	mu       sync.Mutex
	results  []models.Suggestion
	settled  []bool
	authOnce sync.Once
}

func newRunState(suggestions []models.Suggestion) *runState {
	results := make([]models.Suggestion, len(suggestions))
	copy(results, suggestions)
	return &runState{
		results: results,
		settled: make([]bool, len(suggestions)),
	}
}

// settle records the terminal value for an index and reports whether this
// call won the write. The caller invokes the progress callback only on a
// won write, which yields the exactly-once guarantee.
func (st *runState) settle(index int, result models.Suggestion) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.settled[index] {
		return false
	}
	st.settled[index] = true
	st.results[index] = result
	return true
}

// Run enriches the suggestions against the catalog and returns the full
// ordered result slice: output length always equals input length and the
// i-th result corresponds to the i-th input, regardless of completion
// order. onItem may be nil.
//
// Cancellation settles unresolved items as unenriched rather than failing
// the run; in-flight catalog calls are abandoned to their own timeout.
func (p *Pipeline) Run(ctx context.Context, suggestions []models.Suggestion, priceLabel string, onItem Progress) ([]models.Suggestion, error) {
	if len(suggestions) == 0 {
		return nil, ErrEmptyInput
	}

	start := time.Now()
	defer func() {
		metrics.EnrichmentRunDuration.Observe(time.Since(start).Seconds())
	}()

	logger := p.logger.With().
		Str("run_id", uuid.NewString()).
		Int("items", len(suggestions)).
		Logger()
	logger.Info().Str("price_label", priceLabel).Msg("Enrichment run started")

	priceRange := pricerange.ParseOrDefault(priceLabel)
	st := newRunState(suggestions)

	batchSize := p.policy.BatchSize
	if batchSize <= 0 {
		batchSize = 4
	}

	for batchStart := 0; batchStart < len(suggestions); batchStart += batchSize {
		batchEnd := batchStart + batchSize
		if batchEnd > len(suggestions) {
			batchEnd = len(suggestions)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(index, offset int) {
				defer wg.Done()

				// Staggered starts keep a batch from bursting the
				// window limiter all at once.
				if offset > 0 {
					if err := sleepCtx(ctx, time.Duration(offset)*p.policy.StaggerDelay); err != nil {
						p.deliver(st, index, st.results[index], onItem)
						return
					}
				}
				p.enrichOne(ctx, logger, st, index, priceRange, priceLabel, onItem)
			}(i, i-batchStart)
		}
		wg.Wait()

		if batchEnd < len(suggestions) {
			if err := sleepCtx(ctx, p.policy.InterBatchDelay); err != nil {
				break
			}
		}
	}

	// Items in batches never dispatched (cancellation) settle unchanged.
	for i := range st.results {
		p.deliver(st, i, st.results[i], onItem)
	}

	logger.Info().
		Int("enriched", countEnriched(st.results)).
		Dur("elapsed", time.Since(start)).
		Msg("Enrichment run finished")

	return st.results, nil
}

// deliver settles the slot and fires the progress callback when this call
// was the settling one.
func (p *Pipeline) deliver(st *runState, index int, result models.Suggestion, onItem Progress) {
	if !st.settle(index, result) {
		return
	}

	outcome := "unenriched"
	if result.Enriched() {
		outcome = "enriched"
	}
	metrics.EnrichmentItemsSettled.WithLabelValues(outcome).Inc()

	if onItem != nil {
		onItem(index, result)
	}
}

// enrichOne drives a single suggestion to its terminal state: cache check,
// primary term, then fallback terms, each with retry on transient errors.
func (p *Pipeline) enrichOne(ctx context.Context, logger zerolog.Logger, st *runState, index int, priceRange models.PriceRange, priceLabel string, onItem Progress) {
	sug := st.results[index]

	title := strings.TrimSpace(sug.Title)
	if title == "" {
		sug.EnrichmentNote = "missing title"
		p.deliver(st, index, sug, onItem)
		return
	}

	terms := p.termsFor(sug)
	attempts := 0
	defer func() {
		if attempts > 0 {
			metrics.EnrichmentFallbackDepth.Observe(float64(attempts))
		}
	}()

	for _, term := range terms {
		if ctx.Err() != nil {
			break
		}
		attempts++

		key := cache.Key(term.Query, priceLabel)
		if product, ok := p.cache.Get(key); ok {
			sug.Enrichment = &product
			p.deliver(st, index, sug, onItem)
			return
		}

		product, err := p.lookup(ctx, logger, term, priceRange)
		if err != nil {
			if catalog.IsAuth(err) {
				st.authOnce.Do(func() {
					logger.Error().Err(err).Msg("Catalog credentials rejected; run continues unenriched")
				})
				sug.EnrichmentNote = "catalog unavailable: subscription rejected"
				p.deliver(st, index, sug, onItem)
				return
			}

			// Retries exhausted or cancelled; terminal for this item.
			logger.Warn().Err(err).Int("item", index).Str("term", term.Query).Msg("Catalog lookup failed")
			p.deliver(st, index, sug, onItem)
			return
		}

		if product == nil {
			// No match; try the next, more generic term.
			continue
		}

		// Unfiltered fallback terms widen the search, not the budget:
		// validation always enforces the run's price range.
		enriched, verr := p.validator.Validate(product, sug.Title, &priceRange)
		if verr != nil {
			logger.Debug().Err(verr).Int("item", index).Str("term", term.Query).Msg("Candidate rejected")
			continue
		}

		p.cache.Put(key, enriched)
		sug.Enrichment = &enriched
		p.deliver(st, index, sug, onItem)
		return
	}

	// All terms exhausted: not an error, just no acceptable match. The
	// original suggestion is delivered unchanged.
	p.deliver(st, index, sug, onItem)
}

// termsFor builds the ordered search attempts: the generator-supplied query
// (or cleaned title) first, then the fallback tiers, deduplicated.
func (p *Pipeline) termsFor(sug models.Suggestion) []searchterm.Term {
	primary := strings.TrimSpace(sug.SearchQuery)
	if primary == "" {
		primary = p.terms.Primary(sug.Title)
	}

	out := make([]searchterm.Term, 0, searchterm.MaxFallbacks+1)
	seen := make(map[searchterm.Term]struct{})

	add := func(t searchterm.Term) {
		if t.Query == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	add(searchterm.Term{Query: primary, PriceFiltered: true})
	for _, t := range p.terms.Fallbacks(sug.Title, "") {
		add(t)
	}
	return out
}

// lookup performs one rate-limited catalog lookup with the retry policy.
// Admission is awaited per attempt so retries respect the shared window.
func (p *Pipeline) lookup(ctx context.Context, logger zerolog.Logger, term searchterm.Term, priceRange models.PriceRange) (*models.Product, error) {
	policy := retry.Policy{
		MaxRetries:  p.policy.MaxRetries,
		Backoff:     p.limiter.BackoffDelay,
		IsRetryable: catalog.IsRetryable,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			metrics.CatalogRetries.WithLabelValues(searchEndpoint).Inc()
			logger.Debug().
				Err(err).
				Int("attempt", attempt).
				Dur("delay", delay).
				Str("term", term.Query).
				Msg("Retrying catalog lookup")
		},
	}

	pr := rangeFor(term, priceRange)
	return retry.Do(ctx, policy, func(ctx context.Context) (*models.Product, error) {
		if err := p.awaitAdmission(ctx); err != nil {
			return nil, err
		}
		return p.client.Lookup(ctx, term.Query, pr)
	})
}

// awaitAdmission blocks until the sliding window has budget or ctx ends.
func (p *Pipeline) awaitAdmission(ctx context.Context) error {
	for {
		if p.limiter.Admit(searchEndpoint) {
			return nil
		}

		wait := p.limiter.NextAdmit(searchEndpoint)
		if wait <= 0 {
			wait = 50 * time.Millisecond
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}

// rangeFor returns the price bounds to forward, nil for unfiltered terms.
func rangeFor(term searchterm.Term, priceRange models.PriceRange) *models.PriceRange {
	if !term.PriceFiltered {
		return nil
	}
	pr := priceRange
	return &pr
}

func countEnriched(results []models.Suggestion) int {
	n := 0
	for i := range results {
		if results[i].Enriched() {
			n++
		}
	}
	return n
}

// sleepCtx waits for d unless ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
