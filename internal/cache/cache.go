// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package cache provides the TTL-bounded result cache for validated catalog
// products. Only Accepted products are stored; rejected lookups are not
// cached so later calls with different constraints can retry.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/metrics"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

// entry is a cached product with its storage time. TTL expiry is checked
// lazily on Get and in periodic sweeps.
type entry struct {
	product  models.EnrichedProduct
	storedAt time.Time
}

// ResultCache is a thread-safe in-memory cache of validated products keyed
// by normalized search term and price label. One instance is shared across
// all concurrent pipeline runs.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	stats   counters

	now func() time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

type counters struct {
	mu        sync.Mutex
	hits      int64
	misses    int64
	evictions int64
}

func (c *counters) record(field *int64) {
	c.add(field, 1)
}

func (c *counters) add(field *int64, delta int64) {
	c.mu.Lock()
	*field += delta
	c.mu.Unlock()
}

// New creates a ResultCache with the given TTL.
func New(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key builds the cache key for a search term and price label. The label is
// part of the key so the same query caches independently per budget.
func Key(searchTerm, priceLabel string) string {
	return strings.ToLower(strings.TrimSpace(searchTerm)) + "|" + strings.TrimSpace(priceLabel)
}

// Get returns the cached product for the key if present and fresh. Stale
// entries are evicted on access and reported as misses.
func (c *ResultCache) Get(key string) (models.EnrichedProduct, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.CacheMisses.Inc()
		c.stats.record(&c.stats.misses)
		return models.EnrichedProduct{}, false
	}

	if c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// refreshed the entry.
		if cur, still := c.entries[key]; still && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		metrics.CacheMisses.Inc()
		metrics.CacheEvictions.Inc()
		c.stats.record(&c.stats.misses)
		c.stats.record(&c.stats.evictions)
		return models.EnrichedProduct{}, false
	}

	metrics.CacheHits.Inc()
	c.stats.record(&c.stats.hits)
	return e.product, true
}

// Put stores a validated product under the key.
func (c *ResultCache) Put(key string, product models.EnrichedProduct) {
	c.mu.Lock()
	c.entries[key] = entry{product: product, storedAt: c.now()}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.Set(float64(size))
}

// EvictStale removes all expired entries and returns how many were evicted.
func (c *ResultCache) EvictStale() int {
	now := c.now()

	c.mu.Lock()
	evicted := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if evicted > 0 {
		metrics.CacheEvictions.Add(float64(evicted))
		c.stats.add(&c.stats.evictions, int64(evicted))
	}
	metrics.CacheSize.Set(float64(size))
	return evicted
}

// StartJanitor runs periodic EvictStale sweeps until the context is
// cancelled. Bounds memory between lazy evictions.
func (c *ResultCache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.EvictStale()
			}
		}
	}()
}

// Len returns the current number of entries, including not-yet-evicted
// stale ones.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of cache counters.
func (c *ResultCache) GetStats() Stats {
	c.stats.mu.Lock()
	defer c.stats.mu.Unlock()
	return Stats{
		Hits:      c.stats.hits,
		Misses:    c.stats.misses,
		Evictions: c.stats.evictions,
		Size:      c.Len(),
	}
}
