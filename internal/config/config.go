// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package config holds the enrichment pipeline's policy constants and
// collaborator settings. Defaults are defined in code, overridden by an
// optional YAML file, then by GIFTGENIE_-prefixed environment variables.
package config

import (
	"time"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/searchterm"
)

// Config is the root configuration.
type Config struct {
	Log        LogConfig             `koanf:"log"`
	Catalog    CatalogConfig         `koanf:"catalog"`
	Pipeline   PipelineConfig        `koanf:"pipeline"`
	Validation ValidationConfig      `koanf:"validation"`
	Vocabulary searchterm.Vocabulary `koanf:"vocabulary"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// CatalogConfig configures the external catalog API client.
type CatalogConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	APIKey  string `koanf:"api_key" validate:"required"`

	// RequestTimeout bounds each catalog call.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// SmoothingRPS bounds the steady outbound rate ahead of the sliding
	// window limiter. Zero disables smoothing.
	SmoothingRPS float64 `koanf:"smoothing_rps" validate:"gte=0"`

	// BreakerName labels the circuit breaker in logs and metrics.
	BreakerName string `koanf:"breaker_name"`
}

// PipelineConfig holds the orchestration policy constants. The historical
// call sites disagreed on several of these (cache TTL, stagger delay); they
// are configuration here rather than per-call-site literals.
type PipelineConfig struct {
	// BatchSize is the number of suggestions enriched concurrently.
	BatchSize int `koanf:"batch_size" validate:"gte=1,lte=16"`

	// StaggerDelay offsets each item's start within a batch to avoid
	// bursting the rate limiter.
	StaggerDelay time.Duration `koanf:"stagger_delay"`

	// InterBatchDelay is the pause between batches.
	InterBatchDelay time.Duration `koanf:"inter_batch_delay"`

	// CacheTTL bounds result cache entry lifetime.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// JanitorInterval is the period of the cache's stale-entry sweep.
	JanitorInterval time.Duration `koanf:"janitor_interval"`

	// WindowLimit and WindowDuration configure the sliding window
	// limiter (requests per trailing window per endpoint).
	WindowLimit    int           `koanf:"window_limit" validate:"gte=1"`
	WindowDuration time.Duration `koanf:"window_duration"`

	// MaxRetries bounds retries per search term on transient or
	// rate-limit errors.
	MaxRetries int `koanf:"max_retries" validate:"gte=0,lte=10"`

	// BackoffBase and BackoffCap shape the exponential retry backoff.
	BackoffBase time.Duration `koanf:"backoff_base"`
	BackoffCap  time.Duration `koanf:"backoff_cap"`

	// PriceTolerance widens the acceptable price range on both ends.
	PriceTolerance float64 `koanf:"price_tolerance" validate:"gte=0,lte=1"`
}

// ValidationConfig holds the product quality rules.
type ValidationConfig struct {
	MinTitleLength     int      `koanf:"min_title_length" validate:"gte=1"`
	MaxTitleLength     int      `koanf:"max_title_length" validate:"gte=1"`
	BlacklistTerms     []string `koanf:"blacklist_terms"`
	ExcludedCategories []string `koanf:"excluded_categories"`
	MinRating          float64  `koanf:"min_rating" validate:"gte=0,lte=5"`
	MinRatingCount     int      `koanf:"min_rating_count" validate:"gte=0"`
}

// Default returns the configuration defaults applied before file and
// environment overrides.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://api.catalog.example.com",
			APIKey:         "",
			RequestTimeout: 5 * time.Second,
			SmoothingRPS:   2,
			BreakerName:    "catalog-api",
		},
		Pipeline: PipelineConfig{
			BatchSize:       4,
			StaggerDelay:    200 * time.Millisecond,
			InterBatchDelay: 250 * time.Millisecond,
			CacheTTL:        5 * time.Minute,
			JanitorInterval: 5 * time.Minute,
			WindowLimit:     30,
			WindowDuration:  time.Minute,
			MaxRetries:      3,
			BackoffBase:     time.Second,
			BackoffCap:      8 * time.Second,
			PriceTolerance:  0.2,
		},
		Validation: ValidationConfig{
			MinTitleLength:     10,
			MaxTitleLength:     200,
			BlacklistTerms:     nil, // validator defaults apply when nil
			ExcludedCategories: nil,
			MinRating:          3.5,
			MinRatingCount:     10,
		},
		Vocabulary: searchterm.DefaultVocabulary(),
	}
}
