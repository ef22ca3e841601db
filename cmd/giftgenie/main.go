// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

// Package main is the entry point for the GiftGenie enrichment runner.
//
// The runner reads a JSON array of gift suggestions on stdin, enriches each
// against the product catalog, and writes results progressively to stdout as
// newline-delimited JSON events, one per suggestion, in completion order.
// The final line is the full result array in input order.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (GIFTGENIE_ prefix, e.g. GIFTGENIE_CATALOG_API_KEY)
//   - Config file (config.yaml, or -config / GIFTGENIE_CONFIG)
//   - Built-in defaults
//
// # Example Usage
//
//	export GIFTGENIE_CATALOG_API_KEY=your-api-key
//	echo '[{"title":"Leather Wallet for Men Slim RFID"}]' | \
//	  ./giftgenie -price-range "25-50"
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run. Suggestions not yet resolved are
// emitted unenriched so the output array always matches the input length.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/catalog"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/config"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/enrich"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/logging"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	priceLabel := flag.String("price-range", "", `price range label, e.g. "25-50" or "around $40"`)
	inputPath := flag.String("input", "-", "suggestions JSON file, - for stdin")
	flag.Parse()

	// Load configuration first to get logging settings
	cfg, err := config.Load(*configPath)
	if err != nil {
		// Default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	suggestions, err := readSuggestions(*inputPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read suggestions")
	}

	logging.Info().
		Int("items", len(suggestions)).
		Str("catalog_url", cfg.Catalog.BaseURL).
		Msg("Starting enrichment")

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.RequestTimeout)
	breaker := catalog.NewBreakerClient(client, cfg.Catalog.BreakerName, cfg.Catalog.SmoothingRPS)

	pipeline := enrich.New(cfg, breaker,
		logging.Logger().With().Str("component", "enrich").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline.StartCacheJanitor(ctx)

	events, result, err := pipeline.Stream(ctx, suggestions, *priceLabel)
	if err != nil {
		logging.Fatal().Err(err).Msg("Enrichment failed to start")
	}

	out := bufio.NewWriter(os.Stdout)
	enc := json.NewEncoder(out)

	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			logging.Error().Err(err).Msg("Failed to write event")
		}
	}

	final := <-result
	if err := enc.Encode(final.Suggestions); err != nil {
		logging.Error().Err(err).Msg("Failed to write result array")
	}
	if err := out.Flush(); err != nil {
		logging.Error().Err(err).Msg("Failed to flush output")
	}

	stats := pipeline.CacheStats()
	logging.Info().
		Int64("cache_hits", stats.Hits).
		Int64("cache_misses", stats.Misses).
		Msg("Enrichment finished")
}

// readSuggestions decodes the input JSON array from a file or stdin.
func readSuggestions(path string) ([]models.Suggestion, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var suggestions []models.Suggestion
	if err := json.NewDecoder(r).Decode(&suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}
