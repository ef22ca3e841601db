// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  base_url: https://catalog.test.local
  api_key: secret
pipeline:
  batch_size: 2
  cache_ttl: 10m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Catalog.BaseURL != "https://catalog.test.local" {
		t.Errorf("base_url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Pipeline.BatchSize != 2 {
		t.Errorf("batch_size = %d, want 2 from file", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.CacheTTL != 10*time.Minute {
		t.Errorf("cache_ttl = %v, want 10m from file", cfg.Pipeline.CacheTTL)
	}

	// Untouched values keep defaults.
	if cfg.Pipeline.WindowLimit != 30 {
		t.Errorf("window_limit = %d, want default 30", cfg.Pipeline.WindowLimit)
	}
	if cfg.Pipeline.StaggerDelay != 200*time.Millisecond {
		t.Errorf("stagger_delay = %v, want default 200ms", cfg.Pipeline.StaggerDelay)
	}
	if len(cfg.Vocabulary.Brands) == 0 {
		t.Error("default vocabulary missing")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  api_key: from-file
pipeline:
  max_retries: 5
`)
	t.Setenv("GIFTGENIE_PIPELINE_MAX_RETRIES", "2")
	t.Setenv("GIFTGENIE_CATALOG_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.MaxRetries != 2 {
		t.Errorf("max_retries = %d, want env override 2", cfg.Pipeline.MaxRetries)
	}
	if cfg.Catalog.APIKey != "from-env" {
		t.Errorf("api_key = %q, want env override", cfg.Catalog.APIKey)
	}
}

func TestValidateRejectsMissingAPIKey(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure without api key")
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	base := func() *Config {
		cfg := Default()
		cfg.Catalog.APIKey = "k"
		return cfg
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg = base()
	cfg.Pipeline.BackoffCap = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected failure when backoff_cap below backoff_base")
	}

	cfg = base()
	cfg.Validation.MaxTitleLength = 5
	if err := cfg.Validate(); err == nil {
		t.Error("expected failure when max title below min title")
	}

	cfg = base()
	cfg.Pipeline.BatchSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected failure for zero batch size")
	}
}
