// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/giftgenie/config.yaml",
	"/etc/giftgenie/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "GIFTGENIE_CONFIG"

// envPrefix namespaces environment overrides, e.g.
// GIFTGENIE_CATALOG_API_KEY maps to catalog.api_key.
const envPrefix = "GIFTGENIE_"

// Load builds the configuration: code defaults, then the YAML file at path
// (or the first DefaultConfigPaths entry when path is empty; a missing file
// is not an error), then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envToKey maps GIFTGENIE_SECTION_SOME_FIELD to section.some_field. The
// first underscore separates the section; the rest stay underscores to
// match the koanf struct tags.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
