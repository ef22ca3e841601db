// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags plus the cross-field rules the tags cannot
// express. Called by Load; callers constructing a Config by hand should
// call it themselves.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	p := c.Pipeline
	if p.BackoffCap < p.BackoffBase {
		return fmt.Errorf("config validation: backoff_cap %v below backoff_base %v", p.BackoffCap, p.BackoffBase)
	}
	if p.StaggerDelay < 0 || p.InterBatchDelay < 0 {
		return fmt.Errorf("config validation: negative pipeline delay")
	}
	if p.CacheTTL <= 0 {
		return fmt.Errorf("config validation: cache_ttl must be positive")
	}
	if p.WindowDuration <= 0 {
		return fmt.Errorf("config validation: window_duration must be positive")
	}

	v := c.Validation
	if v.MaxTitleLength <= v.MinTitleLength {
		return fmt.Errorf("config validation: max_title_length %d not above min_title_length %d", v.MaxTitleLength, v.MinTitleLength)
	}

	return nil
}
