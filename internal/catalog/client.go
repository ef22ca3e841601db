// GiftGenie - AI Gift Suggestion & Product Enrichment Backend
// Copyright 2026 Marcximus
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Marcximus/giftgenie-suggestify-magic-sub000

/*
client.go - Product Catalog REST API Client

Performs a single product lookup against the external catalog API. The
client does not retry or cache; retries belong to the orchestrator's retry
policy and caching to the result cache, keeping this a pure boundary.
*/

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/metrics"
	"github.com/Marcximus/giftgenie-suggestify-magic-sub000/internal/models"
)

const searchEndpoint = "search"

// LookupClient is the lookup boundary the pipeline depends on. Both Client
// and BreakerClient implement it.
type LookupClient interface {
	// Lookup returns the best product match for the term, or (nil, nil)
	// when the catalog has no match. priceRange, when non-nil, is
	// forwarded as lower/upper price filters.
	Lookup(ctx context.Context, searchTerm string, priceRange *models.PriceRange) (*models.Product, error)
}

// Ensure Client implements LookupClient
var _ LookupClient = (*Client)(nil)

// Client provides access to the product catalog REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a catalog API client.
//
// Parameters:
//   - baseURL: catalog API root (e.g. https://api.catalog.example.com)
//   - apiKey: subscription key sent as X-Api-Key
//   - timeout: per-call timeout; defaults to 5s when zero
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// searchResponse is the catalog search payload. The API returns at most
// `limit` products ordered by relevance.
type searchResponse struct {
	Products []models.Product `json:"products"`
}

// Lookup performs a single catalog search and returns the top match.
// searchTerm must be non-empty after trimming; priceRange, if present,
// must already be validated by the caller.
func (c *Client) Lookup(ctx context.Context, searchTerm string, priceRange *models.PriceRange) (*models.Product, error) {
	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm == "" {
		return nil, fmt.Errorf("catalog lookup: empty search term")
	}

	query := url.Values{}
	query.Set("query", searchTerm)
	query.Set("limit", "1")
	if priceRange != nil {
		query.Set("min_price", strconv.FormatFloat(priceRange.Min, 'f', 2, 64))
		query.Set("max_price", strconv.FormatFloat(priceRange.Max, 'f', 2, 64))
	}

	reqURL := c.baseURL + "/v1/products/search?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogRequestDuration.WithLabelValues(searchEndpoint, "network_error").Observe(time.Since(start).Seconds())
		metrics.CatalogRequestErrors.WithLabelValues(searchEndpoint, KindTransient.String()).Inc()
		return nil, &Error{Kind: KindTransient, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.CatalogRequestDuration.WithLabelValues(searchEndpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding below.
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.CatalogRequestErrors.WithLabelValues(searchEndpoint, KindAuth.String()).Inc()
		return nil, &Error{
			Kind:    KindAuth,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("subscription rejected (status %d): %s", resp.StatusCode, readBodySnippet(resp.Body)),
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.CatalogRequestErrors.WithLabelValues(searchEndpoint, KindRateLimited.String()).Inc()
		return nil, &Error{
			Kind:       KindRateLimited,
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Message:    "rate limited",
		}
	default:
		metrics.CatalogRequestErrors.WithLabelValues(searchEndpoint, KindTransient.String()).Inc()
		return nil, &Error{
			Kind:    KindTransient,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, readBodySnippet(resp.Body)),
		}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Kind: KindTransient, Status: resp.StatusCode, Message: "decode response", Err: err}
	}

	if len(payload.Products) == 0 {
		return nil, nil
	}
	product := payload.Products[0]
	return &product, nil
}

// parseRetryAfter handles both delta-seconds and HTTP-date forms.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// readBodySnippet returns up to 256 bytes of the body for error messages.
func readBodySnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 256))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
