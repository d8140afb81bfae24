// Package prices contains the price source adapters behind the core's
// PriceSource port: an HTTP client for a quote API, a TTL cache decorator,
// and a static source for development and tests.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

// HTTPSource resolves prices from a quote API. Quotes come back as decimal
// strings in minor units per unit; unknown symbols are simply absent from the
// response and stay absent from the returned map.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates a price source against the given quote API.
func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

var _ portssvc.PriceSource = (*HTTPSource)(nil)

type quoteResponse struct {
	Prices map[string]string `json:"prices"`
}

// GetCurrentPrices implements portssvc.PriceSource.
func (s *HTTPSource) GetCurrentPrices(ctx context.Context, symbols []string, assetType domain.AssetType) (map[string]decimal.Decimal, error) {
	return s.fetch(ctx, symbols, assetType, 0)
}

// GetHistoricalPrice implements portssvc.PriceSource.
func (s *HTTPSource) GetHistoricalPrice(ctx context.Context, symbol string, assetType domain.AssetType, daysAgo int) (decimal.Decimal, error) {
	prices, err := s.fetch(ctx, []string{symbol}, assetType, daysAgo)
	if err != nil {
		return decimal.Zero, err
	}
	price, ok := prices[symbol]
	if !ok {
		return decimal.Zero, apperrors.NewNotFoundError(fmt.Sprintf("no %s quote for %s", assetType, symbol))
	}
	return price, nil
}

func (s *HTTPSource) fetch(ctx context.Context, symbols []string, assetType domain.AssetType, daysAgo int) (map[string]decimal.Decimal, error) {
	if s.baseURL == "" || s.apiKey == "" {
		return nil, fmt.Errorf("%w: price API base URL or key is not configured", apperrors.ErrConfiguration)
	}
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("asset_type", string(assetType))
	if daysAgo > 0 {
		params.Set("days_ago", strconv.Itoa(daysAgo))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/quotes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: quote API rejected credentials (status %d)", apperrors.ErrConfiguration, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	out := make(map[string]decimal.Decimal, len(body.Prices))
	for symbol, raw := range body.Prices {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("quote API returned malformed price %q for %s: %w", raw, symbol, err)
		}
		out[symbol] = price
	}
	return out, nil
}
