package services

import (
	"context"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceSource resolves market prices in minor units per unit. Implementations
// live outside this core (network adapters) or in internal/platform/prices
// (cache decorator, static source for tests).
//
// Unknown or unsupported symbols are tolerated by omission from the returned
// map, never by returning an error; the valuation engine degrades a missing
// symbol to zero with a warning. A configuration/auth problem is reported by
// wrapping apperrors.ErrConfiguration, which aborts a whole batch run.
type PriceSource interface {
	GetCurrentPrices(ctx context.Context, symbols []string, assetType domain.AssetType) (map[string]decimal.Decimal, error)
	GetHistoricalPrice(ctx context.Context, symbol string, assetType domain.AssetType, daysAgo int) (decimal.Decimal, error)
}
