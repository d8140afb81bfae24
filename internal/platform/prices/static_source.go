package prices

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

// StaticSource serves prices from a fixed map. It backs local development and
// tests; symbols outside the map are omitted, matching the port contract.
type StaticSource struct {
	quotes map[domain.AssetType]map[string]decimal.Decimal
}

// NewStaticSource creates a fixed-price source.
func NewStaticSource(quotes map[domain.AssetType]map[string]decimal.Decimal) *StaticSource {
	return &StaticSource{quotes: quotes}
}

var _ portssvc.PriceSource = (*StaticSource)(nil)

func (s *StaticSource) GetCurrentPrices(_ context.Context, symbols []string, assetType domain.AssetType) (map[string]decimal.Decimal, error) {
	byType := s.quotes[assetType]
	out := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		if price, ok := byType[symbol]; ok {
			out[symbol] = price
		}
	}
	return out, nil
}

func (s *StaticSource) GetHistoricalPrice(_ context.Context, symbol string, assetType domain.AssetType, _ int) (decimal.Decimal, error) {
	price, ok := s.quotes[assetType][symbol]
	if !ok {
		return decimal.Zero, apperrors.NewNotFoundError(fmt.Sprintf("no %s quote for %s", assetType, symbol))
	}
	return price, nil
}
