package prices

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

type cachedQuote struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// CachedSource decorates another PriceSource with a per-symbol TTL cache so a
// batch run over many accounts holding the same symbols hits the upstream API
// once per symbol, not once per account.
//
// Only current prices are cached; historical lookups pass through, they are
// rare and already keyed to a fixed day.
type CachedSource struct {
	upstream portssvc.PriceSource
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cachedQuote // keyed by assetType/symbol
}

// NewCachedSource wraps upstream with a TTL cache.
func NewCachedSource(upstream portssvc.PriceSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]cachedQuote),
	}
}

var _ portssvc.PriceSource = (*CachedSource)(nil)

func cacheKey(assetType domain.AssetType, symbol string) string {
	return string(assetType) + "/" + symbol
}

// GetCurrentPrices implements portssvc.PriceSource. Fresh symbols are served
// from the cache; the remainder go upstream in one call. An upstream error
// leaves existing cache entries untouched.
func (s *CachedSource) GetCurrentPrices(ctx context.Context, symbols []string, assetType domain.AssetType) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(symbols))
	var missing []string

	s.mu.Lock()
	cutoff := s.now().Add(-s.ttl)
	for _, symbol := range symbols {
		if q, ok := s.cache[cacheKey(assetType, symbol)]; ok && q.fetchedAt.After(cutoff) {
			out[symbol] = q.price
		} else {
			missing = append(missing, symbol)
		}
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := s.upstream.GetCurrentPrices(ctx, missing, assetType)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	fetchedAt := s.now()
	for symbol, price := range fetched {
		s.cache[cacheKey(assetType, symbol)] = cachedQuote{price: price, fetchedAt: fetchedAt}
		out[symbol] = price
	}
	s.mu.Unlock()

	return out, nil
}

// GetHistoricalPrice implements portssvc.PriceSource.
func (s *CachedSource) GetHistoricalPrice(ctx context.Context, symbol string, assetType domain.AssetType, daysAgo int) (decimal.Decimal, error) {
	return s.upstream.GetHistoricalPrice(ctx, symbol, assetType, daysAgo)
}
