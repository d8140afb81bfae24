package prices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

type countingSource struct {
	calls  int
	quotes map[string]decimal.Decimal
	err    error
}

func (c *countingSource) GetCurrentPrices(_ context.Context, symbols []string, _ domain.AssetType) (map[string]decimal.Decimal, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[string]decimal.Decimal)
	for _, s := range symbols {
		if p, ok := c.quotes[s]; ok {
			out[s] = p
		}
	}
	return out, nil
}

func (c *countingSource) GetHistoricalPrice(_ context.Context, symbol string, _ domain.AssetType, _ int) (decimal.Decimal, error) {
	c.calls++
	return c.quotes[symbol], c.err
}

func TestCachedSource_ServesFreshQuotesWithoutUpstreamCall(t *testing.T) {
	upstream := &countingSource{quotes: map[string]decimal.Decimal{
		"NVDA": decimal.NewFromInt(45_000),
		"GME":  decimal.NewFromInt(8_500),
	}}
	cache := NewCachedSource(upstream, 15*time.Minute)

	first, err := cache.GetCurrentPrices(context.Background(), []string{"NVDA", "GME"}, domain.AssetEquity)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, upstream.calls)

	second, err := cache.GetCurrentPrices(context.Background(), []string{"NVDA", "GME"}, domain.AssetEquity)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedSource_FetchesOnlyMissingSymbols(t *testing.T) {
	upstream := &countingSource{quotes: map[string]decimal.Decimal{
		"NVDA": decimal.NewFromInt(45_000),
		"BTC":  decimal.NewFromInt(6_500_000_000),
	}}
	cache := NewCachedSource(upstream, 15*time.Minute)

	_, err := cache.GetCurrentPrices(context.Background(), []string{"NVDA"}, domain.AssetEquity)
	require.NoError(t, err)

	out, err := cache.GetCurrentPrices(context.Background(), []string{"NVDA", "BTC"}, domain.AssetEquity)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedSource_ExpiredEntriesRefetch(t *testing.T) {
	upstream := &countingSource{quotes: map[string]decimal.Decimal{
		"NVDA": decimal.NewFromInt(45_000),
	}}
	cache := NewCachedSource(upstream, 15*time.Minute)

	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	_, err := cache.GetCurrentPrices(context.Background(), []string{"NVDA"}, domain.AssetEquity)
	require.NoError(t, err)
	require.Equal(t, 1, upstream.calls)

	current = current.Add(16 * time.Minute)
	_, err = cache.GetCurrentPrices(context.Background(), []string{"NVDA"}, domain.AssetEquity)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedSource_UpstreamErrorPropagates(t *testing.T) {
	upstream := &countingSource{err: errors.New("upstream down")}
	cache := NewCachedSource(upstream, time.Minute)

	_, err := cache.GetCurrentPrices(context.Background(), []string{"NVDA"}, domain.AssetEquity)
	require.Error(t, err)
}

func TestCachedSource_SameSymbolDifferentAssetTypesCachedSeparately(t *testing.T) {
	upstream := &countingSource{quotes: map[string]decimal.Decimal{
		"X": decimal.NewFromInt(100),
	}}
	cache := NewCachedSource(upstream, time.Minute)

	_, err := cache.GetCurrentPrices(context.Background(), []string{"X"}, domain.AssetEquity)
	require.NoError(t, err)
	_, err = cache.GetCurrentPrices(context.Background(), []string{"X"}, domain.AssetCrypto)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestStaticSource_OmitsUnknownSymbols(t *testing.T) {
	source := NewStaticSource(map[domain.AssetType]map[string]decimal.Decimal{
		domain.AssetEquity: {"NVDA": decimal.NewFromInt(45_000)},
	})

	out, err := source.GetCurrentPrices(context.Background(), []string{"NVDA", "UNKNOWN"}, domain.AssetEquity)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out["NVDA"].Equal(decimal.NewFromInt(45_000)))
}
