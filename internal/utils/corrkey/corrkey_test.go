package corrkey_test

import (
	"testing"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/utils/corrkey"
	"github.com/stretchr/testify/assert"
)

func TestForValuationRoundTrip(t *testing.T) {
	key := corrkey.ForValuation("abc-123")
	assert.Equal(t, "investment_valuation_abc-123", key)

	parsed := corrkey.Parse(key)
	assert.Equal(t, corrkey.KindValuation, parsed.Kind)
	assert.Equal(t, "abc-123", parsed.ID)
}

func TestForTradeRoundTrip(t *testing.T) {
	key := corrkey.ForTrade("t-9")
	assert.Equal(t, "investment_trade_t-9", key)

	parsed := corrkey.Parse(key)
	assert.Equal(t, corrkey.KindTrade, parsed.Kind)
	assert.Equal(t, "t-9", parsed.ID)
}

func TestForTransferFormat(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	key := corrkey.ForTransfer(now, "deadbeef")
	assert.Equal(t, "transfer_1709294400_deadbeef", key)

	parsed := corrkey.Parse(key)
	assert.Equal(t, corrkey.KindTransfer, parsed.Kind)
	assert.Equal(t, key, parsed.ID)
	assert.True(t, corrkey.IsTransfer(key))
}

func TestParseUnknown(t *testing.T) {
	assert.Equal(t, corrkey.KindNone, corrkey.Parse("").Kind)
	assert.Equal(t, corrkey.KindNone, corrkey.Parse("csv_import_42").Kind)
	assert.False(t, corrkey.IsAutomated(""))
	assert.True(t, corrkey.IsAutomated("investment_valuation_x"))
}
