package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType is the kind of investment transaction recorded on an account.
type TradeType string

const (
	TradeBuy        TradeType = "BUY"
	TradeSell       TradeType = "SELL"
	TradeDeposit    TradeType = "DEPOSIT"
	TradeWithdraw   TradeType = "WITHDRAW"
	TradeDividend   TradeType = "DIVIDEND"
	TradeInterest   TradeType = "INTEREST"
	TradeFee        TradeType = "FEE"
	TradeAdjustment TradeType = "ADJUSTMENT"
)

// AssetType groups symbols by the price source that quotes them.
type AssetType string

const (
	AssetCrypto AssetType = "CRYPTO"
	AssetEquity AssetType = "EQUITY"
	AssetCash   AssetType = "CASH"
)

// Trade is one immutable investment transaction on an investment account.
// Corrections are delete-and-recreate, never in-place mutation.
//
// Amount is the signed cash movement in minor units and already carries the
// sign appropriate for the trade type (a WITHDRAW has a negative amount, a
// DEPOSIT a positive one). Quantity and UnitPrice are arbitrary-precision
// decimals since crypto positions routinely hold fractional units.
type Trade struct {
	TradeID       string           `json:"tradeID"`   // Primary Key (UUID)
	AccountID     string           `json:"accountID"` // FK -> accounts.account_id (Not Null)
	OccurredAt    time.Time        `json:"occurredAt"`
	TradeType     TradeType        `json:"tradeType"`
	AssetType     AssetType        `json:"assetType"`
	Symbol        *string          `json:"symbol"`    // nil for pure cash movements
	Quantity      *decimal.Decimal `json:"quantity"`  // nil for pure cash movements
	UnitPrice     *decimal.Decimal `json:"unitPrice"` // derived, nullable
	Amount        int64            `json:"amount"`    // signed minor units
	Fees          *int64           `json:"fees"`      // non-negative minor units, nullable
	ImportBatchID *string          `json:"importBatchID"`
	AuditFields
}

// FeesOrZero returns the fee amount, treating a missing fee as zero.
func (t Trade) FeesOrZero() int64 {
	if t.Fees == nil {
		return 0
	}
	return *t.Fees
}

// SymbolOrEmpty returns the symbol, or "" for pure cash movements.
func (t Trade) SymbolOrEmpty() string {
	if t.Symbol == nil {
		return ""
	}
	return *t.Symbol
}
