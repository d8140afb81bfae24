package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTradeRequest records one investment transaction.
// Amount and fees are integer minor units; the JSON layer never carries
// floating-point currency.
type CreateTradeRequest struct {
	AccountID     string           `json:"accountID" binding:"required"`
	OccurredAt    time.Time        `json:"occurredAt" binding:"required"`
	TradeType     domain.TradeType `json:"tradeType" binding:"required"`
	AssetType     domain.AssetType `json:"assetType" binding:"required"`
	Symbol        *string          `json:"symbol"`
	Quantity      *decimal.Decimal `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	Amount        int64            `json:"amount"`
	Fees          *int64           `json:"fees"`
	Description   string           `json:"description"`
	ImportBatchID *string          `json:"importBatchID"`
}
