package services

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

// TradeSvcFacade records and removes investment trades. Trades are immutable;
// corrections delete and recreate.
type TradeSvcFacade interface {
	// RecordTrade validates and persists a trade together with its paired
	// investment_trade_<id> ledger entry.
	RecordTrade(ctx context.Context, req dto.CreateTradeRequest, creatorUserID string) (*domain.Trade, error)

	// DeleteTrade removes a trade and its paired entry.
	DeleteTrade(ctx context.Context, tradeID string, userID string) error

	ListTrades(ctx context.Context, accountID string, until time.Time) ([]domain.Trade, error)
}
