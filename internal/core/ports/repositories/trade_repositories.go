package repositories

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// TradeReader defines read operations for investment trades.
type TradeReader interface {
	FindTradeByID(ctx context.Context, tradeID string) (*domain.Trade, error)

	// ListTradesByAccount retrieves trades for an account dated at or before
	// until, in ascending occurrence order, which is the order the projector
	// folds in.
	ListTradesByAccount(ctx context.Context, accountID string, until time.Time) ([]domain.Trade, error)
}

// TradeWriter defines write operations for investment trades.
type TradeWriter interface {
	// SaveTradeWithEntry persists a trade together with its paired
	// investment_trade_<id> ledger entry in one transaction.
	SaveTradeWithEntry(ctx context.Context, trade domain.Trade, entry domain.LedgerEntry) error

	// DeleteTrade removes a trade and its paired ledger entry atomically.
	// Correction flows delete and recreate; trades are never mutated.
	DeleteTrade(ctx context.Context, tradeID string) error
}

// TradeRepositoryFacade combines all trade repository interfaces.
type TradeRepositoryFacade interface {
	TradeReader
	TradeWriter
}
