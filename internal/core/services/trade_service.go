package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/fintrackhq/fintrack_backend/internal/core/holdings"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
	"github.com/fintrackhq/fintrack_backend/internal/middleware"
	"github.com/fintrackhq/fintrack_backend/internal/utils/corrkey"
)

type tradeService struct {
	tradeRepo   portsrepo.TradeRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTradeService creates a new TradeService.
func NewTradeService(tradeRepo portsrepo.TradeRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TradeSvcFacade {
	return &tradeService{tradeRepo: tradeRepo, accountRepo: accountRepo}
}

var _ portssvc.TradeSvcFacade = (*tradeService)(nil)

// RecordTrade implements portssvc.TradeSvcFacade. The trade and its paired
// investment_trade_<id> ledger entry are written in one transaction.
func (s *tradeService) RecordTrade(ctx context.Context, req dto.CreateTradeRequest, creatorUserID string) (*domain.Trade, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if !account.IsInvestment() {
		return nil, fmt.Errorf("%w: account %s does not hold trades", apperrors.ErrValidation, req.AccountID)
	}

	now := time.Now().UTC()
	trade := domain.Trade{
		TradeID:       uuid.NewString(),
		AccountID:     req.AccountID,
		OccurredAt:    req.OccurredAt,
		TradeType:     req.TradeType,
		AssetType:     req.AssetType,
		Symbol:        req.Symbol,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Amount:        req.Amount,
		Fees:          req.Fees,
		ImportBatchID: req.ImportBatchID,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: creatorUserID,
			LastUpdatedAt: now, LastUpdatedBy: creatorUserID,
		},
	}
	if err := holdings.ValidateTrade(trade); err != nil {
		return nil, err
	}
	if trade.UnitPrice == nil && trade.Quantity != nil && !trade.Quantity.IsZero() {
		derived := decimal.NewFromInt(trade.Amount).Div(*trade.Quantity)
		trade.UnitPrice = &derived
	}

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AccountID:   trade.AccountID,
		EntryDate:   trade.OccurredAt,
		Amount:      cashEffect(trade),
		Description: entryDescription(trade, req.Description),
		Reference:   corrkey.ForTrade(trade.TradeID),
		Cleared:     true,
		AuditFields: trade.AuditFields,
	}

	if err := s.tradeRepo.SaveTradeWithEntry(ctx, trade, entry); err != nil {
		logger.Error("Failed to save trade", slog.String("account_id", trade.AccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save trade: %w", err)
	}

	logger.Info("Trade recorded",
		slog.String("trade_id", trade.TradeID),
		slog.String("account_id", trade.AccountID),
		slog.String("trade_type", string(trade.TradeType)))
	return &trade, nil
}

// DeleteTrade implements portssvc.TradeSvcFacade.
func (s *tradeService) DeleteTrade(ctx context.Context, tradeID string, userID string) error {
	if err := s.tradeRepo.DeleteTrade(ctx, tradeID); err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", tradeID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Trade deleted",
		slog.String("trade_id", tradeID), slog.String("user_id", userID))
	return nil
}

// ListTrades implements portssvc.TradeSvcFacade.
func (s *tradeService) ListTrades(ctx context.Context, accountID string, until time.Time) ([]domain.Trade, error) {
	trades, err := s.tradeRepo.ListTradesByAccount(ctx, accountID, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades for account %s: %w", accountID, err)
	}
	return trades, nil
}

// cashEffect is the signed ledger movement a trade causes. BUY and SELL
// amounts arrive positive; every other type already carries its sign, so it
// passes through unchanged.
func cashEffect(t domain.Trade) int64 {
	switch t.TradeType {
	case domain.TradeBuy:
		return -(t.Amount + t.FeesOrZero())
	case domain.TradeSell:
		return t.Amount - t.FeesOrZero()
	default:
		return t.Amount
	}
}

func entryDescription(t domain.Trade, requested string) string {
	if requested != "" {
		return requested
	}
	if t.Symbol != nil && t.Quantity != nil {
		return fmt.Sprintf("%s %s %s", t.TradeType, t.Quantity.String(), *t.Symbol)
	}
	return string(t.TradeType)
}
