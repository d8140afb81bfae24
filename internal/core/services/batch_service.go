package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/fintrackhq/fintrack_backend/internal/core/holdings"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
	"github.com/fintrackhq/fintrack_backend/internal/middleware"
)

// batchService iterates investment accounts sequentially and reconciles each
// one. Accounts are independent: one account's failure is recorded and the
// run continues, and an interruption between accounts leaves nothing half
// done because each reconciliation is atomic on its own.
type batchService struct {
	accountRepo   portsrepo.AccountRepositoryFacade
	tradeRepo     portsrepo.TradeRepositoryFacade
	valuationRepo portsrepo.ValuationRepositoryFacade
	valuationSvc  portssvc.ValuationSvcFacade
	prices        portssvc.PriceSource
	now           func() time.Time
}

// NewBatchService creates a new BatchService.
func NewBatchService(
	accountRepo portsrepo.AccountRepositoryFacade,
	tradeRepo portsrepo.TradeRepositoryFacade,
	valuationRepo portsrepo.ValuationRepositoryFacade,
	valuationSvc portssvc.ValuationSvcFacade,
	prices portssvc.PriceSource,
) portssvc.BatchSvcFacade {
	return &batchService{
		accountRepo:   accountRepo,
		tradeRepo:     tradeRepo,
		valuationRepo: valuationRepo,
		valuationSvc:  valuationSvc,
		prices:        prices,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.BatchSvcFacade = (*batchService)(nil)

// RefreshValuations implements portssvc.BatchSvcFacade.
func (s *batchService) RefreshValuations(ctx context.Context, userID *string, dryRun bool) (*dto.RefreshSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListInvestmentAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment accounts: %w", err)
	}

	asOf := s.now()
	summary := &dto.RefreshSummary{DryRun: dryRun}

	for _, account := range accounts {
		// Interruption between accounts is harmless: everything before this
		// point is committed account by account.
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.AccountsProcessed++
		result := dto.AccountRefreshResult{
			AccountID:   account.AccountID,
			AccountName: account.Name,
		}

		oldValue, haveOld := s.priorValue(ctx, account, asOf)

		rec, err := s.valuationSvc.Reconcile(ctx, account.AccountID, asOf, dryRun)
		if err != nil {
			if errors.Is(err, apperrors.ErrConfiguration) {
				// No account's valuation can be trusted under a misconfigured
				// price source; abort the run rather than persist garbage.
				logger.Error("Aborting valuation batch", slog.String("error", err.Error()))
				return nil, err
			}
			logger.Warn("Account valuation failed",
				slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
			result.Errors = append(result.Errors, err.Error())
			summary.Results = append(summary.Results, result)
			continue
		}

		if !haveOld {
			oldValue = rec.OldValue
		}
		result.OldValue = oldValue
		result.NewValue = rec.NewValue
		result.Delta = rec.NewValue - oldValue
		result.PercentChange = holdings.PercentChange(oldValue, rec.NewValue)
		result.Warnings = rec.Warnings
		summary.Results = append(summary.Results, result)
		if !dryRun {
			summary.AccountsUpdated++
		}
	}

	logger.Info("Valuation batch finished",
		slog.Int("processed", summary.AccountsProcessed),
		slog.Int("updated", summary.AccountsUpdated),
		slog.Bool("dry_run", dryRun))
	return summary, nil
}

// priorValue finds the value to report percent change against: the latest
// snapshot before this run, or a historical mark-to-market estimate when the
// account has never been valued. A failed estimate is not an error; the
// caller falls back to the pre-plug ledger balance.
func (s *batchService) priorValue(ctx context.Context, account domain.Account, asOf time.Time) (int64, bool) {
	snap, err := s.valuationRepo.FindLatestSnapshotBefore(ctx, account.AccountID, asOf)
	if err == nil {
		return snap.Value, true
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, false
	}

	trades, err := s.tradeRepo.ListTradesByAccount(ctx, account.AccountID, asOf.AddDate(0, 0, -1))
	if err != nil {
		return 0, false
	}
	projection, err := holdings.Project(account.OpeningBalance, trades)
	if err != nil {
		return 0, false
	}

	value := projection.Cash
	for _, h := range projection.Holdings {
		price, err := s.prices.GetHistoricalPrice(ctx, h.Symbol, h.AssetType, 1)
		if err != nil {
			return 0, false
		}
		value += holdings.MarketValue(h.Quantity, price)
	}
	return value, true
}
