package services

import (
	"context"
	"errors"
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
)

var (
	ErrNotInvestmentAccount = errors.New("account is not an investment account")
)

const plugEntryDescription = "Investment valuation adjustment"

// valuationService combines the holdings projection with resolved prices into
// a mark-to-market total and reconciles it into the account ledger through a
// plug entry paired with a valuation snapshot.
type valuationService struct {
	accountRepo   portsrepo.AccountRepositoryFacade
	tradeRepo     portsrepo.TradeRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	valuationRepo portsrepo.ValuationRepositoryFacade
	prices        portssvc.PriceSource
}

// NewValuationService creates a new ValuationService.
func NewValuationService(
	accountRepo portsrepo.AccountRepositoryFacade,
	tradeRepo portsrepo.TradeRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	valuationRepo portsrepo.ValuationRepositoryFacade,
	prices portssvc.PriceSource,
) portssvc.ValuationSvcFacade {
	return &valuationService{
		accountRepo:   accountRepo,
		tradeRepo:     tradeRepo,
		ledgerRepo:    ledgerRepo,
		valuationRepo: valuationRepo,
		prices:        prices,
	}
}

var _ portssvc.ValuationSvcFacade = (*valuationService)(nil)

// Reconcile implements portssvc.ValuationSvcFacade.
//
// Steps 1-3 (value, balance, delta) are shared between dry-run and commit so
// a preview can never disagree with what a commit would write. The ledger
// balance is read *including* any prior plug entry; re-running for the same
// asOf therefore computes a zero delta instead of compounding drift.
func (s *valuationService) Reconcile(ctx context.Context, accountID string, asOf time.Time, dryRun bool) (*dto.ReconcileResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if !account.IsInvestment() {
		return nil, fmt.Errorf("%w: %s", ErrNotInvestmentAccount, accountID)
	}

	trades, err := s.tradeRepo.ListTradesByAccount(ctx, accountID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades for account %s: %w", accountID, err)
	}

	projection, err := holdings.Project(account.OpeningBalance, trades)
	if err != nil {
		return nil, fmt.Errorf("trade history for account %s is invalid: %w", accountID, err)
	}

	priceMap, warnings, err := s.resolvePrices(ctx, projection.Holdings)
	if err != nil {
		// Only configuration failures propagate; no valuation computed under
		// a misconfigured price source can be trusted.
		return nil, err
	}

	totalValue := projection.Cash
	for _, h := range projection.Holdings {
		price, ok := priceMap[h.Symbol]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("no price for %s; contribution degraded to zero", h.Symbol))
			continue
		}
		totalValue += holdings.MarketValue(h.Quantity, price)
	}

	currentBalance, err := s.ledgerRepo.GetBalanceAsOf(ctx, accountID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger balance for account %s: %w", accountID, err)
	}

	delta := holdings.ComputePlug(currentBalance, totalValue)

	result := &dto.ReconcileResult{
		AccountID:     accountID,
		AsOf:          asOf,
		OldValue:      currentBalance,
		NewValue:      totalValue,
		Delta:         delta,
		PercentChange: holdings.PercentChange(currentBalance, totalValue),
		Warnings:      warnings,
		DryRun:        dryRun,
	}

	if dryRun {
		logger.Debug("Valuation dry run computed",
			slog.String("account_id", accountID),
			slog.Int64("total_value", totalValue),
			slog.Int64("delta", delta))
		return result, nil
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt: now, CreatedBy: account.UserID,
		LastUpdatedAt: now, LastUpdatedBy: account.UserID,
	}

	snapshot := domain.ValuationSnapshot{
		SnapshotID:  uuid.NewString(), // replaced by the persisted ID on upsert
		AccountID:   accountID,
		AsOf:        asOf,
		Value:       totalValue,
		AuditFields: audit,
	}
	plug := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AccountID:   accountID,
		EntryDate:   asOf,
		Description: plugEntryDescription,
		Cleared:     true,
		AuditFields: audit,
	}

	positions, assetSnapshots := buildDerivedRows(accountID, asOf, projection, priceMap, audit)

	saved, err := s.valuationRepo.SaveSnapshotWithPlug(ctx, snapshot, delta, plug, positions, assetSnapshots)
	if err != nil {
		logger.Error("Failed to persist valuation snapshot",
			slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist valuation for account %s: %w", accountID, err)
	}
	result.SnapshotID = saved.SnapshotID

	logger.Info("Account valuation reconciled",
		slog.String("account_id", accountID),
		slog.String("snapshot_id", saved.SnapshotID),
		slog.Int64("total_value", totalValue),
		slog.Int64("delta", delta),
		slog.Int("warnings", len(warnings)))
	return result, nil
}

// DeleteSnapshot implements portssvc.ValuationSvcFacade. The repository
// removes the paired plug entry in the same transaction.
func (s *valuationService) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	if err := s.valuationRepo.DeleteSnapshot(ctx, snapshotID); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", snapshotID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Valuation snapshot deleted", slog.String("snapshot_id", snapshotID))
	return nil
}

// ListPositions implements portssvc.ValuationSvcFacade.
func (s *valuationService) ListPositions(ctx context.Context, accountID string) ([]dto.PositionResponse, error) {
	positions, err := s.valuationRepo.ListPositionsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions for account %s: %w", accountID, err)
	}
	out := make([]dto.PositionResponse, len(positions))
	for i, p := range positions {
		out[i] = dto.PositionResponse{
			PositionID:  p.PositionID,
			AccountID:   p.AccountID,
			Symbol:      p.Symbol,
			AssetType:   p.AssetType,
			Quantity:    p.Quantity,
			TotalCost:   p.TotalCost,
			AverageCost: holdings.Holding{Symbol: p.Symbol, Quantity: p.Quantity, TotalCost: p.TotalCost}.AverageCost(),
		}
	}
	return out, nil
}

// resolvePrices fetches current prices grouped by asset type. A failing
// lookup degrades its whole group to missing prices with a warning, except
// configuration failures, which are returned to abort the caller.
func (s *valuationService) resolvePrices(ctx context.Context, positions []holdings.Holding) (map[string]decimal.Decimal, []string, error) {
	symbolsByType := make(map[domain.AssetType][]string)
	for _, h := range positions {
		symbolsByType[h.AssetType] = append(symbolsByType[h.AssetType], h.Symbol)
	}

	priceMap := make(map[string]decimal.Decimal)
	var warnings []string
	for assetType, symbols := range symbolsByType {
		prices, err := s.prices.GetCurrentPrices(ctx, symbols, assetType)
		if err != nil {
			if errors.Is(err, apperrors.ErrConfiguration) {
				return nil, nil, fmt.Errorf("price source unavailable: %w", err)
			}
			warnings = append(warnings, fmt.Sprintf("price lookup failed for %s symbols: %v", assetType, err))
			continue
		}
		for symbol, price := range prices {
			priceMap[symbol] = price
		}
	}
	return priceMap, warnings, nil
}

// buildDerivedRows produces the per-symbol cache rows written alongside a
// snapshot. They are derived data: always reconstructable from trades plus a
// price source.
func buildDerivedRows(
	accountID string,
	asOf time.Time,
	projection holdings.Projection,
	priceMap map[string]decimal.Decimal,
	audit domain.AuditFields,
) ([]domain.AssetPosition, []domain.AssetValuationSnapshot) {
	positions := make([]domain.AssetPosition, 0, len(projection.Holdings))
	assetSnapshots := make([]domain.AssetValuationSnapshot, 0, len(projection.Holdings))
	for _, h := range projection.Holdings {
		positions = append(positions, domain.AssetPosition{
			PositionID:  uuid.NewString(),
			AccountID:   accountID,
			Symbol:      h.Symbol,
			AssetType:   h.AssetType,
			Quantity:    h.Quantity,
			TotalCost:   h.TotalCost,
			AuditFields: audit,
		})
		value := int64(0)
		if price, ok := priceMap[h.Symbol]; ok {
			value = holdings.MarketValue(h.Quantity, price)
		}
		assetSnapshots = append(assetSnapshots, domain.AssetValuationSnapshot{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			Symbol:      h.Symbol,
			AsOf:        asOf,
			Quantity:    h.Quantity,
			Value:       value,
			AuditFields: audit,
		})
	}
	return positions, assetSnapshots
}
