package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListInvestmentAccounts(ctx context.Context, userID *string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockTradeRepository is a mock type for the TradeRepositoryFacade interface
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) FindTradeByID(ctx context.Context, tradeID string) (*domain.Trade, error) {
	args := m.Called(ctx, tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeRepository) ListTradesByAccount(ctx context.Context, accountID string, until time.Time) ([]domain.Trade, error) {
	args := m.Called(ctx, accountID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func (m *MockTradeRepository) SaveTradeWithEntry(ctx context.Context, trade domain.Trade, entry domain.LedgerEntry) error {
	args := m.Called(ctx, trade, entry)
	return args.Error(0)
}

func (m *MockTradeRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	args := m.Called(ctx, tradeID)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (int64, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) FindTransferCandidates(ctx context.Context, filter portsrepo.TransferCandidateFilter) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockLedgerRepository) CommitTransferMatch(ctx context.Context, entryAID, entryBID, reference, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, entryAID, entryBID, reference, updatedByUserID, updatedAt)
	return args.Error(0)
}

// MockValuationRepository is a mock type for the ValuationRepositoryFacade interface
type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.ValuationSnapshot, error) {
	args := m.Called(ctx, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValuationSnapshot), args.Error(1)
}

func (m *MockValuationRepository) FindSnapshotByAccountAndAsOf(ctx context.Context, accountID string, asOf time.Time) (*domain.ValuationSnapshot, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValuationSnapshot), args.Error(1)
}

func (m *MockValuationRepository) FindLatestSnapshotBefore(ctx context.Context, accountID string, before time.Time) (*domain.ValuationSnapshot, error) {
	args := m.Called(ctx, accountID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValuationSnapshot), args.Error(1)
}

func (m *MockValuationRepository) ListPositionsByAccount(ctx context.Context, accountID string) ([]domain.AssetPosition, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetPosition), args.Error(1)
}

func (m *MockValuationRepository) SaveSnapshotWithPlug(
	ctx context.Context,
	snapshot domain.ValuationSnapshot,
	delta int64,
	plug domain.LedgerEntry,
	positions []domain.AssetPosition,
	assetSnapshots []domain.AssetValuationSnapshot,
) (*domain.ValuationSnapshot, error) {
	args := m.Called(ctx, snapshot, delta, plug, positions, assetSnapshots)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValuationSnapshot), args.Error(1)
}

func (m *MockValuationRepository) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	args := m.Called(ctx, snapshotID)
	return args.Error(0)
}

// MockPriceSource is a mock type for the PriceSource interface
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) GetCurrentPrices(ctx context.Context, symbols []string, assetType domain.AssetType) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, symbols, assetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockPriceSource) GetHistoricalPrice(ctx context.Context, symbol string, assetType domain.AssetType, daysAgo int) (decimal.Decimal, error) {
	args := m.Called(ctx, symbol, assetType, daysAgo)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockValuationService is a mock type for the ValuationSvcFacade interface
type MockValuationService struct {
	mock.Mock
}

func (m *MockValuationService) Reconcile(ctx context.Context, accountID string, asOf time.Time, dryRun bool) (*dto.ReconcileResult, error) {
	args := m.Called(ctx, accountID, asOf, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconcileResult), args.Error(1)
}

func (m *MockValuationService) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	args := m.Called(ctx, snapshotID)
	return args.Error(0)
}

func (m *MockValuationService) ListPositions(ctx context.Context, accountID string) ([]dto.PositionResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PositionResponse), args.Error(1)
}
