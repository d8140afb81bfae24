package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/fintrackhq/fintrack_backend/internal/core/services"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func int64Ptr(i int64) *int64 { return &i }

type ValuationServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockTradeRepo     *MockTradeRepository
	mockLedgerRepo    *MockLedgerRepository
	mockValuationRepo *MockValuationRepository
	mockPrices        *MockPriceSource
	service           portssvc.ValuationSvcFacade

	accountID string
	userID    string
	asOf      time.Time
}

func (suite *ValuationServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTradeRepo = new(MockTradeRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockValuationRepo = new(MockValuationRepository)
	suite.mockPrices = new(MockPriceSource)
	suite.service = services.NewValuationService(
		suite.mockAccountRepo,
		suite.mockTradeRepo,
		suite.mockLedgerRepo,
		suite.mockValuationRepo,
		suite.mockPrices,
	)

	suite.accountID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.asOf = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *ValuationServiceTestSuite) investmentAccount(openingBalance int64) *domain.Account {
	return &domain.Account{
		AccountID:      suite.accountID,
		UserID:         suite.userID,
		Name:           "Brokerage",
		AccountType:    domain.Investment,
		CurrencyCode:   "USD",
		OpeningBalance: openingBalance,
		Status:         domain.AccountActive,
	}
}

// sampleTrades builds the deposit/buy/sell history whose projection is
// cash 648,500 and holdings NVDA 100 @ cost 4,001,000 / GME 50 @ cost 400,500.
func (suite *ValuationServiceTestSuite) sampleTrades() []domain.Trade {
	day := func(d int) time.Time { return suite.asOf.AddDate(0, 0, d-31) }
	return []domain.Trade{
		{
			TradeID: uuid.NewString(), AccountID: suite.accountID, OccurredAt: day(1),
			TradeType: domain.TradeDeposit, AssetType: domain.AssetCash, Amount: 5_001_000,
		},
		{
			TradeID: uuid.NewString(), AccountID: suite.accountID, OccurredAt: day(2),
			TradeType: domain.TradeBuy, AssetType: domain.AssetEquity,
			Symbol:   strPtr("NVDA"),
			Quantity: decPtr(decimal.NewFromInt(100)),
			Amount:   4_000_000, Fees: int64Ptr(1_000),
		},
		{
			TradeID: uuid.NewString(), AccountID: suite.accountID, OccurredAt: day(3),
			TradeType: domain.TradeBuy, AssetType: domain.AssetEquity,
			Symbol:   strPtr("GME"),
			Quantity: decPtr(decimal.NewFromInt(100)),
			Amount:   800_000, Fees: int64Ptr(1_000),
		},
		{
			TradeID: uuid.NewString(), AccountID: suite.accountID, OccurredAt: day(4),
			TradeType: domain.TradeSell, AssetType: domain.AssetEquity,
			Symbol:   strPtr("GME"),
			Quantity: decPtr(decimal.NewFromInt(50)),
			Amount:   450_000, Fees: int64Ptr(500),
		},
	}
}

func (suite *ValuationServiceTestSuite) equityPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"NVDA": decimal.NewFromInt(45_000), // 450.00 per share
		"GME":  decimal.NewFromInt(8_500),  // 85.00 per share
	}
}

func (suite *ValuationServiceTestSuite) TestReconcile_CommitsSnapshotAndPlug() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(suite.investmentAccount(0), nil).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, suite.accountID, suite.asOf).
		Return(suite.sampleTrades(), nil).Once()
	suite.mockPrices.On("GetCurrentPrices", ctx, mock.AnythingOfType("[]string"), domain.AssetEquity).
		Return(suite.equityPrices(), nil).Once()
	// Ledger balance before any plug: the raw cash movements sum.
	suite.mockLedgerRepo.On("GetBalanceAsOf", ctx, suite.accountID, suite.asOf).
		Return(int64(5_050_000), nil).Once()

	persisted := &domain.ValuationSnapshot{
		SnapshotID: uuid.NewString(),
		AccountID:  suite.accountID,
		AsOf:       suite.asOf,
		Value:      5_573_500,
	}
	suite.mockValuationRepo.On("SaveSnapshotWithPlug", ctx,
		mock.AnythingOfType("domain.ValuationSnapshot"),
		int64(523_500),
		mock.AnythingOfType("domain.LedgerEntry"),
		mock.AnythingOfType("[]domain.AssetPosition"),
		mock.AnythingOfType("[]domain.AssetValuationSnapshot"),
	).Return(persisted, nil).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, false)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	// cash 648,500 + NVDA 100*45,000 + GME 50*8,500 = 5,573,500
	suite.Equal(int64(5_573_500), result.NewValue)
	suite.Equal(int64(5_050_000), result.OldValue)
	suite.Equal(int64(523_500), result.Delta)
	suite.Equal(persisted.SnapshotID, result.SnapshotID)
	suite.False(result.DryRun)
	suite.Empty(result.Warnings)

	suite.mockValuationRepo.AssertExpectations(suite.T())
}

func (suite *ValuationServiceTestSuite) TestReconcile_SecondRunConverges() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(suite.investmentAccount(0), nil).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, suite.accountID, suite.asOf).
		Return(suite.sampleTrades(), nil).Once()
	suite.mockPrices.On("GetCurrentPrices", ctx, mock.AnythingOfType("[]string"), domain.AssetEquity).
		Return(suite.equityPrices(), nil).Once()
	// Balance now includes the first run's plug, so it already equals the
	// mark-to-market total.
	suite.mockLedgerRepo.On("GetBalanceAsOf", ctx, suite.accountID, suite.asOf).
		Return(int64(5_573_500), nil).Once()

	persisted := &domain.ValuationSnapshot{SnapshotID: uuid.NewString(), AccountID: suite.accountID, AsOf: suite.asOf, Value: 5_573_500}
	suite.mockValuationRepo.On("SaveSnapshotWithPlug", ctx,
		mock.AnythingOfType("domain.ValuationSnapshot"),
		int64(0),
		mock.AnythingOfType("domain.LedgerEntry"),
		mock.AnythingOfType("[]domain.AssetPosition"),
		mock.AnythingOfType("[]domain.AssetValuationSnapshot"),
	).Return(persisted, nil).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, false)

	suite.Require().NoError(err)
	suite.Equal(int64(0), result.Delta)
	suite.Equal(result.OldValue, result.NewValue)
	suite.mockValuationRepo.AssertExpectations(suite.T())
}

func (suite *ValuationServiceTestSuite) TestReconcile_DryRunWritesNothing() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(suite.investmentAccount(0), nil).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, suite.accountID, suite.asOf).
		Return(suite.sampleTrades(), nil).Once()
	suite.mockPrices.On("GetCurrentPrices", ctx, mock.AnythingOfType("[]string"), domain.AssetEquity).
		Return(suite.equityPrices(), nil).Once()
	suite.mockLedgerRepo.On("GetBalanceAsOf", ctx, suite.accountID, suite.asOf).
		Return(int64(5_050_000), nil).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, true)

	suite.Require().NoError(err)
	suite.True(result.DryRun)
	suite.Equal(int64(523_500), result.Delta)
	suite.Empty(result.SnapshotID)
	suite.mockValuationRepo.AssertNotCalled(suite.T(), "SaveSnapshotWithPlug",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ValuationServiceTestSuite) TestReconcile_MissingPriceDegradesToZero() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(suite.investmentAccount(0), nil).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, suite.accountID, suite.asOf).
		Return(suite.sampleTrades(), nil).Once()
	// GME is not quoted: omitted from the map, not an error.
	suite.mockPrices.On("GetCurrentPrices", ctx, mock.AnythingOfType("[]string"), domain.AssetEquity).
		Return(map[string]decimal.Decimal{"NVDA": decimal.NewFromInt(45_000)}, nil).Once()
	suite.mockLedgerRepo.On("GetBalanceAsOf", ctx, suite.accountID, suite.asOf).
		Return(int64(5_050_000), nil).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, true)

	suite.Require().NoError(err)
	// cash 648,500 + NVDA 4,500,000; GME contributes zero.
	suite.Equal(int64(5_148_500), result.NewValue)
	suite.Require().Len(result.Warnings, 1)
	suite.Contains(result.Warnings[0], "GME")
}

func (suite *ValuationServiceTestSuite) TestReconcile_ConfigurationFailureAborts() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(suite.investmentAccount(0), nil).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, suite.accountID, suite.asOf).
		Return(suite.sampleTrades(), nil).Once()
	configErr := apperrors.NewAppError(401, "price API key rejected", apperrors.ErrConfiguration)
	suite.mockPrices.On("GetCurrentPrices", ctx, mock.AnythingOfType("[]string"), domain.AssetEquity).
		Return(nil, configErr).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, false)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.True(errors.Is(err, apperrors.ErrConfiguration))
	suite.mockValuationRepo.AssertNotCalled(suite.T(), "SaveSnapshotWithPlug",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ValuationServiceTestSuite) TestReconcile_TransientPriceFailureDegrades() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(suite.investmentAccount(0), nil).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, suite.accountID, suite.asOf).
		Return(suite.sampleTrades(), nil).Once()
	suite.mockPrices.On("GetCurrentPrices", ctx, mock.AnythingOfType("[]string"), domain.AssetEquity).
		Return(nil, errors.New("upstream timeout")).Once()
	suite.mockLedgerRepo.On("GetBalanceAsOf", ctx, suite.accountID, suite.asOf).
		Return(int64(5_050_000), nil).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, true)

	suite.Require().NoError(err)
	// All equity contributions degrade to zero; cash survives.
	suite.Equal(int64(648_500), result.NewValue)
	suite.NotEmpty(result.Warnings)
}

func (suite *ValuationServiceTestSuite) TestReconcile_RejectsNonInvestmentAccount() {
	ctx := context.Background()

	checking := suite.investmentAccount(0)
	checking.AccountType = domain.Checking
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(checking, nil).Once()

	result, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, false)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.True(errors.Is(err, services.ErrNotInvestmentAccount))
}

func (suite *ValuationServiceTestSuite) TestReconcile_AccountNotFound() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	_, err := suite.service.Reconcile(ctx, suite.accountID, suite.asOf, false)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *ValuationServiceTestSuite) TestDeleteSnapshot() {
	ctx := context.Background()
	snapshotID := uuid.NewString()

	suite.mockValuationRepo.On("DeleteSnapshot", ctx, snapshotID).Return(nil).Once()

	err := suite.service.DeleteSnapshot(ctx, snapshotID)

	suite.Require().NoError(err)
	suite.mockValuationRepo.AssertExpectations(suite.T())
}

func TestValuationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValuationServiceTestSuite))
}
