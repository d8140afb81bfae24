package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/core/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

type BatchServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockTradeRepo     *MockTradeRepository
	mockValuationRepo *MockValuationRepository
	mockValuationSvc  *MockValuationService
	mockPrices        *MockPriceSource
	service           portssvc.BatchSvcFacade
}

func (suite *BatchServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTradeRepo = new(MockTradeRepository)
	suite.mockValuationRepo = new(MockValuationRepository)
	suite.mockValuationSvc = new(MockValuationService)
	suite.mockPrices = new(MockPriceSource)
	suite.service = services.NewBatchService(
		suite.mockAccountRepo,
		suite.mockTradeRepo,
		suite.mockValuationRepo,
		suite.mockValuationSvc,
		suite.mockPrices,
	)
}

func investmentAccount(name string) domain.Account {
	return domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       uuid.NewString(),
		Name:         name,
		AccountType:  domain.Investment,
		CurrencyCode: "USD",
		Status:       domain.AccountActive,
	}
}

func (suite *BatchServiceTestSuite) TestRefreshValuations_AllAccountsSucceed() {
	ctx := context.Background()
	a := investmentAccount("Brokerage A")
	b := investmentAccount("Brokerage B")

	suite.mockAccountRepo.On("ListInvestmentAccounts", ctx, (*string)(nil)).
		Return([]domain.Account{a, b}, nil).Once()

	for i, account := range []domain.Account{a, b} {
		prior := &domain.ValuationSnapshot{
			SnapshotID: uuid.NewString(),
			AccountID:  account.AccountID,
			Value:      int64(1_000_000 * (i + 1)),
		}
		suite.mockValuationRepo.On("FindLatestSnapshotBefore", ctx, account.AccountID, mock.AnythingOfType("time.Time")).
			Return(prior, nil).Once()
		suite.mockValuationSvc.On("Reconcile", ctx, account.AccountID, mock.AnythingOfType("time.Time"), false).
			Return(&dto.ReconcileResult{
				AccountID: account.AccountID,
				NewValue:  prior.Value + 50_000,
				OldValue:  prior.Value,
				Delta:     50_000,
			}, nil).Once()
	}

	summary, err := suite.service.RefreshValuations(ctx, nil, false)

	suite.Require().NoError(err)
	suite.Equal(2, summary.AccountsProcessed)
	suite.Equal(2, summary.AccountsUpdated)
	suite.Require().Len(summary.Results, 2)
	suite.Equal(int64(1_000_000), summary.Results[0].OldValue)
	suite.Equal(int64(1_050_000), summary.Results[0].NewValue)
	suite.Equal(int64(50_000), summary.Results[0].Delta)
	suite.Empty(summary.Results[0].Errors)
	suite.mockValuationSvc.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestRefreshValuations_AccountFailureDoesNotAbort() {
	ctx := context.Background()
	broken := investmentAccount("Broken")
	healthy := investmentAccount("Healthy")

	suite.mockAccountRepo.On("ListInvestmentAccounts", ctx, (*string)(nil)).
		Return([]domain.Account{broken, healthy}, nil).Once()

	suite.mockValuationRepo.On("FindLatestSnapshotBefore", ctx, broken.AccountID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.NewNotFoundError("no snapshot")).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, broken.AccountID, mock.AnythingOfType("time.Time")).
		Return([]domain.Trade{}, nil).Once()
	suite.mockValuationSvc.On("Reconcile", ctx, broken.AccountID, mock.AnythingOfType("time.Time"), false).
		Return(nil, errors.New("trade history is invalid")).Once()

	prior := &domain.ValuationSnapshot{SnapshotID: uuid.NewString(), AccountID: healthy.AccountID, Value: 2_000_000}
	suite.mockValuationRepo.On("FindLatestSnapshotBefore", ctx, healthy.AccountID, mock.AnythingOfType("time.Time")).
		Return(prior, nil).Once()
	suite.mockValuationSvc.On("Reconcile", ctx, healthy.AccountID, mock.AnythingOfType("time.Time"), false).
		Return(&dto.ReconcileResult{AccountID: healthy.AccountID, OldValue: 2_000_000, NewValue: 2_100_000, Delta: 100_000}, nil).Once()

	summary, err := suite.service.RefreshValuations(ctx, nil, false)

	suite.Require().NoError(err)
	suite.Equal(2, summary.AccountsProcessed)
	suite.Equal(1, summary.AccountsUpdated)
	suite.Require().Len(summary.Results, 2)
	suite.Require().Len(summary.Results[0].Errors, 1)
	suite.Contains(summary.Results[0].Errors[0], "invalid")
	suite.Empty(summary.Results[1].Errors)
}

func (suite *BatchServiceTestSuite) TestRefreshValuations_ConfigurationFailureAborts() {
	ctx := context.Background()
	first := investmentAccount("First")
	second := investmentAccount("Second")

	suite.mockAccountRepo.On("ListInvestmentAccounts", ctx, (*string)(nil)).
		Return([]domain.Account{first, second}, nil).Once()
	suite.mockValuationRepo.On("FindLatestSnapshotBefore", ctx, first.AccountID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.NewNotFoundError("no snapshot")).Once()
	suite.mockTradeRepo.On("ListTradesByAccount", ctx, first.AccountID, mock.AnythingOfType("time.Time")).
		Return([]domain.Trade{}, nil).Once()

	configErr := apperrors.NewAppError(401, "price API key rejected", apperrors.ErrConfiguration)
	suite.mockValuationSvc.On("Reconcile", ctx, first.AccountID, mock.AnythingOfType("time.Time"), false).
		Return(nil, configErr).Once()

	summary, err := suite.service.RefreshValuations(ctx, nil, false)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.True(errors.Is(err, apperrors.ErrConfiguration))
	// The second account is never touched.
	suite.mockValuationSvc.AssertNumberOfCalls(suite.T(), "Reconcile", 1)
}

func (suite *BatchServiceTestSuite) TestRefreshValuations_DryRunUpdatesNothing() {
	ctx := context.Background()
	account := investmentAccount("Brokerage")
	userID := account.UserID

	suite.mockAccountRepo.On("ListInvestmentAccounts", ctx, &userID).
		Return([]domain.Account{account}, nil).Once()
	prior := &domain.ValuationSnapshot{SnapshotID: uuid.NewString(), AccountID: account.AccountID, Value: 500_000}
	suite.mockValuationRepo.On("FindLatestSnapshotBefore", ctx, account.AccountID, mock.AnythingOfType("time.Time")).
		Return(prior, nil).Once()
	suite.mockValuationSvc.On("Reconcile", ctx, account.AccountID, mock.AnythingOfType("time.Time"), true).
		Return(&dto.ReconcileResult{AccountID: account.AccountID, OldValue: 500_000, NewValue: 510_000, Delta: 10_000, DryRun: true}, nil).Once()

	summary, err := suite.service.RefreshValuations(ctx, &userID, true)

	suite.Require().NoError(err)
	suite.True(summary.DryRun)
	suite.Equal(1, summary.AccountsProcessed)
	suite.Equal(0, summary.AccountsUpdated)
}

func (suite *BatchServiceTestSuite) TestRefreshValuations_CancelledContextStops() {
	ctx, cancel := context.WithCancel(context.Background())
	account := investmentAccount("Brokerage")

	suite.mockAccountRepo.On("ListInvestmentAccounts", ctx, (*string)(nil)).
		Return([]domain.Account{account}, nil).Once()
	cancel()

	summary, err := suite.service.RefreshValuations(ctx, nil, false)

	suite.Require().Error(err)
	suite.True(errors.Is(err, context.Canceled))
	suite.NotNil(summary)
	suite.Equal(0, summary.AccountsProcessed)
	suite.mockValuationSvc.AssertNotCalled(suite.T(), "Reconcile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
