package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade

	accountID string
	userID    string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockAccountRepo)

	suite.accountID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	entry := domain.LedgerEntry{
		AccountID:   suite.accountID,
		EntryDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:      -12_500,
		Description: "Groceries",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).
		Return(&domain.Account{AccountID: suite.accountID, AccountType: domain.Checking}, nil).Once()
	suite.mockLedgerRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(created.EntryID)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RejectsReservedReference() {
	ctx := context.Background()
	for _, reference := range []string{
		"investment_valuation_" + uuid.NewString(),
		"investment_trade_" + uuid.NewString(),
		"transfer_1718000000_a1b2",
	} {
		entry := domain.LedgerEntry{
			AccountID:   suite.accountID,
			EntryDate:   time.Now(),
			Amount:      100,
			Description: "manual",
			Reference:   reference,
		}

		_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

		suite.Require().Error(err, reference)
		suite.True(errors.Is(err, apperrors.ErrValidation))
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_KeepsAutomatedReference() {
	ctx := context.Background()
	reference := "investment_valuation_" + uuid.NewString()
	existing := &domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AccountID:   suite.accountID,
		EntryDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:      523_500,
		Description: "Investment valuation adjustment",
		Reference:   reference,
	}

	suite.mockLedgerRepo.On("FindEntryByID", ctx, existing.EntryID).Return(existing, nil).Twice()

	// Editing other fields while keeping the key is allowed.
	edited := *existing
	edited.Description = "June mark to market"
	suite.mockLedgerRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, edited, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(reference, updated.Reference)

	// Replacing the key is not.
	retagged := *existing
	retagged.Reference = ""
	_, err = suite.service.UpdateEntry(ctx, retagged, suite.userID)
	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *LedgerServiceTestSuite) TestBalanceAsOf() {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.mockLedgerRepo.On("GetBalanceAsOf", ctx, suite.accountID, asOf).
		Return(int64(648_500), nil).Once()

	balance, err := suite.service.BalanceAsOf(ctx, suite.accountID, asOf)

	suite.Require().NoError(err)
	suite.Equal(int64(648_500), balance)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
