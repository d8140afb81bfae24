package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, account domain.Account, creatorUserID string) (*domain.Account, error) {
	now := time.Now().UTC()
	account.AccountID = uuid.NewString()
	if account.Status == "" {
		account.Status = domain.AccountActive
	}
	account.AuditFields = domain.AuditFields{
		CreatedAt: now, CreatedBy: creatorUserID,
		LastUpdatedAt: now, LastUpdatedBy: creatorUserID,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Account created",
		slog.String("account_id", account.AccountID), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	return accounts, nil
}
