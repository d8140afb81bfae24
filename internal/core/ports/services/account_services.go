package services

import (
	"context"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// AccountSvcFacade provides the account operations other services depend on.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, account domain.Account, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}
