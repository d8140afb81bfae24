package repositories

import (
	"context"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByUser retrieves all accounts owned by a user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// ListInvestmentAccounts retrieves active investment accounts, optionally
	// filtered to a single user. This is the batch runner's work list.
	ListInvestmentAccounts(ctx context.Context, userID *string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
