package repositories

import (
	"context"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// UserRepositoryFacade provides the minimal user access the batch runner and
// account ownership checks need.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
