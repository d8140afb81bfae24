package services

import (
	"context"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// UserSvcFacade lists the users the batch runner iterates.
type UserSvcFacade interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
