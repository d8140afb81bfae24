package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack_backend/internal/models"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID: m.UserID,
		Name:   m.Name,
		Email:  m.Email,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID, user.Name, user.Email,
		user.CreatedAt, user.CreatedBy, user.LastUpdatedAt, user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: user %s already exists", apperrors.ErrDuplicate, user.UserID)
		}
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, name, email, created_at, created_by, last_updated_at, last_updated_by
		FROM users WHERE user_id = $1;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.Name, &m.Email,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	user := toDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT user_id, name, email, created_at, created_by, last_updated_at, last_updated_by
		FROM users ORDER BY user_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.UserID, &m.Name, &m.Email,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, toDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return out, nil
}
