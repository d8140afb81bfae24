package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/middleware"
	"github.com/fintrackhq/fintrack_backend/internal/utils/corrkey"
)

// ledgerService exposes the append-only account log.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, accountRepo: accountRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateEntry implements portssvc.LedgerSvcFacade. Manual entries never carry
// an automated correlation key; those are minted only by the valuation,
// trade and transfer flows.
func (s *ledgerService) CreateEntry(ctx context.Context, entry domain.LedgerEntry, creatorUserID string) (*domain.LedgerEntry, error) {
	if corrkey.IsAutomated(entry.Reference) {
		return nil, fmt.Errorf("%w: reference %q is reserved for automated processes", apperrors.ErrValidation, entry.Reference)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, entry.AccountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", entry.AccountID, err)
	}

	now := time.Now().UTC()
	entry.EntryID = uuid.NewString()
	entry.AuditFields = domain.AuditFields{
		CreatedAt: now, CreatedBy: creatorUserID,
		LastUpdatedAt: now, LastUpdatedBy: creatorUserID,
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save ledger entry: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Ledger entry created",
		slog.String("entry_id", entry.EntryID), slog.String("account_id", entry.AccountID))
	return &entry, nil
}

// UpdateEntry implements portssvc.LedgerSvcFacade. Edits replace fields but
// must not alter a correlation key set by an automated process.
func (s *ledgerService) UpdateEntry(ctx context.Context, entry domain.LedgerEntry, userID string) (*domain.LedgerEntry, error) {
	existing, err := s.ledgerRepo.FindEntryByID(ctx, entry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entry.EntryID, err)
	}

	if corrkey.IsAutomated(existing.Reference) {
		if entry.Reference != existing.Reference {
			return nil, fmt.Errorf("%w: correlation key of entry %s is immutable", apperrors.ErrValidation, entry.EntryID)
		}
	} else if corrkey.IsAutomated(entry.Reference) {
		return nil, fmt.Errorf("%w: reference %q is reserved for automated processes", apperrors.ErrValidation, entry.Reference)
	}

	entry.AccountID = existing.AccountID
	entry.CreatedAt = existing.CreatedAt
	entry.CreatedBy = existing.CreatedBy
	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = userID

	if err := s.ledgerRepo.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry %s: %w", entry.EntryID, err)
	}
	return &entry, nil
}

// DeleteEntry implements portssvc.LedgerSvcFacade. Deleting a reconciliation
// plug cascades to its snapshot inside the repository transaction.
func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	if err := s.ledgerRepo.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Ledger entry deleted",
		slog.String("entry_id", entryID), slog.String("user_id", userID))
	return nil
}

// ListEntries implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListEntries(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	return entries, nil
}

// BalanceAsOf implements portssvc.LedgerSvcFacade.
func (s *ledgerService) BalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (int64, error) {
	balance, err := s.ledgerRepo.GetBalanceAsOf(ctx, accountID, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}
	return balance, nil
}
