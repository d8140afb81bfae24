package services

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// LedgerSvcFacade exposes the append-only account log.
type LedgerSvcFacade interface {
	CreateEntry(ctx context.Context, entry domain.LedgerEntry, creatorUserID string) (*domain.LedgerEntry, error)

	// UpdateEntry replaces user-editable fields of an entry. A correlation
	// key set by an automated process is never changed by an edit.
	UpdateEntry(ctx context.Context, entry domain.LedgerEntry, userID string) (*domain.LedgerEntry, error)

	// DeleteEntry removes an entry, cascading to a paired valuation snapshot
	// when the entry is a reconciliation plug.
	DeleteEntry(ctx context.Context, entryID string, userID string) error

	ListEntries(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error)

	// BalanceAsOf returns opening balance plus signed entries through asOf.
	BalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (int64, error)
}
