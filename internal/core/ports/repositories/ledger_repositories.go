package repositories

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// TransferCandidateFilter narrows the ledger scan for transfer matching.
// All bounds are inclusive.
type TransferCandidateFilter struct {
	ExcludeAccountID string    // the source entry's own account
	CurrencyCode     string    // both sides must share a currency
	DateFrom         time.Time // source date minus the window
	DateTo           time.Time // source date plus the window
	AmountMin        int64     // opposite-signed amount range
	AmountMax        int64
}

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindEntryByReference retrieves the entry carrying a correlation key,
	// or ErrNotFound when no entry carries it.
	FindEntryByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves entries for an account ordered by date
	// then creation time. Nil bounds mean unbounded.
	ListEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error)

	// GetBalanceAsOf computes opening balance plus the signed sum of entries
	// dated at or before asOf. This includes any prior plug entry; the
	// reconciliation engine depends on that.
	GetBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (int64, error)

	// FindTransferCandidates returns untagged entries matching the filter,
	// ordered by date proximity handled by the caller. Entries already
	// carrying a transfer correlation key are excluded by the query.
	FindTransferCandidates(ctx context.Context, filter TransferCandidateFilter) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations for ledger entries.
type LedgerWriter interface {
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// UpdateEntry replaces user-editable fields. The repository refuses to
	// alter a reference set by an automated process.
	UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error

	// DeleteEntry removes an entry. When the entry's reference encodes a
	// valuation snapshot, the snapshot is deleted in the same transaction so
	// no orphan survives.
	DeleteEntry(ctx context.Context, entryID string) error

	// CommitTransferMatch atomically tags both entries with the shared
	// transfer reference, clears their category assignment and marks them
	// cleared. Either both rows change or neither does.
	CommitTransferMatch(ctx context.Context, entryAID, entryBID, reference, updatedByUserID string, updatedAt time.Time) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
