package repositories

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// ValuationReader defines read operations for valuation snapshots and the
// derived per-symbol caches.
type ValuationReader interface {
	FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.ValuationSnapshot, error)

	// FindSnapshotByAccountAndAsOf retrieves the snapshot for one valuation
	// run, or ErrNotFound.
	FindSnapshotByAccountAndAsOf(ctx context.Context, accountID string, asOf time.Time) (*domain.ValuationSnapshot, error)

	// FindLatestSnapshotBefore retrieves the most recent snapshot strictly
	// before the given time, or ErrNotFound. Used for percent-change reports.
	FindLatestSnapshotBefore(ctx context.Context, accountID string, before time.Time) (*domain.ValuationSnapshot, error)

	ListPositionsByAccount(ctx context.Context, accountID string) ([]domain.AssetPosition, error)
}

// ValuationWriter is the single write path for the snapshot/plug aggregate.
// The pairing invariant is enforced here, never exposed as independent CRUD.
type ValuationWriter interface {
	// SaveSnapshotWithPlug upserts the snapshot keyed by (accountID, asOf)
	// and, in the same transaction, upserts the paired plug ledger entry
	// keyed by the snapshot's correlation key. delta is *added* to an
	// existing plug amount (the balance it was computed against already
	// included the prior plug), or inserted as the initial amount. The
	// derived positions and per-symbol snapshots are replaced alongside.
	// Returns the persisted snapshot, whose ID is stable across re-runs.
	SaveSnapshotWithPlug(
		ctx context.Context,
		snapshot domain.ValuationSnapshot,
		delta int64,
		plug domain.LedgerEntry,
		positions []domain.AssetPosition,
		assetSnapshots []domain.AssetValuationSnapshot,
	) (*domain.ValuationSnapshot, error)

	// DeleteSnapshot removes a snapshot and its paired plug entry atomically.
	DeleteSnapshot(ctx context.Context, snapshotID string) error
}

// ValuationRepositoryFacade combines all valuation repository interfaces.
type ValuationRepositoryFacade interface {
	ValuationReader
	ValuationWriter
}
