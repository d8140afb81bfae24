package services

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

// ValuationSvcFacade reconciles one investment account's mark-to-market value
// into its ledger.
type ValuationSvcFacade interface {
	// Reconcile computes the account's total value as of the given time and,
	// unless dryRun is set, upserts the (snapshot, plug entry) pair
	// atomically. Re-running for the same asOf converges: the delta is
	// computed against the already-adjusted balance.
	Reconcile(ctx context.Context, accountID string, asOf time.Time, dryRun bool) (*dto.ReconcileResult, error)

	// DeleteSnapshot removes a snapshot and its paired plug entry.
	DeleteSnapshot(ctx context.Context, snapshotID string) error

	// ListPositions returns the derived per-symbol holdings cached by the
	// account's last valuation run.
	ListPositions(ctx context.Context, accountID string) ([]dto.PositionResponse, error)
}

// BatchSvcFacade runs valuation refreshes across users and accounts.
type BatchSvcFacade interface {
	// RefreshValuations iterates investment accounts (optionally one user's)
	// sequentially. Per-account failures are recorded and skipped past;
	// a configuration failure in the price source aborts the whole run.
	RefreshValuations(ctx context.Context, userID *string, dryRun bool) (*dto.RefreshSummary, error)
}
