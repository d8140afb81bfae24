package services

import (
	"context"

	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

// TransferSvcFacade detects and tags cross-account transfer pairs.
type TransferSvcFacade interface {
	// FindCandidates returns eligible opposite-account entries for the given
	// entry, ranked by confidence (highest first). An entry that already
	// carries a transfer key yields no candidates.
	FindCandidates(ctx context.Context, entryID string) ([]dto.TransferCandidate, error)

	// BestMatch returns the single highest-confidence candidate at or above
	// the acceptance threshold, or nil when none qualifies.
	BestMatch(ctx context.Context, entryID string) (*dto.TransferCandidate, error)

	// CommitMatch tags both entries with one shared transfer key atomically.
	CommitMatch(ctx context.Context, entryID, candidateEntryID, userID string) error
}
