package dto

import "time"

// LedgerEntryResponse is the external shape of a ledger entry.
type LedgerEntryResponse struct {
	EntryID     string    `json:"entryID"`
	AccountID   string    `json:"accountID"`
	EntryDate   time.Time `json:"entryDate"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	Cleared     bool      `json:"cleared"`
}

// TransferCandidate is one ranked opposite-account match for an entry.
type TransferCandidate struct {
	Entry      LedgerEntryResponse `json:"entry"`
	Confidence int                 `json:"confidence"`
}

// CommitMatchRequest pairs two entries as the two legs of one transfer.
type CommitMatchRequest struct {
	EntryID          string `json:"entryID" binding:"required"`
	CandidateEntryID string `json:"candidateEntryID" binding:"required"`
}
