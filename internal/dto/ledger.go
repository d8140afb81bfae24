package dto

import "time"

// CreateLedgerEntryRequest records a manual ledger entry. The reference field
// is absent on purpose: correlation keys are minted only by automated flows.
type CreateLedgerEntryRequest struct {
	AccountID     string    `json:"accountID" binding:"required"`
	EntryDate     time.Time `json:"entryDate" binding:"required"`
	Amount        int64     `json:"amount"` // signed minor units
	Description   string    `json:"description"`
	CategoryID    *string   `json:"categoryID"`
	ImportBatchID *string   `json:"importBatchID"`
	Cleared       bool      `json:"cleared"`
}

// UpdateLedgerEntryRequest edits the user-editable fields of an entry.
type UpdateLedgerEntryRequest struct {
	EntryDate   time.Time `json:"entryDate" binding:"required"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"categoryID"`
	Cleared     bool      `json:"cleared"`
}

// BalanceResponse reports a derived balance at a point in time.
type BalanceResponse struct {
	AccountID string    `json:"accountID"`
	AsOf      time.Time `json:"asOf"`
	Balance   int64     `json:"balance"` // minor units
}
