package domain

import "time"

// LedgerEntry is a single signed movement on an account's append-only log.
//
// Reference is the correlation key linking an entry to the record that
// produced it (a valuation snapshot, a recorded trade, or a transfer pair).
// Once set by an automated process it must never change; edits to other
// fields are allowed, the key is not.
type LedgerEntry struct {
	EntryID       string    `json:"entryID"`   // Primary Key (UUID)
	AccountID     string    `json:"accountID"` // FK -> accounts.account_id (Not Null)
	EntryDate     time.Time `json:"entryDate"`
	Amount        int64     `json:"amount"` // signed minor units
	Description   string    `json:"description"`
	Reference     string    `json:"reference"`     // correlation key, empty when none
	CategoryID    *string   `json:"categoryID"`    // Nullable; cleared for transfers
	ImportBatchID *string   `json:"importBatchID"` // Nullable CSV import tag
	Cleared       bool      `json:"cleared"`
	AuditFields
}
