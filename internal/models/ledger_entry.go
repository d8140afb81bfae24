package models

import (
	"database/sql"
	"time"
)

// LedgerEntry represents one signed movement row on an account log.
// Reference is nullable in the database; an empty domain reference maps to
// NULL so the partial unique index on transfer keys stays small.
type LedgerEntry struct {
	EntryID       string         `db:"entry_id"`
	AccountID     string         `db:"account_id"`
	EntryDate     time.Time      `db:"entry_date"`
	Amount        int64          `db:"amount"`
	Description   string         `db:"description"`
	Reference     sql.NullString `db:"reference"`
	CategoryID    sql.NullString `db:"category_id"`
	ImportBatchID sql.NullString `db:"import_batch_id"`
	Cleared       bool           `db:"cleared"`
	AuditFields
}
