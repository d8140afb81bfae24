package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSnapshot is one mark-to-market total for an investment account at
// a point in time. Exactly one ledger entry exists whose reference encodes
// this snapshot's ID; the pair is created, updated and deleted together in a
// single unit of work. An orphan on either side is a data-integrity defect.
type ValuationSnapshot struct {
	SnapshotID string    `json:"snapshotID"` // Primary Key (UUID)
	AccountID  string    `json:"accountID"`  // FK -> accounts.account_id (Not Null)
	AsOf       time.Time `json:"asOf"`       // unique together with AccountID
	Value      int64     `json:"value"`      // minor units
	AuditFields
}

// AssetPosition is the per-symbol holding derived from trade history.
// It is a cache for charts and audit, never authoritative: it is always
// reconstructable by re-projecting the trades.
type AssetPosition struct {
	PositionID string          `json:"positionID"` // Primary Key (UUID)
	AccountID  string          `json:"accountID"`
	Symbol     string          `json:"symbol"`
	AssetType  AssetType       `json:"assetType"`
	Quantity   decimal.Decimal `json:"quantity"`
	TotalCost  int64           `json:"totalCost"` // weighted-average basis, minor units
	AuditFields
}

// AssetValuationSnapshot records a symbol's quantity and market value at a
// valuation run, for per-symbol history. Derived, like AssetPosition.
type AssetValuationSnapshot struct {
	ID        string          `json:"id"` // Primary Key (UUID)
	AccountID string          `json:"accountID"`
	Symbol    string          `json:"symbol"`
	AsOf      time.Time       `json:"asOf"`
	Quantity  decimal.Decimal `json:"quantity"`
	Value     int64           `json:"value"` // minor units
	AuditFields
}
