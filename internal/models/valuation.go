package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSnapshot represents one mark-to-market total row, unique on
// (account_id, as_of).
type ValuationSnapshot struct {
	SnapshotID string    `db:"snapshot_id"`
	AccountID  string    `db:"account_id"`
	AsOf       time.Time `db:"as_of"`
	Value      int64     `db:"value"`
	AuditFields
}

// AssetPosition represents a derived per-symbol holding row, unique on
// (account_id, symbol). Replaced wholesale on every valuation run.
type AssetPosition struct {
	PositionID string          `db:"position_id"`
	AccountID  string          `db:"account_id"`
	Symbol     string          `db:"symbol"`
	AssetType  string          `db:"asset_type"`
	Quantity   decimal.Decimal `db:"quantity"`
	TotalCost  int64           `db:"total_cost"`
	AuditFields
}

// AssetValuationSnapshot represents a per-symbol value row at one valuation
// run, unique on (account_id, symbol, as_of).
type AssetValuationSnapshot struct {
	ID        string          `db:"id"`
	AccountID string          `db:"account_id"`
	Symbol    string          `db:"symbol"`
	AsOf      time.Time       `db:"as_of"`
	Quantity  decimal.Decimal `db:"quantity"`
	Value     int64           `db:"value"`
	AuditFields
}
