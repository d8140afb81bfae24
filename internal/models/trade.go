package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents one immutable investment transaction row.
type Trade struct {
	TradeID       string              `db:"trade_id"`
	AccountID     string              `db:"account_id"`
	OccurredAt    time.Time           `db:"occurred_at"`
	TradeType     string              `db:"trade_type"`
	AssetType     string              `db:"asset_type"`
	Symbol        sql.NullString      `db:"symbol"`
	Quantity      decimal.NullDecimal `db:"quantity"`
	UnitPrice     decimal.NullDecimal `db:"unit_price"`
	Amount        int64               `db:"amount"`
	Fees          sql.NullInt64       `db:"fees"`
	ImportBatchID sql.NullString      `db:"import_batch_id"`
	AuditFields
}
