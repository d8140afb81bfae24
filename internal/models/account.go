package models

// AccountType classifies an account row.
type AccountType string

// AccountStatus marks whether an account row is still in use.
type AccountStatus string

// Account represents a financial account row.
// OpeningBalance is stored in integer minor units; the current balance is
// never a column, it is always derived from ledger entries.
type Account struct {
	AccountID      string        `db:"account_id"`
	UserID         string        `db:"user_id"`
	Name           string        `db:"name"`
	AccountType    AccountType   `db:"account_type"`
	CurrencyCode   string        `db:"currency_code"`
	OpeningBalance int64         `db:"opening_balance"`
	Status         AccountStatus `db:"status"`
	AuditFields
}
