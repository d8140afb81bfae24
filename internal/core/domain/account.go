package domain

// AccountType classifies an account for reporting and transfer detection.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	Investment AccountType = "INVESTMENT"
)

// AccountStatus indicates whether an account is still in use.
type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountClosed AccountStatus = "CLOSED"
)

// Account represents a financial account within the core domain.
// Balance at any date is derived: opening balance plus the signed sum of
// ledger entries up to that date. It is never persisted separately.
type Account struct {
	AccountID      string        `json:"accountID"` // Primary Key (UUID)
	UserID         string        `json:"userID"`    // FK -> users.user_id (Not Null)
	Name           string        `json:"name"`
	AccountType    AccountType   `json:"accountType"`
	CurrencyCode   string        `json:"currencyCode"`   // ISO 4217
	OpeningBalance int64         `json:"openingBalance"` // minor units
	Status         AccountStatus `json:"status"`
	AuditFields
}

// IsInvestment reports whether the account carries a trade history that the
// valuation engine reconciles.
func (a Account) IsInvestment() bool {
	return a.AccountType == Investment
}
