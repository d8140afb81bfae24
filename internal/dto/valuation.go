package dto

import (
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RefreshRequest triggers a valuation batch run.
type RefreshRequest struct {
	UserID *string `json:"userID"` // optional filter; nil means all users
	DryRun bool    `json:"dryRun"`
}

// ReconcileResult reports one account's reconciliation. The same struct is
// returned by the dry-run preview and the committing path; only DryRun and
// SnapshotID differ.
type ReconcileResult struct {
	AccountID     string          `json:"accountID"`
	AsOf          time.Time       `json:"asOf"`
	SnapshotID    string          `json:"snapshotID,omitempty"` // empty on dry run
	OldValue      int64           `json:"oldValue"`             // ledger balance before the plug
	NewValue      int64           `json:"newValue"`             // mark-to-market total
	Delta         int64           `json:"delta"`
	PercentChange decimal.Decimal `json:"percentChange"`
	Warnings      []string        `json:"warnings,omitempty"`
	DryRun        bool            `json:"dryRun"`
}

// AccountRefreshResult is one account's row in a batch summary.
type AccountRefreshResult struct {
	AccountID     string          `json:"accountID"`
	AccountName   string          `json:"accountName"`
	OldValue      int64           `json:"oldValue"`
	NewValue      int64           `json:"newValue"`
	Delta         int64           `json:"delta"`
	PercentChange decimal.Decimal `json:"percentChange"`
	Errors        []string        `json:"errors,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// PositionResponse is the external shape of a derived per-symbol holding.
type PositionResponse struct {
	PositionID  string           `json:"positionID"`
	AccountID   string           `json:"accountID"`
	Symbol      string           `json:"symbol"`
	AssetType   domain.AssetType `json:"assetType"`
	Quantity    decimal.Decimal  `json:"quantity"`
	TotalCost   int64            `json:"totalCost"`   // minor units
	AverageCost decimal.Decimal  `json:"averageCost"` // minor units per unit
}

// RefreshSummary is the overall batch run report. It always says what
// succeeded and what didn't; a partial failure is not an opaque failure.
type RefreshSummary struct {
	AccountsProcessed int                    `json:"accountsProcessed"`
	AccountsUpdated   int                    `json:"accountsUpdated"`
	DryRun            bool                   `json:"dryRun"`
	Results           []AccountRefreshResult `json:"results"`
}
