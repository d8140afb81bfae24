package dto

import (
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
)

// CreateAccountRequest opens a new account for a user.
type CreateAccountRequest struct {
	UserID         string             `json:"userID" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,len=3"`
	OpeningBalance int64              `json:"openingBalance"` // minor units
}

// AccountResponse is the external shape of an account.
type AccountResponse struct {
	AccountID      string               `json:"accountID"`
	UserID         string               `json:"userID"`
	Name           string               `json:"name"`
	AccountType    domain.AccountType   `json:"accountType"`
	CurrencyCode   string               `json:"currencyCode"`
	OpeningBalance int64                `json:"openingBalance"`
	Status         domain.AccountStatus `json:"status"`
}

// ToAccountResponse maps a domain account to its external shape.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		UserID:         a.UserID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		CurrencyCode:   a.CurrencyCode,
		OpeningBalance: a.OpeningBalance,
		Status:         a.Status,
	}
}
