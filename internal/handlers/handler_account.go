package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

type AccountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

func NewAccountHandler(accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) *AccountHandler {
	return &AccountHandler{accountService: accountService, ledgerService: ledgerService}
}

// CreateAccount opens a new account.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := domain.Account{
		UserID:         req.UserID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   req.CurrencyCode,
		OpeningBalance: req.OpeningBalance,
	}
	created, err := h.accountService.CreateAccount(c.Request.Context(), account, actingUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(*created))
}

// GetAccount retrieves a single account.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(*account))
}

// ListAccounts retrieves all accounts owned by a user.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID := c.Query("userID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userID query parameter is required"})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = dto.ToAccountResponse(a)
	}
	c.JSON(http.StatusOK, out)
}
