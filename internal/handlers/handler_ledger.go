package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

type LedgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func NewLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// CreateEntry records a manual ledger entry.
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := domain.LedgerEntry{
		AccountID:     req.AccountID,
		EntryDate:     req.EntryDate,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		ImportBatchID: req.ImportBatchID,
		Cleared:       req.Cleared,
	}
	created, err := h.ledgerService.CreateEntry(c.Request.Context(), entry, actingUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateEntry edits the user-editable fields of an entry.
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	var req dto.UpdateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := domain.LedgerEntry{
		EntryID:     c.Param("entryID"),
		EntryDate:   req.EntryDate,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Cleared:     req.Cleared,
	}
	updated, err := h.ledgerService.UpdateEntry(c.Request.Context(), entry, actingUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteEntry removes an entry, cascading to a paired valuation snapshot when
// the entry is a reconciliation plug.
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	if err := h.ledgerService.DeleteEntry(c.Request.Context(), c.Param("entryID"), actingUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEntries retrieves an account's entries, optionally bounded by from/to.
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), c.Param("accountID"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetBalance reports the derived balance at a point in time. Defaults to now.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	accountID := c.Param("accountID")
	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be RFC3339"})
			return
		}
		asOf = parsed
	}

	balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, AsOf: asOf, Balance: balance})
}

// parseTimeQuery reads an optional RFC3339 query parameter. It writes the
// error response itself; the second return value tells the caller to stop.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC3339"})
		return nil, false
	}
	return &parsed, true
}
