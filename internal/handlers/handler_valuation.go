package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

type ValuationHandler struct {
	valuationService portssvc.ValuationSvcFacade
	batchService     portssvc.BatchSvcFacade
}

func NewValuationHandler(valuationService portssvc.ValuationSvcFacade, batchService portssvc.BatchSvcFacade) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService, batchService: batchService}
}

// Reconcile runs one account's valuation. With ?dryRun=true it previews the
// delta without writing anything; the preview and the commit share one code
// path so they can never disagree.
func (h *ValuationHandler) Reconcile(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be RFC3339"})
			return
		}
		asOf = parsed
	}
	dryRun := c.Query("dryRun") == "true"

	result, err := h.valuationService.Reconcile(c.Request.Context(), c.Param("accountID"), asOf, dryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh runs the valuation batch across investment accounts.
func (h *ValuationHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.batchService.RefreshValuations(c.Request.Context(), req.UserID, req.DryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DeleteSnapshot removes a snapshot and its paired plug entry.
func (h *ValuationHandler) DeleteSnapshot(c *gin.Context) {
	if err := h.valuationService.DeleteSnapshot(c.Request.Context(), c.Param("snapshotID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPositions returns the derived per-symbol holdings of an account.
func (h *ValuationHandler) ListPositions(c *gin.Context) {
	positions, err := h.valuationService.ListPositions(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if positions == nil {
		positions = []dto.PositionResponse{}
	}
	c.JSON(http.StatusOK, positions)
}
