package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

type TransferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func NewTransferHandler(transferService portssvc.TransferSvcFacade) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// FindCandidates returns ranked opposite-account matches for an entry.
func (h *TransferHandler) FindCandidates(c *gin.Context) {
	candidates, err := h.transferService.FindCandidates(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if candidates == nil {
		candidates = []dto.TransferCandidate{}
	}
	c.JSON(http.StatusOK, candidates)
}

// BestMatch returns the single candidate at or above the acceptance
// threshold, or 204 when none qualifies.
func (h *TransferHandler) BestMatch(c *gin.Context) {
	best, err := h.transferService.BestMatch(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if best == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, best)
}

// CommitMatch tags two entries as the legs of one transfer.
func (h *TransferHandler) CommitMatch(c *gin.Context) {
	var req dto.CommitMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.transferService.CommitMatch(c.Request.Context(), req.EntryID, req.CandidateEntryID, actingUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
