package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
)

type TradeHandler struct {
	tradeService portssvc.TradeSvcFacade
}

func NewTradeHandler(tradeService portssvc.TradeSvcFacade) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// RecordTrade records an investment transaction and its paired ledger entry.
func (h *TradeHandler) RecordTrade(c *gin.Context) {
	var req dto.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.tradeService.RecordTrade(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trade)
}

// DeleteTrade removes a trade and its paired entry. Corrections re-record.
func (h *TradeHandler) DeleteTrade(c *gin.Context) {
	if err := h.tradeService.DeleteTrade(c.Request.Context(), c.Param("tradeID"), actingUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTrades retrieves an account's trades, oldest first.
func (h *TradeHandler) ListTrades(c *gin.Context) {
	until := time.Now().UTC()
	if raw := c.Query("until"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "until must be RFC3339"})
			return
		}
		until = parsed
	}

	trades, err := h.tradeService.ListTrades(c.Request.Context(), c.Param("accountID"), until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}
