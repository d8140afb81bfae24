package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/services"
)

// userIDHeader names the caller on write operations for audit fields.
// Authentication itself is handled upstream of this service.
const userIDHeader = "X-User-ID"

func actingUserID(c *gin.Context) string {
	if userID := c.GetHeader(userIDHeader); userID != "" {
		return userID
	}
	return "system"
}

// respondError maps domain and persistence errors onto HTTP statuses in one
// place so handlers stay thin.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrNotInvestmentAccount),
		errors.Is(err, services.ErrNotOppositeSigns),
		errors.Is(err, services.ErrSameAccount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrAlreadyMatched):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConfiguration):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600:
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
