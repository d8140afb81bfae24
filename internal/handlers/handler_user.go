package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

type UserHandler struct {
	userService portssvc.UserSvcFacade
}

func NewUserHandler(userService portssvc.UserSvcFacade) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser retrieves a single user.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers retrieves all users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
