package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestUserHandler handles REST requests related to users.
type RestUserHandler struct {
	userService services.IUserService
}

// NewRestUserHandler creates a new RestUserHandler.
func NewRestUserHandler(userService services.IUserService) *RestUserHandler {
	return &RestUserHandler{userService: userService}
}

// SyncProfile handles POST /users/me. The signed-in caller pushes their
// profile fields; the record is created on first contact.
func (h *RestUserHandler) SyncProfile(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.userService.EnsureUser(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserByID handles GET /users/:id
func (h *RestUserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}
