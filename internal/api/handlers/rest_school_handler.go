package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestSchoolHandler handles REST requests for school admin management.
type RestSchoolHandler struct {
	schoolService services.ISchoolService
}

// NewRestSchoolHandler creates a new RestSchoolHandler.
func NewRestSchoolHandler(schoolService services.ISchoolService) *RestSchoolHandler {
	return &RestSchoolHandler{schoolService: schoolService}
}

// GetAdminStatus handles GET /schools/:id/admin
func (h *RestSchoolHandler) GetAdminStatus(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	schoolID := c.Param("id")

	status, err := h.schoolService.AdminStatus(c.Request.Context(), schoolID, userID)
	if err != nil {
		respondServiceError(c, err, "School not found")
		return
	}

	c.JSON(http.StatusOK, status)
}

type manageAdminRequest struct {
	UserID string `json:"userId"`
	Action string `json:"action"`
}

// ManageAdmin handles POST /schools/:id/admin
func (h *RestSchoolHandler) ManageAdmin(c *gin.Context) {
	requesterID := c.GetString(middleware.ContextKeyUserID)
	schoolID := c.Param("id")

	var req manageAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	adminIDs, err := h.schoolService.ManageAdmin(c.Request.Context(), schoolID, requesterID, req.UserID, req.Action)
	if err != nil {
		respondServiceError(c, err, "School not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "adminIds": adminIDs})
}
