package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestSavedHandler handles REST requests for the caller's saved listings.
type RestSavedHandler struct {
	counterService services.ICounterService
}

// NewRestSavedHandler creates a new RestSavedHandler.
func NewRestSavedHandler(counterService services.ICounterService) *RestSavedHandler {
	return &RestSavedHandler{counterService: counterService}
}

type toggleSaveRequest struct {
	ListingID string `json:"listingId"`
}

// ToggleSave handles POST /saved
func (h *RestSavedHandler) ToggleSave(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	var req toggleSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ListingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing listingId"})
		return
	}

	saved, err := h.counterService.ToggleSave(c.Request.Context(), userID, req.ListingID)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// ListSaved handles GET /saved
func (h *RestSavedHandler) ListSaved(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	views, err := h.counterService.ListSaved(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, views)
}
