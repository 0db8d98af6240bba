package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestAffiliateHandler handles REST requests for affiliate link tracking.
type RestAffiliateHandler struct {
	affiliateService services.IAffiliateService
}

// NewRestAffiliateHandler creates a new RestAffiliateHandler.
func NewRestAffiliateHandler(affiliateService services.IAffiliateService) *RestAffiliateHandler {
	return &RestAffiliateHandler{affiliateService: affiliateService}
}

type affiliateClickRequest struct {
	AffiliateID string `json:"affiliateId"`
}

// TrackClick handles POST /affiliates/click. The response does not reveal
// whether the affiliate exists.
func (h *RestAffiliateHandler) TrackClick(c *gin.Context) {
	var req affiliateClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.affiliateService.TrackClick(c.Request.Context(), req.AffiliateID); err != nil {
		respondServiceError(c, err, "Affiliate not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
