package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/models"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestListingHandler handles REST requests for listings and their counters.
type RestListingHandler struct {
	listingService services.IListingService
	counterService services.ICounterService
}

// NewRestListingHandler creates a new RestListingHandler.
func NewRestListingHandler(listingService services.IListingService, counterService services.ICounterService) *RestListingHandler {
	return &RestListingHandler{
		listingService: listingService,
		counterService: counterService,
	}
}

// listingView is the wire shape for one listing.
type listingView struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Price        float64          `json:"price"`
	Type         string           `json:"type"`
	ClothingType string           `json:"clothingType,omitempty"`
	Condition    string           `json:"condition,omitempty"`
	Size         string           `json:"size,omitempty"`
	Gender       string           `json:"gender,omitempty"`
	UserID       string           `json:"userId"`
	ImageURLs    []string         `json:"imageUrls"`
	IsPrivate    bool             `json:"isPrivate"`
	IsSold       bool             `json:"isSold"`
	ViewCount    int64            `json:"viewCount"`
	SaveCount    int64            `json:"saveCount"`
	CreatedAt    models.Timestamp `json:"createdAt"`
}

func toListingView(l *models.Listing) listingView {
	return listingView{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Type:         string(l.Type),
		ClothingType: l.ClothingType,
		Condition:    l.Condition,
		Size:         l.Size,
		Gender:       l.Gender,
		UserID:       l.UserID,
		ImageURLs:    l.ImageURLs,
		IsPrivate:    l.IsPrivate,
		IsSold:       l.IsSold,
		ViewCount:    l.ViewCount,
		SaveCount:    l.SaveCount,
		CreatedAt:    models.NewTimestamp(l.CreatedAt),
	}
}

func toListingViews(listings []models.Listing) []listingView {
	views := make([]listingView, 0, len(listings))
	for i := range listings {
		views = append(views, toListingView(&listings[i]))
	}
	return views
}

// CreateListing handles POST /listings
func (h *RestListingHandler) CreateListing(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	var input services.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusCreated, toListingView(listing))
}

// BrowseListings handles GET /listings
func (h *RestListingHandler) BrowseListings(c *gin.Context) {
	filter := services.ListingFilter{
		Type:         c.Query("type"),
		ClothingType: c.Query("clothingType"),
		Search:       c.Query("search"),
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	listings, err := h.listingService.Browse(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, toListingViews(listings))
}

// GetListing handles GET /listings/:id. Authentication is optional: a
// signed-in viewer other than the owner counts as a view.
func (h *RestListingHandler) GetListing(c *gin.Context) {
	viewerID := c.GetString(middleware.ContextKeyUserID)
	listingID := c.Param("id")

	listing, err := h.listingService.Get(c.Request.Context(), listingID, viewerID)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, toListingView(listing))
}

// ListUserListings handles GET /users/:id/listings
func (h *RestListingHandler) ListUserListings(c *gin.Context) {
	listings, err := h.listingService.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, toListingViews(listings))
}

// UpdateListing handles PUT /listings/:id
func (h *RestListingHandler) UpdateListing(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	listingID := c.Param("id")

	var input services.UpdateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), listingID, userID, input)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, toListingView(listing))
}

// DeleteListing handles DELETE /listings/:id
func (h *RestListingHandler) DeleteListing(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	listingID := c.Param("id")

	if err := h.listingService.Delete(c.Request.Context(), listingID, userID); err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackView handles POST /listings/:id/view
func (h *RestListingHandler) TrackView(c *gin.Context) {
	listingID := c.Param("id")

	viewCount, err := h.counterService.TrackView(c.Request.Context(), listingID)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "viewCount": viewCount})
}

// GetStats handles GET /listings/:id/view
func (h *RestListingHandler) GetStats(c *gin.Context) {
	listingID := c.Param("id")

	stats, err := h.counterService.Stats(c.Request.Context(), listingID)
	if err != nil {
		respondServiceError(c, err, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, stats)
}
