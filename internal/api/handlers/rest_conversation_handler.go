package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestConversationHandler handles REST requests for conversations.
type RestConversationHandler struct {
	conversationService services.IConversationService
}

// NewRestConversationHandler creates a new RestConversationHandler.
func NewRestConversationHandler(conversationService services.IConversationService) *RestConversationHandler {
	return &RestConversationHandler{conversationService: conversationService}
}

type startConversationRequest struct {
	ListingID      string `json:"listingId"`
	RecipientID    string `json:"recipientId"`
	InitialMessage string `json:"initialMessage"`
}

// StartConversation handles POST /conversations
func (h *RestConversationHandler) StartConversation(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ListingID == "" || req.RecipientID == "" || strings.TrimSpace(req.InitialMessage) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: listingId, recipientId, initialMessage"})
		return
	}

	conversationID, err := h.conversationService.FindOrCreate(c.Request.Context(), userID, req.RecipientID, req.ListingID, req.InitialMessage)
	if err != nil {
		respondServiceError(c, err, "Conversation not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversationId": conversationID})
}

// ListConversations handles GET /conversations
func (h *RestConversationHandler) ListConversations(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	views, err := h.conversationService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Conversation not found")
		return
	}

	c.JSON(http.StatusOK, views)
}

// GetConversation handles GET /conversations/:id
func (h *RestConversationHandler) GetConversation(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	conversationID := c.Param("id")

	view, err := h.conversationService.Get(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondServiceError(c, err, "Conversation not found")
		return
	}

	c.JSON(http.StatusOK, view)
}
