package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// RestMessageHandler handles REST requests for messages within a
// conversation.
type RestMessageHandler struct {
	messageService services.IMessageService
}

// NewRestMessageHandler creates a new RestMessageHandler.
func NewRestMessageHandler(messageService services.IMessageService) *RestMessageHandler {
	return &RestMessageHandler{messageService: messageService}
}

// ListMessages handles GET /messages/:conversationId
func (h *RestMessageHandler) ListMessages(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	conversationID := c.Param("conversationId")

	views, err := h.messageService.List(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondServiceError(c, err, "Conversation not found")
		return
	}

	c.JSON(http.StatusOK, views)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /messages/:conversationId
func (h *RestMessageHandler) SendMessage(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	conversationID := c.Param("conversationId")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	view, err := h.messageService.Append(c.Request.Context(), conversationID, userID, req.Content)
	if err != nil {
		respondServiceError(c, err, "Conversation not found")
		return
	}

	c.JSON(http.StatusCreated, view)
}
