package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/services"
)

// respondServiceError maps service errors onto HTTP statuses. notFoundMsg
// is the message for a missing document; everything unexpected becomes a
// generic 500 so internals never leak to clients.
func respondServiceError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotSchoolAdmin):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSelfConversation),
		errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
