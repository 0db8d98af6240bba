package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DripDropMarket/drip-drop/internal/auth"
)

const (
	// ContextKeyUserID holds the key for user ID in Gin context.
	ContextKeyUserID = "userID"
)

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// AuthMiddleware creates a Gin middleware that requires a verified identity
// token and stores the caller's uid in the context.
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": fmt.Sprintf("Invalid or expired token: %v", err)})
			return
		}

		c.Set(ContextKeyUserID, identity.UID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller's uid when a valid token is
// present and lets the request continue anonymously otherwise. Routes
// behind it must treat a missing uid as a guest, never as an error.
func OptionalAuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			if identity, verr := verifier.Verify(c.Request.Context(), token); verr == nil {
				c.Set(ContextKeyUserID, identity.UID)
			}
		}
		c.Next()
	}
}
