package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/api/handlers"
	"github.com/DripDropMarket/drip-drop/internal/api/middleware"
	"github.com/DripDropMarket/drip-drop/internal/auth"
	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, client *mongo.Client, db *mongo.Database, rdb *redis.Client, taskClient services.ITaskClient, verifier auth.Verifier) *gin.Engine {
	// Initialize services needed by API handlers
	userService := services.NewUserService(db, cfg)
	listingService := services.NewListingService(db, cfg)
	conversationService := services.NewConversationService(db, cfg)
	messageService := services.NewMessageService(db, cfg)
	counterService := services.NewCounterService(db, rdb, cfg, taskClient)
	schoolService := services.NewSchoolService(db, cfg)
	affiliateService := services.NewAffiliateService(client, db)

	r := gin.Default()

	// Initialize Middleware
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Apply global middleware first (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	restUserHandler := handlers.NewRestUserHandler(userService)
	restListingHandler := handlers.NewRestListingHandler(listingService, counterService)
	restConversationHandler := handlers.NewRestConversationHandler(conversationService)
	restMessageHandler := handlers.NewRestMessageHandler(messageService)
	restSavedHandler := handlers.NewRestSavedHandler(counterService)
	restSchoolHandler := handlers.NewRestSchoolHandler(schoolService)
	restAffiliateHandler := handlers.NewRestAffiliateHandler(affiliateService)

	v1 := r.Group("/v1")
	{
		// Public routes (rate limiting already applied globally)
		v1.GET("/listings", restListingHandler.BrowseListings)
		v1.POST("/listings/:id/view", restListingHandler.TrackView)
		v1.GET("/listings/:id/view", restListingHandler.GetStats)
		v1.GET("/users/:id", restUserHandler.GetUserByID)
		v1.GET("/users/:id/listings", restListingHandler.ListUserListings)
		v1.POST("/affiliates/click", restAffiliateHandler.TrackClick)

		// A guest can read a listing; a signed-in viewer counts as a view.
		v1.GET("/listings/:id", middleware.OptionalAuthMiddleware(verifier), restListingHandler.GetListing)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(verifier))
		{
			authRequired.POST("/users/me", restUserHandler.SyncProfile)

			authRequired.POST("/listings", restListingHandler.CreateListing)
			authRequired.PUT("/listings/:id", restListingHandler.UpdateListing)
			authRequired.DELETE("/listings/:id", restListingHandler.DeleteListing)

			authRequired.GET("/conversations", restConversationHandler.ListConversations)
			authRequired.POST("/conversations", restConversationHandler.StartConversation)
			authRequired.GET("/conversations/:id", restConversationHandler.GetConversation)

			authRequired.GET("/messages/:conversationId", restMessageHandler.ListMessages)
			authRequired.POST("/messages/:conversationId", restMessageHandler.SendMessage)

			authRequired.POST("/saved", restSavedHandler.ToggleSave)
			authRequired.GET("/saved", restSavedHandler.ListSaved)

			authRequired.GET("/schools/:id/admin", restSchoolHandler.GetAdminStatus)
			authRequired.POST("/schools/:id/admin", restSchoolHandler.ManageAdmin)
		}
	}

	return r
}
