package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/api/handlers"
	"github.com/DripDropMarket/drip-drop/internal/models"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

func setupListingRouter(listingSvc services.IListingService, counterSvc services.ICounterService, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewRestListingHandler(listingSvc, counterSvc)
	r.GET("/listings", h.BrowseListings)
	r.POST("/listings", withUser(uid), h.CreateListing)
	r.GET("/listings/:id", withUser(uid), h.GetListing)
	r.PUT("/listings/:id", withUser(uid), h.UpdateListing)
	r.DELETE("/listings/:id", withUser(uid), h.DeleteListing)
	r.POST("/listings/:id/view", h.TrackView)
	r.GET("/listings/:id/view", h.GetStats)
	return r
}

func sampleListing(id, owner string) *models.Listing {
	return &models.Listing{
		Base:        models.Base{ID: id},
		Title:       "Road Bike",
		Description: "Lightly used",
		Price:       120,
		Type:        models.ListingTypeOther,
		UserID:      owner,
		CreatedAt:   time.Unix(1700000000, 0),
		ViewCount:   3,
		SaveCount:   1,
	}
}

func TestCreateListing(t *testing.T) {
	t.Run("creates and returns the listing", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		listingSvc.On("Create", mock.Anything, "seller", mock.AnythingOfType("services.CreateListingInput")).
			Return(sampleListing("l-1", "seller"), nil)
		router := setupListingRouter(listingSvc, counterSvc, "seller")

		body, _ := json.Marshal(gin.H{"title": "Road Bike", "description": "Lightly used", "type": "other", "price": 120})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/listings", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Road Bike")
	})

	t.Run("validation failure returns 400", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		listingSvc.On("Create", mock.Anything, "seller", mock.AnythingOfType("services.CreateListingInput")).
			Return(nil, services.ErrInvalidInput)
		router := setupListingRouter(listingSvc, counterSvc, "seller")

		body, _ := json.Marshal(gin.H{"description": "no title"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/listings", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetListing(t *testing.T) {
	t.Run("returns the listing with wire timestamps", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		listingSvc.On("Get", mock.Anything, "l-1", "viewer").Return(sampleListing("l-1", "seller"), nil)
		router := setupListingRouter(listingSvc, counterSvc, "viewer")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/listings/l-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		createdAt, ok := resp["createdAt"].(map[string]any)
		assert.True(t, ok, "createdAt should be a seconds/nanoseconds pair")
		assert.Equal(t, float64(1700000000), createdAt["seconds"])
	})

	t.Run("unknown listing gets 404", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		listingSvc.On("Get", mock.Anything, "ghost", "viewer").Return(nil, mongo.ErrNoDocuments)
		router := setupListingRouter(listingSvc, counterSvc, "viewer")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/listings/ghost", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBrowseListings(t *testing.T) {
	listingSvc := new(MockListingService)
	counterSvc := new(MockCounterService)
	minPrice := 50.0
	listingSvc.On("Browse", mock.Anything, services.ListingFilter{Type: "tech", MinPrice: &minPrice}).
		Return([]models.Listing{*sampleListing("l-1", "seller")}, nil)
	router := setupListingRouter(listingSvc, counterSvc, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/listings?type=tech&minPrice=50", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	listingSvc.AssertExpectations(t)
}

func TestUpdateAndDeleteListing(t *testing.T) {
	t.Run("non-owner update gets 403", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		listingSvc.On("Update", mock.Anything, "l-1", "stranger", mock.AnythingOfType("services.UpdateListingInput")).
			Return(nil, services.ErrNotOwner)
		router := setupListingRouter(listingSvc, counterSvc, "stranger")

		body, _ := json.Marshal(gin.H{"price": 1})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/listings/l-1", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner delete succeeds", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		listingSvc.On("Delete", mock.Anything, "l-1", "seller").Return(nil)
		router := setupListingRouter(listingSvc, counterSvc, "seller")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/listings/l-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTrackViewEndpoint(t *testing.T) {
	t.Run("returns the running total", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		counterSvc.On("TrackView", mock.Anything, "l-1").Return(int64(8), nil)
		router := setupListingRouter(listingSvc, counterSvc, "")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/listings/l-1/view", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, float64(8), resp["viewCount"])
	})

	t.Run("stats endpoint returns both counters", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		counterSvc.On("Stats", mock.Anything, "l-1").Return(&models.ListingStats{ViewCount: 8, SaveCount: 2}, nil)
		router := setupListingRouter(listingSvc, counterSvc, "")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/listings/l-1/view", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.ListingStats
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(8), resp.ViewCount)
		assert.Equal(t, int64(2), resp.SaveCount)
	})

	t.Run("unknown listing gets 404", func(t *testing.T) {
		listingSvc := new(MockListingService)
		counterSvc := new(MockCounterService)
		counterSvc.On("TrackView", mock.Anything, "ghost").Return(int64(0), mongo.ErrNoDocuments)
		router := setupListingRouter(listingSvc, counterSvc, "")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/listings/ghost/view", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
