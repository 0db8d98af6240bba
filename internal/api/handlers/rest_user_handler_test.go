package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/api/handlers"
	"github.com/DripDropMarket/drip-drop/internal/models"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

func setupUserRouter(svc services.IUserService, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewRestUserHandler(svc)
	r.POST("/users/me", withUser(uid), h.SyncProfile)
	r.GET("/users/:id", h.GetUserByID)
	return r
}

func TestSyncProfile(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("EnsureUser", mock.Anything, "uid-1", services.ProfileInput{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "dana@example.edu",
	}).Return(&models.User{ID: "uid-1", FirstName: "Dana", LastName: "Reyes"}, nil)
	router := setupUserRouter(mockSvc, "uid-1")

	body, _ := json.Marshal(gin.H{"firstName": "Dana", "lastName": "Reyes", "email": "dana@example.edu"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/users/me", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dana")
	mockSvc.AssertExpectations(t)
}

func TestGetUserByID(t *testing.T) {
	t.Run("returns the public profile", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("FindByID", mock.Anything, "uid-1").Return(&models.User{
			ID:        "uid-1",
			FirstName: "Dana",
			LastName:  "Reyes",
			Email:     "dana@example.edu",
		}, nil)
		router := setupUserRouter(mockSvc, "")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/users/uid-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.UserProfile
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "uid-1", resp.UID)
		assert.Equal(t, "Dana", resp.FirstName)
		// The public profile never includes the email address.
		assert.NotContains(t, w.Body.String(), "dana@example.edu")
	})

	t.Run("unknown user gets 404", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("FindByID", mock.Anything, "ghost").Return(nil, mongo.ErrNoDocuments)
		router := setupUserRouter(mockSvc, "")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/users/ghost", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
