package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/utils"
)

func TestUserService_EnsureUser(t *testing.T) {
	database := utils.SetupTestDB(t, "test_user_service", db.CollUsers)
	cfg := &config.Config{}
	svc := NewUserService(database, cfg)
	ctx := context.Background()

	t.Run("creates the record on first contact", func(t *testing.T) {
		user, err := svc.EnsureUser(ctx, "uid-1", ProfileInput{
			FirstName: "Dana",
			LastName:  "Reyes",
			Email:     "dana@example.edu",
		})
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.ID)
		assert.Equal(t, "Dana", user.FirstName)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("refreshes the profile without resetting created_at", func(t *testing.T) {
		first, err := svc.FindByID(ctx, "uid-1")
		require.NoError(t, err)

		updated, err := svc.EnsureUser(ctx, "uid-1", ProfileInput{
			FirstName:      "Dana",
			LastName:       "Reyes-Smith",
			ProfilePicture: "https://cdn.example.edu/p.jpg",
			Email:          "dana@example.edu",
		})
		require.NoError(t, err)
		assert.Equal(t, "Reyes-Smith", updated.LastName)
		assert.Equal(t, first.CreatedAt.Unix(), updated.CreatedAt.Unix())

		count, err := database.Collection(db.CollUsers).CountDocuments(ctx, bson.M{"_id": "uid-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects blank uid", func(t *testing.T) {
		_, err := svc.EnsureUser(ctx, "  ", ProfileInput{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		_, err := svc.FindByID(ctx, "uid-ghost")
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}
