package services

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
	"github.com/DripDropMarket/drip-drop/internal/utils"
)

type capturingTaskClient struct {
	tasks []*asynq.Task
}

func (c *capturingTaskClient) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func loadListing(t *testing.T, database *mongo.Database, id string) models.Listing {
	t.Helper()
	var listing models.Listing
	err := database.Collection(db.CollListings).FindOne(context.Background(), bson.M{"_id": id}).Decode(&listing)
	require.NoError(t, err)
	return listing
}

func TestCounterService_TrackView(t *testing.T) {
	database := utils.SetupTestDB(t, "test_counter_views", db.CollListings, db.CollSavedListings)
	cfg := &config.Config{}
	svc := NewCounterService(database, nil, cfg, nil)
	ctx := context.Background()

	seedUser(t, database, "owner", "Olive")
	seedListing(t, database, "poster", "owner", "Concert Poster")

	t.Run("increments and returns the running total", func(t *testing.T) {
		count, err := svc.TrackView(ctx, "poster")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = svc.TrackView(ctx, "poster")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("unknown listing is not found", func(t *testing.T) {
		_, err := svc.TrackView(ctx, "missing")
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestCounterService_ToggleSave(t *testing.T) {
	database := utils.SetupTestDB(t, "test_counter_saves", db.CollListings, db.CollSavedListings)
	cfg := &config.Config{}
	svc := NewCounterService(database, nil, cfg, nil)
	ctx := context.Background()

	seedUser(t, database, "owner", "Olive")
	seedUser(t, database, "fan", "Fay")
	seedListing(t, database, "jacket", "owner", "Denim Jacket")

	t.Run("save then unsave returns to the starting state", func(t *testing.T) {
		saved, err := svc.ToggleSave(ctx, "fan", "jacket")
		require.NoError(t, err)
		assert.True(t, saved)
		assert.Equal(t, int64(1), loadListing(t, database, "jacket").SaveCount)

		saved, err = svc.ToggleSave(ctx, "fan", "jacket")
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, int64(0), loadListing(t, database, "jacket").SaveCount)

		count, err := database.Collection(db.CollSavedListings).CountDocuments(ctx, bson.M{"user_id": "fan"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("saves from different users accumulate", func(t *testing.T) {
		seedUser(t, database, "fan2", "Finn")
		_, err := svc.ToggleSave(ctx, "fan", "jacket")
		require.NoError(t, err)
		_, err = svc.ToggleSave(ctx, "fan2", "jacket")
		require.NoError(t, err)
		assert.Equal(t, int64(2), loadListing(t, database, "jacket").SaveCount)
	})

	t.Run("counter never goes negative and drift queues a recount", func(t *testing.T) {
		taskClient := &capturingTaskClient{}
		driftSvc := NewCounterService(database, nil, cfg, taskClient)

		seedListing(t, database, "drifted", "owner", "Drifted Listing")
		saved, err := driftSvc.ToggleSave(ctx, "fan", "drifted")
		require.NoError(t, err)
		assert.True(t, saved)

		// Force the counter below the ledger's truth.
		_, err = database.Collection(db.CollListings).UpdateByID(ctx, "drifted", bson.M{"$set": bson.M{"save_count": 0}})
		require.NoError(t, err)

		saved, err = driftSvc.ToggleSave(ctx, "fan", "drifted")
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, int64(0), loadListing(t, database, "drifted").SaveCount)
		require.Len(t, taskClient.tasks, 1)
		assert.Equal(t, "counters:reconcile", taskClient.tasks[0].Type())
	})
}

func TestCounterService_StatsAndListSaved(t *testing.T) {
	database := utils.SetupTestDB(t, "test_counter_stats", db.CollListings, db.CollSavedListings)
	cfg := &config.Config{}
	svc := NewCounterService(database, nil, cfg, nil)
	ctx := context.Background()

	seedUser(t, database, "owner", "Olive")
	seedUser(t, database, "fan", "Fay")
	seedListing(t, database, "mug", "owner", "Campus Mug")

	_, err := svc.TrackView(ctx, "mug")
	require.NoError(t, err)
	_, err = svc.ToggleSave(ctx, "fan", "mug")
	require.NoError(t, err)

	t.Run("stats reflect both counters", func(t *testing.T) {
		stats, err := svc.Stats(ctx, "mug")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.ViewCount)
		assert.Equal(t, int64(1), stats.SaveCount)
	})

	t.Run("stats for unknown listing is not found", func(t *testing.T) {
		_, err := svc.Stats(ctx, "missing")
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})

	t.Run("lists the user's saved records", func(t *testing.T) {
		views, err := svc.ListSaved(ctx, "fan")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "mug", views[0].ListingID)
		assert.NotZero(t, views[0].SavedAt.Seconds)
	})

	t.Run("empty list for a user with no saves", func(t *testing.T) {
		views, err := svc.ListSaved(ctx, "owner")
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}
