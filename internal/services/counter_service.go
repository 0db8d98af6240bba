package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
	"github.com/DripDropMarket/drip-drop/internal/tasks"
)

// SavedListingView is the wire shape for one saved-listing record.
type SavedListingView struct {
	ListingID string           `json:"listingId"`
	SavedAt   models.Timestamp `json:"savedAt"`
}

// ITaskClient is the slice of asynq.Client the counter service needs, kept
// as an interface for test doubles.
type ITaskClient interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ICounterService defines the interface for the save/view counters.
type ICounterService interface {
	TrackView(ctx context.Context, listingID string) (int64, error)
	Stats(ctx context.Context, listingID string) (*models.ListingStats, error)
	ToggleSave(ctx context.Context, userID, listingID string) (bool, error)
	ListSaved(ctx context.Context, userID string) ([]SavedListingView, error)
}

// counterService implements ICounterService. The counters are display
// caches: the savedListings ledger stays authoritative for "is saved", and
// detected drift hands the listing to the reconcile task instead of trying
// to fix it inline.
type counterService struct {
	db         *mongo.Database
	rdb        *redis.Client
	cfg        *config.Config
	taskClient ITaskClient
}

// NewCounterService creates a new CounterService. rdb and taskClient may be
// nil; stats caching and drift reconciliation are then skipped.
func NewCounterService(db *mongo.Database, rdb *redis.Client, cfg *config.Config, taskClient ITaskClient) ICounterService {
	return &counterService{db: db, rdb: rdb, cfg: cfg, taskClient: taskClient}
}

func statsCacheKey(listingID string) string {
	return "listing:stats:" + listingID
}

// TrackView increments the listing's view counter unconditionally and
// returns the new value. This is the dedicated tracking endpoint: unlike
// the side-effect increment on listing fetch it does not exempt the owner
// and accepts anonymous callers.
func (s *counterService) TrackView(ctx context.Context, listingID string) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"view_count": 1}}

	var listing models.Listing
	err := s.db.Collection(db.CollListings).FindOneAndUpdate(ctx, bson.M{"_id": listingID}, update, opts).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, mongo.ErrNoDocuments
		}
		return 0, fmt.Errorf("failed to increment view count for listing %s: %w", listingID, err)
	}

	s.invalidateStats(ctx, listingID)
	return listing.ViewCount, nil
}

// Stats returns the listing's counters through a short-TTL redis
// read-through cache. Cache failures degrade to a direct store read.
func (s *counterService) Stats(ctx context.Context, listingID string) (*models.ListingStats, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, statsCacheKey(listingID)).Result(); err == nil {
			var stats models.ListingStats
			if jsonErr := json.Unmarshal([]byte(raw), &stats); jsonErr == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			log.Printf("WARN: stats cache read failed for listing %s: %v", listingID, err)
		}
	}

	var listing models.Listing
	err := s.db.Collection(db.CollListings).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to load stats for listing %s: %w", listingID, err)
	}

	stats := &models.ListingStats{ViewCount: listing.ViewCount, SaveCount: listing.SaveCount}

	if s.rdb != nil {
		if raw, jsonErr := json.Marshal(stats); jsonErr == nil {
			if err := s.rdb.Set(ctx, statsCacheKey(listingID), raw, s.cfg.StatsCacheTTL).Err(); err != nil {
				log.Printf("WARN: stats cache write failed for listing %s: %v", listingID, err)
			}
		}
	}

	return stats, nil
}

// ToggleSave flips the saved state of (user, listing) and adjusts the
// listing's save counter. The save record is keyed deterministically, so
// toggling needs no lookup query: a delete that removed something means the
// pair was saved.
//
// No transaction spans the record write and the counter update; concurrent
// toggles from the same user can drift the counter, which is tolerated
// because the record's existence stays authoritative and the reconcile task
// recounts from it.
func (s *counterService) ToggleSave(ctx context.Context, userID, listingID string) (bool, error) {
	savedColl := s.db.Collection(db.CollSavedListings)
	listings := s.db.Collection(db.CollListings)
	recordID := models.SavedListingID(userID, listingID)

	res, err := savedColl.DeleteOne(ctx, bson.M{"_id": recordID})
	if err != nil {
		return false, fmt.Errorf("failed to toggle save record %s: %w", recordID, err)
	}

	if res.DeletedCount > 0 {
		// Toggled off. The decrement is clamped: it only matches while the
		// counter is positive, keeping it non-negative no matter the order
		// of concurrent toggles.
		filter := bson.M{"_id": listingID, "save_count": bson.M{"$gt": 0}}
		upd, err := listings.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"save_count": -1}})
		if err != nil {
			return false, fmt.Errorf("failed to decrement save count for listing %s: %w", listingID, err)
		}
		if upd.MatchedCount == 0 {
			// Counter already at the floor: the cache has drifted from the
			// ledger. Queue a recount.
			s.enqueueReconcile(listingID)
		}
		s.invalidateStats(ctx, listingID)
		return false, nil
	}

	record := models.SavedListing{
		ID:        recordID,
		UserID:    userID,
		ListingID: listingID,
		SavedAt:   time.Now().UTC(),
	}
	if _, err := savedColl.InsertOne(ctx, record); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			// A concurrent toggle already created the record; existence wins
			// and the counter is not incremented twice.
			return true, nil
		}
		return false, fmt.Errorf("failed to create save record %s: %w", recordID, err)
	}
	if _, err := listings.UpdateByID(ctx, listingID, bson.M{"$inc": bson.M{"save_count": 1}}); err != nil {
		return true, fmt.Errorf("save record %s created but failed to increment counter: %w", recordID, err)
	}

	s.invalidateStats(ctx, listingID)
	return true, nil
}

// ListSaved returns the user's saved-listing records.
func (s *counterService) ListSaved(ctx context.Context, userID string) ([]SavedListingView, error) {
	cursor, err := s.db.Collection(db.CollSavedListings).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query saved listings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var records []models.SavedListing
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode saved listings for user %s: %w", userID, err)
	}

	views := make([]SavedListingView, 0, len(records))
	for _, r := range records {
		views = append(views, SavedListingView{
			ListingID: r.ListingID,
			SavedAt:   models.NewTimestamp(r.SavedAt),
		})
	}
	return views, nil
}

func (s *counterService) invalidateStats(ctx context.Context, listingID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, statsCacheKey(listingID)).Err(); err != nil {
		log.Printf("WARN: failed to invalidate stats cache for listing %s: %v", listingID, err)
	}
}

func (s *counterService) enqueueReconcile(listingID string) {
	if s.taskClient == nil {
		return
	}
	task, err := tasks.NewCounterReconcileTask(listingID)
	if err != nil {
		log.Printf("WARN: failed to build reconcile task for listing %s: %v", listingID, err)
		return
	}
	// TaskID keyed by listing dedups queued recounts for the same listing.
	if _, err := s.taskClient.Enqueue(task, asynq.TaskID("counters:reconcile:"+listingID)); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		log.Printf("WARN: failed to enqueue reconcile task for listing %s: %v", listingID, err)
	}
}
