package tasks

import (
	"context"
	"encoding/json"
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
)

const (
	// TypeCounterReconcile recounts a listing's save counter from the
	// savedListings records and refreshes conversation summaries. An empty
	// listing ID in the payload means a full sweep.
	TypeCounterReconcile = "counters:reconcile"
)

// CounterReconcilePayload is the payload for TypeCounterReconcile.
type CounterReconcilePayload struct {
	ListingID string `json:"listing_id"`
}

// NewCounterReconcileTask builds a reconcile task for one listing, or for
// all listings when listingID is empty.
func NewCounterReconcileTask(listingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CounterReconcilePayload{ListingID: listingID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reconcile payload: %w", err)
	}
	return asynq.NewTask(TypeCounterReconcile, payload, asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)), nil
}

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of background tasks. It talks to the
// store directly so the request-path services stay free to enqueue work
// without a dependency loop.
type TaskProcessor struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewTaskProcessor(cfg *config.Config, database *mongo.Database) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, db: database}
}

// SetupServer configures and returns an Asynq server instance together
// with the mux holding the registered handlers.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCounterReconcile, processor.HandleCounterReconcileTask)

	return srv, mux
}

// HandleCounterReconcileTask rebuilds the denormalized counters and
// conversation summaries from their source records.
func (p *TaskProcessor) HandleCounterReconcileTask(ctx context.Context, t *asynq.Task) error {
	var payload CounterReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal reconcile payload: %w", err)
	}

	listingIDs, err := p.listingIDsToReconcile(ctx, payload.ListingID)
	if err != nil {
		return err
	}

	for _, id := range listingIDs {
		if err := p.reconcileSaveCount(ctx, id); err != nil {
			return err
		}
	}

	if err := p.reconcileConversationSummaries(ctx, payload.ListingID); err != nil {
		return err
	}

	log.Printf("Reconciled counters for %d listing(s)", len(listingIDs))
	return nil
}

func (p *TaskProcessor) listingIDsToReconcile(ctx context.Context, listingID string) ([]string, error) {
	if listingID != "" {
		return []string{listingID}, nil
	}

	cursor, err := p.db.Collection(db.CollListings).Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list listings for reconcile: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listing ids for reconcile: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// reconcileSaveCount recounts the save records for one listing and writes
// the true value over the cached counter.
func (p *TaskProcessor) reconcileSaveCount(ctx context.Context, listingID string) error {
	count, err := p.db.Collection(db.CollSavedListings).CountDocuments(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to count save records for listing %s: %w", listingID, err)
	}

	_, err = p.db.Collection(db.CollListings).UpdateByID(ctx, listingID, bson.M{"$set": bson.M{"save_count": count}})
	if err != nil {
		return fmt.Errorf("failed to write reconciled save count for listing %s: %w", listingID, err)
	}
	return nil
}

// reconcileConversationSummaries refreshes last_message and last_message_at
// from the newest message of each affected conversation.
func (p *TaskProcessor) reconcileConversationSummaries(ctx context.Context, listingID string) error {
	filter := bson.M{}
	if listingID != "" {
		filter["listing_id"] = listingID
	}

	cursor, err := p.db.Collection(db.CollConversations).Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("failed to list conversations for reconcile: %w", err)
	}
	defer cursor.Close(ctx)

	var convs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &convs); err != nil {
		return fmt.Errorf("failed to decode conversation ids for reconcile: %w", err)
	}

	for _, conv := range convs {
		var latest models.Message
		err := p.db.Collection(db.CollMessages).FindOne(
			ctx,
			bson.M{"conversation_id": conv.ID},
			options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		).Decode(&latest)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load latest message for conversation %s: %w", conv.ID, err)
		}

		update := bson.M{"$set": bson.M{
			"last_message":    latest.Content,
			"last_message_at": latest.CreatedAt,
		}}
		if _, err := p.db.Collection(db.CollConversations).UpdateByID(ctx, conv.ID, update); err != nil {
			return fmt.Errorf("failed to refresh summary for conversation %s: %w", conv.ID, err)
		}
	}
	return nil
}
