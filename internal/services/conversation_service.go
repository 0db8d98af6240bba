package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
)

// ConversationView is a conversation enriched for the client: the other
// participant's profile and the listing title are denormalized in, with a
// placeholder title when the listing no longer exists.
type ConversationView struct {
	ID            string              `json:"id"`
	Participants  []string            `json:"participants"`
	ListingID     string              `json:"listingId"`
	ListingTitle  string              `json:"listingTitle"`
	OtherUser     *models.UserProfile `json:"otherUser"`
	LastMessage   string              `json:"lastMessage"`
	LastMessageAt models.Timestamp    `json:"lastMessageAt"`
}

// UnknownListingTitle substitutes for the title of a listing that has been
// deleted out from under its conversations.
const UnknownListingTitle = "Unknown Listing"

// IConversationService defines the interface for conversation operations.
type IConversationService interface {
	FindOrCreate(ctx context.Context, senderID, recipientID, listingID, initialMessage string) (string, error)
	Get(ctx context.Context, conversationID, userID string) (*ConversationView, error)
	List(ctx context.Context, userID string) ([]ConversationView, error)
}

// conversationService implements IConversationService.
type conversationService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewConversationService creates a new ConversationService.
func NewConversationService(db *mongo.Database, cfg *config.Config) IConversationService {
	return &conversationService{db: db, cfg: cfg}
}

// FindOrCreate returns the id of the conversation between sender and
// recipient about the given listing, creating it if necessary, and always
// appends the initial message to it.
//
// Dedup is enforced by the unique index on the deterministic conversation
// key: a concurrent creator that loses the insert race gets a duplicate key
// error and reads back the winner, so at most one conversation can exist per
// (pair, listing) triple. The listing itself is not required to exist;
// reads fall back to a placeholder title.
func (s *conversationService) FindOrCreate(ctx context.Context, senderID, recipientID, listingID, initialMessage string) (string, error) {
	if senderID == recipientID {
		return "", ErrSelfConversation
	}
	content := strings.TrimSpace(initialMessage)
	if content == "" {
		return "", fmt.Errorf("%w: initialMessage is required", ErrInvalidInput)
	}
	if recipientID == "" || listingID == "" {
		return "", fmt.Errorf("%w: listingId and recipientId are required", ErrInvalidInput)
	}

	coll := s.db.Collection(db.CollConversations)
	key := models.ConversationKey(senderID, recipientID, listingID)

	var conv models.Conversation
	err := coll.FindOne(ctx, bson.M{"key": key}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now().UTC()
		conv = models.Conversation{
			Base:          models.NewBase(),
			Key:           key,
			Participants:  []string{senderID, recipientID},
			ListingID:     listingID,
			LastMessage:   content,
			LastMessageAt: now,
			CreatedAt:     now,
		}
		if _, insErr := coll.InsertOne(ctx, conv); insErr != nil {
			if !db.IsMongoDuplicateKeyError(insErr) {
				return "", fmt.Errorf("failed to create conversation %s: %w", key, insErr)
			}
			// Lost the creation race; the winner's document is the one.
			if findErr := coll.FindOne(ctx, bson.M{"key": key}).Decode(&conv); findErr != nil {
				return "", fmt.Errorf("failed to load conversation %s after duplicate insert: %w", key, findErr)
			}
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to look up conversation %s: %w", key, err)
	}

	// The initial message is appended whether the conversation was found or
	// created. On the found path the summary is left alone; only Append
	// maintains it.
	msg := models.Message{
		Base:           models.NewBase(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
		Read:           false,
	}
	if _, err := s.db.Collection(db.CollMessages).InsertOne(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to insert initial message for conversation %s: %w", conv.ID, err)
	}

	return conv.ID, nil
}

// Get returns one conversation enriched for the requesting participant.
func (s *conversationService) Get(ctx context.Context, conversationID, userID string) (*ConversationView, error) {
	var conv models.Conversation
	err := s.db.Collection(db.CollConversations).FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to find conversation %s: %w", conversationID, err)
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	view := s.enrich(ctx, &conv, userID)
	return &view, nil
}

// List returns all conversations the user participates in, most recent
// message first.
func (s *conversationService) List(ctx context.Context, userID string) ([]ConversationView, error) {
	cursor, err := s.db.Collection(db.CollConversations).Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations for user %s: %w", userID, err)
	}

	views := make([]ConversationView, 0, len(conversations))
	for i := range conversations {
		views = append(views, s.enrich(ctx, &conversations[i], userID))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].LastMessageAt, views[j].LastMessageAt
		if a.Seconds != b.Seconds {
			return a.Seconds > b.Seconds
		}
		return a.Nanoseconds > b.Nanoseconds
	})

	return views, nil
}

// enrich denormalizes the other participant's profile and the listing title
// into the view. Secondary lookup failures degrade to a nil profile or the
// placeholder title rather than failing the request.
func (s *conversationService) enrich(ctx context.Context, conv *models.Conversation, userID string) ConversationView {
	view := ConversationView{
		ID:            conv.ID,
		Participants:  conv.Participants,
		ListingID:     conv.ListingID,
		ListingTitle:  UnknownListingTitle,
		LastMessage:   conv.LastMessage,
		LastMessageAt: models.NewTimestamp(conv.LastMessageAt),
	}

	if otherID := conv.OtherParticipant(userID); otherID != "" {
		var other models.User
		if err := s.db.Collection(db.CollUsers).FindOne(ctx, bson.M{"_id": otherID}).Decode(&other); err == nil {
			view.OtherUser = other.Profile()
		}
	}

	var listing models.Listing
	if err := s.db.Collection(db.CollListings).FindOne(ctx, bson.M{"_id": conv.ListingID}).Decode(&listing); err == nil {
		view.ListingTitle = listing.Title
	}

	return view
}
