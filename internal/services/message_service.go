package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
)

// MessageView is a message enriched with the sender's first name for
// display. Read carries the value as of fetch time, before any read-state
// transition triggered by the fetch itself.
type MessageView struct {
	ID              string           `json:"id"`
	ConversationID  string           `json:"conversationId"`
	SenderID        string           `json:"senderId"`
	Content         string           `json:"content"`
	CreatedAt       models.Timestamp `json:"createdAt"`
	Read            bool             `json:"read"`
	SenderFirstName string           `json:"senderFirstName"`
}

// IMessageService defines the interface for the message ledger.
type IMessageService interface {
	List(ctx context.Context, conversationID, userID string) ([]MessageView, error)
	Append(ctx context.Context, conversationID, senderID, content string) (*MessageView, error)
}

// messageService implements IMessageService.
type messageService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *mongo.Database, cfg *config.Config) IMessageService {
	return &messageService{db: db, cfg: cfg}
}

// findConversationForParticipant loads a conversation and verifies the user
// is a member. Shared guard for List and Append.
func (s *messageService) findConversationForParticipant(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
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
	return &conv, nil
}

// List returns the conversation's messages oldest-first, each enriched with
// the sender's first name, and then flips every unread message from the
// other participant to read in one batched write.
//
// The returned views reflect the read state as fetched; the flip is only
// visible on the next fetch. Repeating the call causes no further
// transitions, so a failed flip is safe to retry by simply fetching again.
func (s *messageService) List(ctx context.Context, conversationID, userID string) ([]MessageView, error) {
	if _, err := s.findConversationForParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	msgColl := s.db.Collection(db.CollMessages)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := msgColl.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages for conversation %s: %w", conversationID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages for conversation %s: %w", conversationID, err)
	}

	// Memoize sender first names; threads are two-party so this is at most
	// two lookups.
	firstNames := make(map[string]string)
	senderFirstName := func(senderID string) string {
		if name, ok := firstNames[senderID]; ok {
			return name
		}
		name := ""
		var sender models.User
		if err := s.db.Collection(db.CollUsers).FindOne(ctx, bson.M{"_id": senderID}).Decode(&sender); err == nil {
			name = sender.FirstName
		}
		firstNames[senderID] = name
		return name
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			ID:              m.ID,
			ConversationID:  m.ConversationID,
			SenderID:        m.SenderID,
			Content:         m.Content,
			CreatedAt:       models.NewTimestamp(m.CreatedAt),
			Read:            m.Read,
			SenderFirstName: senderFirstName(m.SenderID),
		})
	}

	// Fetching the thread marks inbound messages read, in a single batched
	// write. A failure here leaves them unread; the next fetch retries.
	filter := bson.M{
		"conversation_id": conversationID,
		"sender_id":       bson.M{"$ne": userID},
		"read":            false,
	}
	if _, err := msgColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}}); err != nil {
		log.Printf("WARN: failed to mark messages read in conversation %s for user %s: %v", conversationID, userID, err)
	}

	return views, nil
}

// Append inserts a new message and then refreshes the conversation's
// lastMessage summary. The message insert commits first: if the summary
// update fails the message still counts as sent and the failure is only
// logged, leaving the summary to the reconciliation task.
func (s *messageService) Append(ctx context.Context, conversationID, senderID, content string) (*MessageView, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	if _, err := s.findConversationForParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := models.Message{
		Base:           models.NewBase(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        trimmed,
		CreatedAt:      now,
		Read:           false,
	}
	if _, err := s.db.Collection(db.CollMessages).InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to insert message in conversation %s: %w", conversationID, err)
	}

	update := bson.M{"$set": bson.M{"last_message": trimmed, "last_message_at": now}}
	if _, err := s.db.Collection(db.CollConversations).UpdateByID(ctx, conversationID, update); err != nil {
		log.Printf("WARN: message %s sent but failed to update summary of conversation %s: %v", msg.ID, conversationID, err)
	}

	return &MessageView{
		ID:             msg.ID,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        trimmed,
		CreatedAt:      models.NewTimestamp(now),
		Read:           false,
	}, nil
}
