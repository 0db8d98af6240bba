package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
)

// ProfileInput carries the profile fields a signed-in user syncs to their
// record.
type ProfileInput struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
	Email          string `json:"email"`
}

// IUserService defines the interface for user profile operations.
type IUserService interface {
	EnsureUser(ctx context.Context, uid string, input ProfileInput) (*models.User, error)
	FindByID(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: db, cfg: cfg}
}

// EnsureUser upserts the profile record keyed by the identity provider's
// uid, creating it on first contact and refreshing it afterwards.
func (s *userService) EnsureUser(ctx context.Context, uid string, input ProfileInput) (*models.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{"created_at": now},
		"$set": bson.M{
			"first_name":      input.FirstName,
			"last_name":       input.LastName,
			"profile_picture": input.ProfilePicture,
			"email":           input.Email,
			"updated_at":      now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var user models.User
	// Concurrent first-contact upserts for the same uid can race into a
	// duplicate key error; the retry re-runs against the existing record.
	err := db.Try(func() error {
		return s.db.Collection(db.CollUsers).FindOneAndUpdate(ctx, bson.M{"_id": uid}, update, opts).Decode(&user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", uid, err)
	}
	return &user, nil
}

func (s *userService) FindByID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(db.CollUsers).FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", uid, err)
	}
	return &user, nil
}
