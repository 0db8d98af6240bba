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

// CreateListingInput carries the fields a seller provides for a new listing.
type CreateListingInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Type         string   `json:"type"`
	ClothingType string   `json:"clothingType"`
	Condition    string   `json:"condition"`
	Size         string   `json:"size"`
	Gender       string   `json:"gender"`
	ImageURLs    []string `json:"imageUrls"`
	IsPrivate    bool     `json:"isPrivate"`
}

// UpdateListingInput carries partial updates; nil fields are left untouched.
type UpdateListingInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Type        *string  `json:"type"`
	IsPrivate   *bool    `json:"isPrivate"`
	IsSold      *bool    `json:"isSold"`
}

// ListingFilter narrows a browse query. Zero values mean "no constraint".
type ListingFilter struct {
	Type         string
	ClothingType string
	MinPrice     *float64
	MaxPrice     *float64
	Search       string
}

// IListingService defines the interface for listing operations.
type IListingService interface {
	Create(ctx context.Context, userID string, input CreateListingInput) (*models.Listing, error)
	Get(ctx context.Context, listingID, viewerID string) (*models.Listing, error)
	Browse(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	ListByUser(ctx context.Context, userID string) ([]models.Listing, error)
	Update(ctx context.Context, listingID, userID string, input UpdateListingInput) (*models.Listing, error)
	Delete(ctx context.Context, listingID, userID string) error
}

type listingService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewListingService creates a new ListingService.
func NewListingService(db *mongo.Database, cfg *config.Config) IListingService {
	return &listingService{db: db, cfg: cfg}
}

func (s *listingService) Create(ctx context.Context, userID string, input CreateListingInput) (*models.Listing, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if input.Title == "" || input.Description == "" || input.Type == "" {
		return nil, fmt.Errorf("%w: title, description and type are required", ErrInvalidInput)
	}
	if !models.ListingType(input.Type).Valid() {
		return nil, fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, input.Type)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}

	listing := models.Listing{
		Base:         models.NewBase(),
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Type:         models.ListingType(input.Type),
		ClothingType: input.ClothingType,
		Condition:    input.Condition,
		Size:         input.Size,
		Gender:       input.Gender,
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
		ImageURLs:    input.ImageURLs,
		IsPrivate:    input.IsPrivate,
	}

	if _, err := s.db.Collection(db.CollListings).InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

// Get fetches one listing. A signed-in viewer who is not the owner counts
// as a view; the owner looking at their own listing does not.
func (s *listingService) Get(ctx context.Context, listingID, viewerID string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Collection(db.CollListings).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch listing %s: %w", listingID, err)
	}

	if viewerID != "" && viewerID != listing.UserID {
		if _, err := s.db.Collection(db.CollListings).UpdateByID(ctx, listingID, bson.M{"$inc": bson.M{"view_count": 1}}); err != nil {
			log.Printf("WARN: failed to count view for listing %s: %v", listingID, err)
		} else {
			listing.ViewCount++
		}
	}

	return &listing, nil
}

func (s *listingService) Browse(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(db.CollListings).Find(ctx, bson.M{"is_private": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to browse listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	results := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if matchesFilter(l, filter) {
			results = append(results, l)
		}
	}
	return results, nil
}

func matchesFilter(l models.Listing, f ListingFilter) bool {
	if f.Type != "" && string(l.Type) != f.Type {
		return false
	}
	if f.ClothingType != "" && l.ClothingType != f.ClothingType {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			return false
		}
	}
	return true
}

func (s *listingService) ListByUser(ctx context.Context, userID string) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(db.CollListings).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings for user %s: %w", userID, err)
	}
	return listings, nil
}

func (s *listingService) Update(ctx context.Context, listingID, userID string, input UpdateListingInput) (*models.Listing, error) {
	var existing models.Listing
	err := s.db.Collection(db.CollListings).FindOne(ctx, bson.M{"_id": listingID}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch listing %s for update: %w", listingID, err)
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}

	set := bson.M{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		set["title"] = title
	}
	if input.Description != nil {
		set["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
		}
		set["price"] = *input.Price
	}
	if input.Type != nil {
		if !models.ListingType(*input.Type).Valid() {
			return nil, fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, *input.Type)
		}
		set["type"] = *input.Type
	}
	if input.IsPrivate != nil {
		set["is_private"] = *input.IsPrivate
	}
	if input.IsSold != nil {
		set["is_sold"] = *input.IsSold
	}
	if len(set) == 0 {
		return &existing, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Listing
	err = s.db.Collection(db.CollListings).FindOneAndUpdate(ctx, bson.M{"_id": listingID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", listingID, err)
	}
	return &updated, nil
}

func (s *listingService) Delete(ctx context.Context, listingID, userID string) error {
	var existing models.Listing
	err := s.db.Collection(db.CollListings).FindOne(ctx, bson.M{"_id": listingID}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mongo.ErrNoDocuments
		}
		return fmt.Errorf("failed to fetch listing %s for delete: %w", listingID, err)
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}

	if _, err := s.db.Collection(db.CollListings).DeleteOne(ctx, bson.M{"_id": listingID}); err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	return nil
}
