package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
)

// IAffiliateService defines the interface for affiliate link tracking.
type IAffiliateService interface {
	TrackClick(ctx context.Context, affiliateID string) error
}

type affiliateService struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewAffiliateService creates a new AffiliateService. The client is needed
// on top of the database handle because click tracking runs in a session.
func NewAffiliateService(client *mongo.Client, db *mongo.Database) IAffiliateService {
	return &affiliateService{client: client, db: db}
}

// TrackClick counts one click on an affiliate link inside a transaction.
// Unknown or inactive affiliates are ignored so the click endpoint never
// leaks which ids exist.
func (s *affiliateService) TrackClick(ctx context.Context, affiliateID string) error {
	if affiliateID == "" {
		return fmt.Errorf("%w: affiliateId is required", ErrInvalidInput)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session for affiliate click: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var affiliate models.Affiliate
		err := s.db.Collection(db.CollAffiliates).FindOne(sc, bson.M{"_id": affiliateID}).Decode(&affiliate)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch affiliate %s: %w", affiliateID, err)
		}
		if !affiliate.IsActive {
			return nil, nil
		}

		update := bson.M{
			"$inc": bson.M{"click_count": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		}
		if _, err := s.db.Collection(db.CollAffiliates).UpdateByID(sc, affiliateID, update); err != nil {
			return nil, fmt.Errorf("failed to count click for affiliate %s: %w", affiliateID, err)
		}
		return nil, nil
	})
	return err
}
