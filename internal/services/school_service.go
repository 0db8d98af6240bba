package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DripDropMarket/drip-drop/internal/config"
	"github.com/DripDropMarket/drip-drop/internal/db"
	"github.com/DripDropMarket/drip-drop/internal/models"
)

// SchoolAdminStatus describes the admin roster of a school as seen by one
// user.
type SchoolAdminStatus struct {
	IsAdmin  bool                 `json:"isAdmin"`
	AdminIDs []string             `json:"adminIds"`
	Admins   []models.UserProfile `json:"admins"`
}

// Admin roster actions.
const (
	AdminActionAdd    = "add"
	AdminActionRemove = "remove"
)

// ISchoolService defines the interface for school admin management.
type ISchoolService interface {
	AdminStatus(ctx context.Context, schoolID, userID string) (*SchoolAdminStatus, error)
	ManageAdmin(ctx context.Context, schoolID, requesterID, targetUserID, action string) ([]string, error)
}

type schoolService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewSchoolService creates a new SchoolService.
func NewSchoolService(db *mongo.Database, cfg *config.Config) ISchoolService {
	return &schoolService{db: db, cfg: cfg}
}

// AdminStatus returns whether userID administers the school, plus the full
// roster with profiles. Admin ids without a matching user record are
// skipped in the profile list but kept in adminIds.
func (s *schoolService) AdminStatus(ctx context.Context, schoolID, userID string) (*SchoolAdminStatus, error) {
	school, err := s.findSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	status := &SchoolAdminStatus{
		IsAdmin:  school.HasAdmin(userID),
		AdminIDs: school.AdminIDs,
		Admins:   make([]models.UserProfile, 0, len(school.AdminIDs)),
	}

	for _, adminID := range school.AdminIDs {
		var user models.User
		err := s.db.Collection(db.CollUsers).FindOne(ctx, bson.M{"_id": adminID}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch admin %s for school %s: %w", adminID, schoolID, err)
		}
		status.Admins = append(status.Admins, *user.Profile())
	}

	return status, nil
}

// ManageAdmin adds or removes an admin on behalf of an existing admin and
// returns the updated roster. The last admin cannot be removed.
func (s *schoolService) ManageAdmin(ctx context.Context, schoolID, requesterID, targetUserID, action string) ([]string, error) {
	if targetUserID == "" || (action != AdminActionAdd && action != AdminActionRemove) {
		return nil, fmt.Errorf("%w: action must be \"add\" or \"remove\" and userId is required", ErrInvalidInput)
	}

	school, err := s.findSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if !school.HasAdmin(requesterID) {
		return nil, ErrNotSchoolAdmin
	}

	adminIDs := school.AdminIDs
	switch action {
	case AdminActionAdd:
		if school.HasAdmin(targetUserID) {
			return nil, fmt.Errorf("%w: user is already an admin", ErrInvalidInput)
		}
		adminIDs = append(adminIDs, targetUserID)
	case AdminActionRemove:
		if !school.HasAdmin(targetUserID) {
			return nil, fmt.Errorf("%w: user is not an admin", ErrInvalidInput)
		}
		if len(adminIDs) <= 1 {
			return nil, fmt.Errorf("%w: cannot remove the last admin", ErrInvalidInput)
		}
		filtered := make([]string, 0, len(adminIDs)-1)
		for _, id := range adminIDs {
			if id != targetUserID {
				filtered = append(filtered, id)
			}
		}
		adminIDs = filtered
	}

	_, err = s.db.Collection(db.CollSchools).UpdateByID(ctx, schoolID, bson.M{"$set": bson.M{"admin_ids": adminIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to update admins for school %s: %w", schoolID, err)
	}
	return adminIDs, nil
}

func (s *schoolService) findSchool(ctx context.Context, schoolID string) (*models.School, error) {
	var school models.School
	err := s.db.Collection(db.CollSchools).FindOne(ctx, bson.M{"_id": schoolID}).Decode(&school)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch school %s: %w", schoolID, err)
	}
	return &school, nil
}
