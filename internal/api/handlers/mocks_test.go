package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DripDropMarket/drip-drop/internal/models"
	"github.com/DripDropMarket/drip-drop/internal/services"
)

// --- Mocks ---

// MockConversationService
type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) FindOrCreate(ctx context.Context, senderID, recipientID, listingID, initialMessage string) (string, error) {
	args := m.Called(ctx, senderID, recipientID, listingID, initialMessage)
	return args.String(0), args.Error(1)
}

func (m *MockConversationService) Get(ctx context.Context, conversationID, userID string) (*services.ConversationView, error) {
	args := m.Called(ctx, conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ConversationView), args.Error(1)
}

func (m *MockConversationService) List(ctx context.Context, userID string) ([]services.ConversationView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.ConversationView), args.Error(1)
}

// MockMessageService
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) List(ctx context.Context, conversationID, userID string) ([]services.MessageView, error) {
	args := m.Called(ctx, conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.MessageView), args.Error(1)
}

func (m *MockMessageService) Append(ctx context.Context, conversationID, senderID, content string) (*services.MessageView, error) {
	args := m.Called(ctx, conversationID, senderID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MessageView), args.Error(1)
}

// MockCounterService
type MockCounterService struct {
	mock.Mock
}

func (m *MockCounterService) TrackView(ctx context.Context, listingID string) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterService) Stats(ctx context.Context, listingID string) (*models.ListingStats, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingStats), args.Error(1)
}

func (m *MockCounterService) ToggleSave(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCounterService) ListSaved(ctx context.Context, userID string) ([]services.SavedListingView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SavedListingView), args.Error(1)
}

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, userID string, input services.CreateListingInput) (*models.Listing, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Get(ctx context.Context, listingID, viewerID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Browse(ctx context.Context, filter services.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) ListByUser(ctx context.Context, userID string) ([]models.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, listingID, userID string, input services.UpdateListingInput) (*models.Listing, error) {
	args := m.Called(ctx, listingID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Delete(ctx context.Context, listingID, userID string) error {
	args := m.Called(ctx, listingID, userID)
	return args.Error(0)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureUser(ctx context.Context, uid string, input services.ProfileInput) (*models.User, error) {
	args := m.Called(ctx, uid, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSchoolService
type MockSchoolService struct {
	mock.Mock
}

func (m *MockSchoolService) AdminStatus(ctx context.Context, schoolID, userID string) (*services.SchoolAdminStatus, error) {
	args := m.Called(ctx, schoolID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SchoolAdminStatus), args.Error(1)
}

func (m *MockSchoolService) ManageAdmin(ctx context.Context, schoolID, requesterID, targetUserID, action string) ([]string, error) {
	args := m.Called(ctx, schoolID, requesterID, targetUserID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAffiliateService
type MockAffiliateService struct {
	mock.Mock
}

func (m *MockAffiliateService) TrackClick(ctx context.Context, affiliateID string) error {
	args := m.Called(ctx, affiliateID)
	return args.Error(0)
}
