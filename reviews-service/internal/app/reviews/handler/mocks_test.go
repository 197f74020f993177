package handler

import (
	"context"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"

	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListReviews(ctx context.Context, raw query.RawCriteria) (*entity.ReviewPage, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewPage), args.Error(1)
}

func (m *MockReviewService) SetApproval(ctx context.Context, actorID string, reviewID int64, approved bool) (*entity.Review, error) {
	args := m.Called(ctx, actorID, reviewID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) HostawayView(ctx context.Context, listingID string, status string) (*entity.HostawayResponse, error) {
	args := m.Called(ctx, listingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HostawayResponse), args.Error(1)
}

func (m *MockReviewService) ImportHostaway(ctx context.Context, actorID string, payload *entity.HostawayResponse) (*entity.ImportResult, error) {
	args := m.Called(ctx, actorID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ImportResult), args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListingsWithStats(ctx context.Context, includeReviews bool) ([]entity.EnrichedListing, error) {
	args := m.Called(ctx, includeReviews)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EnrichedListing), args.Error(1)
}

func (m *MockListingService) PropertyBySlug(ctx context.Context, slug string) (*entity.EnrichedListing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EnrichedListing), args.Error(1)
}

func (m *MockListingService) DashboardOverview(ctx context.Context, sortBy string) (*entity.DashboardOverview, error) {
	args := m.Called(ctx, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DashboardOverview), args.Error(1)
}

func (m *MockListingService) ListingDashboard(ctx context.Context, listingID int64, channel string, approved *bool) (*entity.ListingDashboard, error) {
	args := m.Called(ctx, listingID, channel, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ListingDashboard), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, session *entity.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAuthService) ValidateSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

type MockGoogleService struct {
	mock.Mock
}

func (m *MockGoogleService) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockGoogleService) SetupInfo() *entity.GoogleSetupInfo {
	return m.Called().Get(0).(*entity.GoogleSetupInfo)
}

func (m *MockGoogleService) PlaceReviews(ctx context.Context, placeID string) (*entity.GooglePlaceReviews, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GooglePlaceReviews), args.Error(1)
}
