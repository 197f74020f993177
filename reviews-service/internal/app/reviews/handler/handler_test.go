package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"
	"flexreviews/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const validToken = "valid-token"

// HandlerTestSuite собирает полный роутер поверх мок-сервисов
type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	reviews  *MockReviewService
	listings *MockListingService
	auth     *MockAuthService
	google   *MockGoogleService
	session  *entity.Session
	ready    error
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.reviews = new(MockReviewService)
	s.listings = new(MockListingService)
	s.auth = new(MockAuthService)
	s.google = new(MockGoogleService)
	s.ready = nil
	s.session = &entity.Session{
		UserID:    uuid.MustParse("6f1c1f7e-8d4a-4c43-9a39-0f5d2b1f6a10"),
		Email:     "manager@flex.com",
		Name:      "Flex Manager",
		Role:      entity.RoleManager,
		ExpiresAt: time.Now().Add(time.Hour),
		Token:     validToken,
	}

	s.auth.On("ValidateSession", mock.Anything, validToken).Return(s.session, nil).Maybe()
	s.auth.On("ValidateSession", mock.Anything, mock.Anything).Return(nil, service.ErrUnauthorized).Maybe()

	health := NewHealthHandler("reviews-service", map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return s.ready },
	})

	s.router = SetupRoutes(Handlers{
		Reviews:  NewReviewHandler(s.reviews),
		Listings: NewListingHandler(s.listings),
		Auth:     NewAuthHandler(s.auth, false),
		Google:   NewGoogleHandler(s.google),
		Health:   health,
	}, NewAuthMiddleware(s.auth), []string{"http://localhost:3000"})
}

func (s *HandlerTestSuite) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ===================== Health =====================

func (s *HandlerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil, "")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("reviews-service", decode(s.T(), w)["service"])
}

func (s *HandlerTestSuite) TestReadiness_Unhealthy() {
	s.ready = errors.New("connection refused")

	w := s.do(http.MethodGet, "/health/readiness", nil, "")

	s.Equal(http.StatusServiceUnavailable, w.Code)
	body := decode(s.T(), w)
	s.Equal("unhealthy", body["status"])
	checks := body["checks"].(map[string]interface{})
	s.Equal("healthy", checks["database"])
	s.Equal("unhealthy: connection refused", checks["redis"])
}

func (s *HandlerTestSuite) TestLiveness() {
	w := s.do(http.MethodGet, "/health/liveness", nil, "")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("alive", w.Body.String())
}

// ===================== Reviews =====================

func (s *HandlerTestSuite) TestListReviews() {
	// Arrange
	raw := query.RawCriteria{Rating: "8", Channel: "Airbnb", Page: "2", Limit: "10"}
	s.reviews.On("ListReviews", mock.Anything, raw).Return(&entity.ReviewPage{
		Reviews:    []entity.Review{{ID: 1, Rating: 9, Channel: entity.ChannelAirbnb}},
		Pagination: entity.Pagination{Page: 2, Limit: 10, Total: 11, TotalPages: 2},
	}, nil)

	// Act
	w := s.do(http.MethodGet, "/api/reviews?rating=8&channel=Airbnb&page=2&limit=10", nil, "")

	// Assert
	s.Equal(http.StatusOK, w.Code)
	body := decode(s.T(), w)
	s.Equal("success", body["status"])
	s.Len(body["data"], 1)
	pagination := body["pagination"].(map[string]interface{})
	s.Equal(float64(2), pagination["totalPages"])
	s.Equal(float64(11), pagination["total"])
}

func (s *HandlerTestSuite) TestListReviews_InvalidFilter() {
	s.reviews.On("ListReviews", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: rating must be a number", service.ErrValidation))

	w := s.do(http.MethodGet, "/api/reviews?rating=abc", nil, "")

	s.Equal(http.StatusBadRequest, w.Code)
	body := decode(s.T(), w)
	s.Equal("error", body["status"])
	s.Contains(body["message"], "rating must be a number")
}

func (s *HandlerTestSuite) TestListReviews_StorageErrorHidden() {
	s.reviews.On("ListReviews", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: dial tcp 10.0.0.1:5432", service.ErrStorage))

	w := s.do(http.MethodGet, "/api/reviews", nil, "")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to fetch reviews", decode(s.T(), w)["message"])
}

func (s *HandlerTestSuite) TestApprove_Unauthorized() {
	w := s.do(http.MethodPatch, "/api/reviews/approve", map[string]interface{}{"reviewId": 1, "isApproved": true}, "")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Unauthorized", decode(s.T(), w)["message"])
	s.reviews.AssertNotCalled(s.T(), "SetApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestApprove_InvalidToken() {
	w := s.do(http.MethodPatch, "/api/reviews/approve", map[string]interface{}{"reviewId": 1, "isApproved": true}, "forged")

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestApprove_Success() {
	s.reviews.On("SetApproval", mock.Anything, s.session.UserID.String(), int64(7), false).
		Return(&entity.Review{ID: 7, IsApproved: false}, nil)

	w := s.do(http.MethodPatch, "/api/reviews/approve", map[string]interface{}{"reviewId": 7, "isApproved": false}, validToken)

	s.Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].(map[string]interface{})
	s.Equal(false, data["isApproved"])
}

func (s *HandlerTestSuite) TestApprove_SessionCookie() {
	s.reviews.On("SetApproval", mock.Anything, mock.Anything, int64(7), true).Return(&entity.Review{ID: 7, IsApproved: true}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/reviews/approve", bytes.NewReader([]byte(`{"reviewId":7,"isApproved":true}`)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "session", Value: validToken})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestApprove_MalformedBody() {
	tests := []struct {
		name string
		body string
	}{
		{"missing review id", `{"isApproved":true}`},
		{"missing flag", `{"reviewId":7}`},
		{"string flag", `{"reviewId":7,"isApproved":"yes"}`},
		{"not json", `reviewId=7`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPatch, "/api/reviews/approve", tt.body, validToken)

			s.Equal(http.StatusBadRequest, w.Code)
			s.Equal("Invalid request body", decode(s.T(), w)["message"])
		})
	}
	s.reviews.AssertNotCalled(s.T(), "SetApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestApprove_NotFound() {
	s.reviews.On("SetApproval", mock.Anything, mock.Anything, int64(404), true).Return(nil, service.ErrReviewNotFound)

	w := s.do(http.MethodPatch, "/api/reviews/approve", map[string]interface{}{"reviewId": 404, "isApproved": true}, validToken)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Review not found", decode(s.T(), w)["message"])
}

func (s *HandlerTestSuite) TestHostawayReviews() {
	rating := 10.0
	s.reviews.On("HostawayView", mock.Anything, "2", "").Return(&entity.HostawayResponse{
		Status: entity.StatusSuccess,
		Result: []entity.HostawayReview{{ID: 7453, Type: "guest-to-host", Status: "published", Rating: &rating}},
	}, nil)

	w := s.do(http.MethodGet, "/api/reviews/hostaway?listingId=2", nil, "")

	s.Equal(http.StatusOK, w.Code)
	body := decode(s.T(), w)
	s.Equal("success", body["status"])
	result := body["result"].([]interface{})
	s.Equal("guest-to-host", result[0].(map[string]interface{})["type"])
}

func (s *HandlerTestSuite) TestImportHostaway() {
	s.reviews.On("ImportHostaway", mock.Anything, s.session.UserID.String(), mock.AnythingOfType("*entity.HostawayResponse")).
		Return(&entity.ImportResult{Received: 1, Imported: 1}, nil)

	payload := `{"status":"success","result":[{"id":7453,"type":"guest-to-host","status":"published","rating":null,"publicReview":"Nice","reviewCategory":[{"category":"cleanliness","rating":10}],"submittedAt":"2020-08-21 22:45:14","guestName":"Shane","listingName":"Shoreditch Heights"}]}`
	w := s.do(http.MethodPost, "/api/reviews/import/hostaway", payload, validToken)

	s.Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].(map[string]interface{})
	s.Equal(float64(1), data["imported"])
}

func (s *HandlerTestSuite) TestImportHostaway_RequiresSession() {
	w := s.do(http.MethodPost, "/api/reviews/import/hostaway", `{"result":[]}`, "")

	s.Equal(http.StatusUnauthorized, w.Code)
}

// ===================== Listings & dashboard =====================

func (s *HandlerTestSuite) TestGetListings() {
	s.listings.On("ListingsWithStats", mock.Anything, true).Return([]entity.EnrichedListing{
		{Listing: entity.Listing{ID: 1, Name: "Camden Loft"}, Stats: entity.ListingStats{AvgRating: 8.5}},
	}, nil)

	w := s.do(http.MethodGet, "/api/listings?includeReviews=true", nil, "")

	s.Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].([]interface{})
	stats := data[0].(map[string]interface{})["stats"].(map[string]interface{})
	s.Equal(8.5, stats["avgRating"])
}

func (s *HandlerTestSuite) TestGetListings_Error() {
	s.listings.On("ListingsWithStats", mock.Anything, false).Return(nil, service.ErrStorage)

	w := s.do(http.MethodGet, "/api/listings", nil, "")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to fetch listings", decode(s.T(), w)["message"])
}

func (s *HandlerTestSuite) TestGetProperty_NotFound() {
	s.listings.On("PropertyBySlug", mock.Anything, "nowhere").Return(nil, service.ErrListingNotFound)

	w := s.do(http.MethodGet, "/api/properties/nowhere", nil, "")

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestDashboardOverview() {
	s.listings.On("DashboardOverview", mock.Anything, "rating").Return(&entity.DashboardOverview{TotalReviews: 50, AvgRating: 8.1}, nil)

	w := s.do(http.MethodGet, "/api/dashboard/overview?sortBy=rating", nil, validToken)

	s.Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].(map[string]interface{})
	s.Equal(float64(50), data["totalReviews"])
}

func (s *HandlerTestSuite) TestDashboardOverview_RequiresSession() {
	w := s.do(http.MethodGet, "/api/dashboard/overview", nil, "")

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestListingDashboard() {
	approved := false
	s.listings.On("ListingDashboard", mock.Anything, int64(3), "Airbnb", &approved).
		Return(&entity.ListingDashboard{Channels: []entity.Channel{entity.ChannelAirbnb}}, nil)

	w := s.do(http.MethodGet, "/api/dashboard/listings/3?channel=Airbnb&isApproved=no", nil, validToken)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestListingDashboard_InvalidID() {
	w := s.do(http.MethodGet, "/api/dashboard/listings/abc", nil, validToken)

	s.Equal(http.StatusBadRequest, w.Code)
}

// ===================== Google =====================

func (s *HandlerTestSuite) TestGoogle_RequiresSetup() {
	s.google.On("Configured").Return(false)
	s.google.On("SetupInfo").Return(&entity.GoogleSetupInfo{Status: "requires_setup", ExamplePlaceID: "ChIJN1t_tDeuEmsRUsoyG83frY4"})

	w := s.do(http.MethodGet, "/api/reviews/google", nil, "")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("requires_setup", decode(s.T(), w)["status"])
}

func (s *HandlerTestSuite) TestGoogle_MissingPlaceID() {
	s.google.On("Configured").Return(true)
	s.google.On("PlaceReviews", mock.Anything, "").
		Return(nil, fmt.Errorf("%w: Place ID is required. Use ?placeId=YOUR_PLACE_ID", service.ErrValidation))

	w := s.do(http.MethodGet, "/api/reviews/google", nil, "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(decode(s.T(), w)["message"], "Place ID is required")
}

func (s *HandlerTestSuite) TestGoogle_UpstreamStatus() {
	s.google.On("Configured").Return(true)
	s.google.On("PlaceReviews", mock.Anything, "bad").Return(nil, &service.UpstreamError{
		Channel:    "Google",
		Status:     "INVALID_REQUEST",
		HTTPStatus: http.StatusBadRequest,
		Message:    "Invalid 'placeid' parameter",
	})

	w := s.do(http.MethodGet, "/api/reviews/google?placeId=bad", nil, "")

	s.Equal(http.StatusBadRequest, w.Code)
	body := decode(s.T(), w)
	s.Equal("Google API returned status: INVALID_REQUEST", body["message"])
	s.Equal("Invalid 'placeid' parameter", body["details"])
}

func (s *HandlerTestSuite) TestGoogle_Success() {
	s.google.On("Configured").Return(true)
	s.google.On("PlaceReviews", mock.Anything, "ChIJ123").Return(&entity.GooglePlaceReviews{PlaceName: "Flex Living Soho", AvgRating: 9.2}, nil)

	w := s.do(http.MethodGet, "/api/reviews/google?placeId=ChIJ123", nil, "")

	s.Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].(map[string]interface{})
	s.Equal("Flex Living Soho", data["placeName"])
}

// ===================== Auth =====================

func (s *HandlerTestSuite) TestLogin_SetsCookie() {
	s.auth.On("Login", mock.Anything, &entity.LoginRequest{Email: "manager@flex.com", Password: "demo123"}).
		Return(&entity.LoginResponse{AccessToken: "jwt", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	w := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "manager@flex.com", "password": "demo123"}, "")

	s.Equal(http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("session", cookies[0].Name)
	s.Equal("jwt", cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *HandlerTestSuite) TestLogin_InvalidBody() {
	w := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "not-an-email", "password": "demo123"}, "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email is email", decode(s.T(), w)["details"])
}

func (s *HandlerTestSuite) TestLogin_WrongPassword() {
	s.auth.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)

	w := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "manager@flex.com", "password": "wrong-one"}, "")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid email or password", decode(s.T(), w)["message"])
}

func (s *HandlerTestSuite) TestLogout() {
	s.auth.On("Logout", mock.Anything, s.session).Return(nil)

	w := s.do(http.MethodPost, "/auth/logout", nil, validToken)

	s.Equal(http.StatusOK, w.Code)
	s.auth.AssertCalled(s.T(), "Logout", mock.Anything, s.session)
}

func (s *HandlerTestSuite) TestMe() {
	w := s.do(http.MethodGet, "/auth/me", nil, validToken)

	s.Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].(map[string]interface{})
	s.Equal("manager@flex.com", data["email"])
	s.NotContains(data, "token")
}

func TestParseApproved(t *testing.T) {
	assert.Nil(t, parseApproved(""))
	assert.True(t, *parseApproved("true"))
	assert.False(t, *parseApproved("false"))
	assert.False(t, *parseApproved("yes"))
}

func TestExtractToken_BadHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	_, ok := extractToken(c)

	assert.False(t, ok)
}
