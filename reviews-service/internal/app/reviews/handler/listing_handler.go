package handler

import (
	"context"
	"net/http"
	"strconv"

	"flexreviews/reviews-service/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
)

type ListingServiceInterface interface {
	ListingsWithStats(ctx context.Context, includeReviews bool) ([]entity.EnrichedListing, error)
	PropertyBySlug(ctx context.Context, slug string) (*entity.EnrichedListing, error)
	DashboardOverview(ctx context.Context, sortBy string) (*entity.DashboardOverview, error)
	ListingDashboard(ctx context.Context, listingID int64, channel string, approved *bool) (*entity.ListingDashboard, error)
}

type ListingHandler struct {
	listingService ListingServiceInterface
}

func NewListingHandler(listingService ListingServiceInterface) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// GetListings GET /api/listings
func (h *ListingHandler) GetListings(c *gin.Context) {
	includeReviews := c.Query("includeReviews") == "true"

	listings, err := h.listingService.ListingsWithStats(c.Request.Context(), includeReviews)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch listings")
		return
	}

	respondSuccess(c, http.StatusOK, listings)
}

// GetProperty GET /api/properties/:slug
func (h *ListingHandler) GetProperty(c *gin.Context) {
	property, err := h.listingService.PropertyBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "Failed to fetch property")
		return
	}

	respondSuccess(c, http.StatusOK, property)
}

// DashboardOverview GET /api/dashboard/overview
func (h *ListingHandler) DashboardOverview(c *gin.Context) {
	overview, err := h.listingService.DashboardOverview(c.Request.Context(), c.Query("sortBy"))
	if err != nil {
		handleServiceError(c, err, "Failed to build dashboard")
		return
	}

	respondSuccess(c, http.StatusOK, overview)
}

// ListingDashboard GET /api/dashboard/listings/:listingId
func (h *ListingHandler) ListingDashboard(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("listingId"), 10, 64)
	if err != nil || listingID <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	dashboard, err := h.listingService.ListingDashboard(
		c.Request.Context(),
		listingID,
		c.Query("channel"),
		parseApproved(c.Query("isApproved")),
	)
	if err != nil {
		handleServiceError(c, err, "Failed to build listing dashboard")
		return
	}

	respondSuccess(c, http.StatusOK, dashboard)
}
