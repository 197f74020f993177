package handler

import (
	"context"
	"net/http"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewServiceInterface interface {
	ListReviews(ctx context.Context, raw query.RawCriteria) (*entity.ReviewPage, error)
	SetApproval(ctx context.Context, actorID string, reviewID int64, approved bool) (*entity.Review, error)
	HostawayView(ctx context.Context, listingID string, status string) (*entity.HostawayResponse, error)
	ImportHostaway(ctx context.Context, actorID string, payload *entity.HostawayResponse) (*entity.ImportResult, error)
}

type ReviewHandler struct {
	reviewService ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// ListReviews GET /api/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var raw query.RawCriteria
	if err := c.ShouldBindQuery(&raw); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", nil)
		return
	}

	page, err := h.reviewService.ListReviews(c.Request.Context(), raw)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch reviews")
		return
	}

	respondPage(c, page.Reviews, page.Pagination)
}

// ApproveReview PATCH /api/reviews/approve
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	// Нелогическое значение isApproved не проходит разбор JSON
	var req entity.ApproveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", formatValidationError(err))
		return
	}

	review, err := h.reviewService.SetApproval(c.Request.Context(), session.UserID.String(), req.ReviewID, *req.IsApproved)
	if err != nil {
		handleServiceError(c, err, "Failed to update review")
		return
	}

	respondSuccess(c, http.StatusOK, review)
}

// HostawayReviews GET /api/reviews/hostaway, ответ в формате Hostaway API без конверта
func (h *ReviewHandler) HostawayReviews(c *gin.Context) {
	resp, err := h.reviewService.HostawayView(c.Request.Context(), c.Query("listingId"), c.Query("status"))
	if err != nil {
		handleServiceError(c, err, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportHostaway POST /api/reviews/import/hostaway
func (h *ReviewHandler) ImportHostaway(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var payload entity.HostawayResponse
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Struct(payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", formatValidationError(err))
		return
	}

	result, err := h.reviewService.ImportHostaway(c.Request.Context(), session.UserID.String(), &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to import reviews")
		return
	}

	respondSuccess(c, http.StatusOK, result)
}
