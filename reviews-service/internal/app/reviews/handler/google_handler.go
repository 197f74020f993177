package handler

import (
	"context"
	"net/http"

	"flexreviews/reviews-service/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
)

type GoogleServiceInterface interface {
	Configured() bool
	SetupInfo() *entity.GoogleSetupInfo
	PlaceReviews(ctx context.Context, placeID string) (*entity.GooglePlaceReviews, error)
}

type GoogleHandler struct {
	googleService GoogleServiceInterface
}

func NewGoogleHandler(googleService GoogleServiceInterface) *GoogleHandler {
	return &GoogleHandler{googleService: googleService}
}

// PlaceReviews GET /api/reviews/google?placeId=...
// Без ключа API отвечает документацией по настройке.
func (h *GoogleHandler) PlaceReviews(c *gin.Context) {
	if !h.googleService.Configured() {
		c.JSON(http.StatusOK, h.googleService.SetupInfo())
		return
	}

	result, err := h.googleService.PlaceReviews(c.Request.Context(), c.Query("placeId"))
	if err != nil {
		handleServiceError(c, err, "Failed to fetch Google reviews")
		return
	}

	respondSuccess(c, http.StatusOK, result)
}
