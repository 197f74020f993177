package handler

import (
	"errors"
	"net/http"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, entity.SuccessResponse{
		Status: entity.StatusSuccess,
		Data:   data,
	})
}

func respondPage(c *gin.Context, data interface{}, pagination entity.Pagination) {
	c.JSON(http.StatusOK, entity.SuccessResponse{
		Status:     entity.StatusSuccess,
		Data:       data,
		Pagination: &pagination,
	})
}

func respondError(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, entity.ErrorResponse{
		Status:  entity.StatusError,
		Message: message,
		Details: details,
	})
}

// handleServiceError переводит ошибку сервиса в HTTP ответ.
// fallback - сообщение для непредвиденных ошибок, сама ошибка только логируется.
func handleServiceError(c *gin.Context, err error, fallback string) {
	var upstream *service.UpstreamError

	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrReviewNotFound):
		respondError(c, http.StatusNotFound, "Review not found", nil)
	case errors.Is(err, service.ErrListingNotFound):
		respondError(c, http.StatusNotFound, "Listing not found", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
	case errors.As(err, &upstream):
		logger.Warn().
			Str("channel", upstream.Channel).
			Str("upstream_status", upstream.Status).
			Msg(upstream.Message)
		respondError(c, upstream.HTTPStatus, upstream.Error(), upstream.Message)
	default:
		logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg(fallback)
		respondError(c, http.StatusInternalServerError, fallback, nil)
	}
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}

// parseApproved: "true" - одобренные, любое другое непустое значение - неодобренные
func parseApproved(value string) *bool {
	if value == "" {
		return nil
	}
	approved := value == "true"
	return &approved
}
