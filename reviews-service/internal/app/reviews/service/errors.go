package service

import (
	"errors"
	"fmt"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrValidation         = errors.New("validation failed")
	ErrReviewNotFound     = errors.New("review not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorage            = errors.New("storage failure")
)

// UpstreamError - внешний канал отзывов недоступен или ответил неуспешно.
// Status - код ответа канала, HTTPStatus - код, который увидит клиент.
type UpstreamError struct {
	Channel    string
	Status     string
	HTTPStatus int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status: %s", e.Channel, e.Status)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", ErrStorage, op, err)
}
