package handler

import (
	"context"
	"net/http"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	Logout(ctx context.Context, session *entity.Session) error
	ValidateSession(ctx context.Context, token string) (*entity.Session, error)
}

type AuthHandler struct {
	authService  AuthServiceInterface
	validator    *validator.Validate
	secureCookie bool
}

func NewAuthHandler(authService AuthServiceInterface, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validator:    validator.New(),
		secureCookie: secureCookie,
	}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", formatValidationError(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "Failed to login")
		return
	}

	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, resp.AccessToken, maxAge, "/", "", h.secureCookie, true)

	respondSuccess(c, http.StatusOK, resp)
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), session); err != nil {
		handleServiceError(c, err, "Failed to logout")
		return
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", h.secureCookie, true)
	respondSuccess(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	respondSuccess(c, http.StatusOK, session)
}
