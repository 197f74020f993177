package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "session"
	sessionKey    = "session"
)

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*entity.Session, error)
}

// AuthMiddleware пускает только менеджеров с действующей сессией
type AuthMiddleware struct {
	sessions SessionValidator
}

func NewAuthMiddleware(sessions SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate берет токен из заголовка Authorization или из cookie сессии
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
			c.Abort()
			return
		}

		session, err := m.sessions.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
			} else {
				handleServiceError(c, err, "Failed to validate session")
			}
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie, true
	}

	return "", false
}

// currentSession возвращает сессию, положенную Authenticate
func currentSession(c *gin.Context) (*entity.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*entity.Session)
	return session, ok
}
