package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flexreviews/pkg/logger"
	"flexreviews/pkg/metrics"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/repository"
	"flexreviews/reviews-service/internal/app/reviews/util"
)

const tokenTypeBearer = "Bearer"

// AuthService - сессии менеджеров дашборда
type AuthService struct {
	userRepo   repository.UserRepository
	blacklist  repository.TokenBlacklist
	jwtManager *util.JWTManager
}

func NewAuthService(
	userRepo repository.UserRepository,
	blacklist repository.TokenBlacklist,
	jwtManager *util.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		jwtManager: jwtManager,
	}
}

// Login проверяет пароль и выпускает токен сессии
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.AuthLogins.WithLabelValues("error").Inc()
		return nil, storageError("get user", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		metrics.AuthLogins.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	logger.Info().Str("user_id", user.ID.String()).Msg("Manager logged in")

	return &entity.LoginResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
		User:        *user,
	}, nil
}

// Logout отзывает токен до истечения его срока
func (s *AuthService) Logout(ctx context.Context, session *entity.Session) error {
	if err := s.blacklist.Add(ctx, session.Token, session.ExpiresAt); err != nil {
		return storageError("revoke token", err)
	}
	return nil
}

// ValidateSession возвращает сессию по токену или ErrUnauthorized
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, storageError("check token", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	return claims.Session(token), nil
}
