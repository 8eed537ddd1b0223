package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/ticket-reminder/internal/auth"
	"github.com/spec-kit/ticket-reminder/internal/config"
	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

const adminSubject = "admin"

// AuthService gates dashboard edits behind the single admin password.
type AuthService struct {
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service. A plaintext ADMIN_PASSWORD is hashed
// once at startup; ADMIN_PASSWORD_HASH takes precedence when both are set.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		if cfg.AdminPassword == "" {
			return nil, errors.New("admin password not configured")
		}
		var err error
		hash, err = auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
	}
	return &AuthService{
		passwordHash: hash,
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}, nil
}

// TokenManager exposes the token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login exchanges the admin password for an access token.
func (s *AuthService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, apperrors.NewValidationError("password required", nil)
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(adminSubject, auth.RoleAdmin)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}
