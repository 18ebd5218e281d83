package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/poezjaapp/poezja-server/internal/auth"
	"github.com/poezjaapp/poezja-server/internal/errors"
)

// AuthService verifies the admin password and issues access tokens.
// There is exactly one administrator; no user accounts exist.
type AuthService struct {
	tokens       *auth.TokenService
	passwordHash string
	logger       *slog.Logger
}

// NewAuthService creates a new auth service.
// passwordHash is the Argon2id hash of the admin password; when empty
// every login attempt is rejected.
func NewAuthService(tokens *auth.TokenService, passwordHash string, logger *slog.Logger) *AuthService {
	return &AuthService{
		tokens:       tokens,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

// LoginResult carries a freshly issued admin token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies the admin password and returns an access token.
func (s *AuthService) Login(_ context.Context, password string) (*LoginResult, error) {
	if s.passwordHash == "" {
		s.logger.Warn("Login attempted but no admin password is configured")
		return nil, errors.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(s.passwordHash, password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "verify password")
	}
	if !ok {
		s.logger.Warn("Failed admin login attempt")
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate token")
	}

	s.logger.Info("Admin logged in")

	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.AccessTokenDuration()),
	}, nil
}

// Verify checks an access token and confirms it belongs to the admin.
func (s *AuthService) Verify(_ context.Context, token string) error {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return errors.ErrUnauthorized.WithCause(err)
	}
	if !claims.IsAdmin() {
		return errors.ErrUnauthorized
	}
	return nil
}
