package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Admin login",
		Description: "Verifies the admin password and returns an access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)
}

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Password string `json:"password" doc:"Admin password"`
}

// LoginResponse contains a freshly issued admin token.
type LoginResponse struct {
	Token     string    `json:"token" doc:"PASETO access token"`
	ExpiresAt time.Time `json:"expires_at" doc:"Token expiry time"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	result, err := s.services.Auth.Login(ctx, input.Body.Password)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Body: LoginResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
		},
	}, nil
}
