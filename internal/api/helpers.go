package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header against the
// admin token. All admin routes call this first.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) error {
	if authHeader == "" {
		return huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return huma.Error401Unauthorized("Invalid authorization header format")
	}

	if err := s.services.Auth.Verify(ctx, parts[1]); err != nil {
		return huma.Error401Unauthorized("Invalid or expired token")
	}

	return nil
}
