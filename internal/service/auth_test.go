package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poezjaapp/poezja-server/internal/auth"
	"github.com/poezjaapp/poezja-server/internal/errors"
)

func newTestAuthService(t *testing.T, passwordHash string) *AuthService {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	return NewAuthService(tokens, passwordHash, testLogger())
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	svc := newTestAuthService(t, hash)
	ctx := context.Background()

	result, err := svc.Login(ctx, "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.Verify(ctx, result.Token))
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	svc := newTestAuthService(t, hash)

	_, err = svc.Login(context.Background(), "battery staple")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLogin_NoPasswordConfigured(t *testing.T) {
	svc := newTestAuthService(t, "")

	_, err := svc.Login(context.Background(), "anything")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestVerify_BadToken(t *testing.T) {
	svc := newTestAuthService(t, "")

	err := svc.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}
