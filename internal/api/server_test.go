package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/poezjaapp/poezja-server/internal/auth"
	"github.com/poezjaapp/poezja-server/internal/ratelimit"
	"github.com/poezjaapp/poezja-server/internal/service"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
)

const testAdminPassword = "correct horse battery staple"

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
	Success bool      `json:"success"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	passwordHash, err := auth.HashPassword(testAdminPassword)
	require.NoError(t, err)

	times := timeutil.NewConverter()
	services := &Services{
		Auth:       service.NewAuthService(tokens, passwordHash, logger),
		Poem:       service.NewPoemService(st, logger, times),
		Slam:       service.NewSlamService(st, logger),
		Tetrastych: service.NewTetrastychService(st, logger, times),
		Stats:      service.NewStatsService(st, logger, times, "test-salt"),
	}

	s := NewServer(services, ratelimit.New(1000, 1000), "Poezja Test", "0.0.0", logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}

// login returns a valid admin Authorization header value.
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var envelope testEnvelope[LoginResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)

	return "Bearer " + envelope.Data.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}
