package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTetrastychLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	resp := ts.api.Post("/api/v1/admin/tetrastychs",
		"Authorization: "+token,
		map[string]any{"body": "cztery\nwersy", "published_on": "2024-05-01"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	created := decode[TetrastychResponse](t, resp.Body.Bytes())
	assert.Equal(t, "2024-05-01", created.PublishedOn)

	resp = ts.api.Patch("/api/v1/admin/tetrastychs/1",
		"Authorization: "+token,
		map[string]any{"body": "inne\nwersy"})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := decode[TetrastychResponse](t, resp.Body.Bytes())
	assert.Equal(t, "inne\nwersy", updated.Body)

	resp = ts.api.Get("/api/v1/tetrastychs")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[ListTetrastychsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Tetrastychs, 1)

	resp = ts.api.Delete("/api/v1/admin/tetrastychs/1", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tetrastychs")
	list = decode[ListTetrastychsResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Tetrastychs)
}

func TestCreateTetrastych_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/admin/tetrastychs", map[string]any{"body": "b"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
