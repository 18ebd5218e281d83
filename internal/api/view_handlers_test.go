package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poezjaapp/poezja-server/internal/http/response"
	"github.com/poezjaapp/poezja-server/internal/ratelimit"
)

// postView sends a raw view-tracker request through the full router.
func postView(s http.Handler, body, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/views", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestRecordViewEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)
	id := ts.createPoem(t, token, "oglądany")

	rec := postView(ts, fmt.Sprintf(`{"poem_id":%d}`, id), "192.0.2.1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	// The view shows up on the poem projection.
	resp := ts.api.Get(fmt.Sprintf("/api/v1/poems/%d", id))
	poem := decode[PoemResponse](t, resp.Body.Bytes())
	assert.EqualValues(t, 1, poem.ViewCount)
}

func TestRecordViewEndpoint_UnknownPoem(t *testing.T) {
	ts := setupTestServer(t)

	rec := postView(ts, `{"poem_id":999}`, "192.0.2.1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordViewEndpoint_BadBody(t *testing.T) {
	ts := setupTestServer(t)

	rec := postView(ts, `{broken`, "192.0.2.1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordViewEndpoint_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)
	id := ts.createPoem(t, token, "popularny")

	// Rebuild the router with a limiter that allows two requests.
	tight := NewServer(ts.services, ratelimit.New(0.001, 2), "Poezja Test", "0.0.0", ts.logger)

	body := fmt.Sprintf(`{"poem_id":%d}`, id)
	for i := 0; i < 2; i++ {
		rec := postView(tight, body, "192.0.2.7")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := postView(tight, body, "192.0.2.7")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different IP still gets through.
	rec = postView(tight, body, "192.0.2.8")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}
