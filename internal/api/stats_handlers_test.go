package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsOverviewEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	a := ts.createPoem(t, token, "a")
	resp := ts.api.Post("/api/v1/admin/poems",
		"Authorization: "+token,
		map[string]any{"title": "b", "body": "b", "tags": "miłość, natura"})
	require.Equal(t, http.StatusOK, resp.Code)

	rec := postView(ts, fmt.Sprintf(`{"poem_id":%d}`, a), "192.0.2.1")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp = ts.api.Get("/api/v1/stats/overview")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	ov := decode[OverviewResponse](t, resp.Body.Bytes())
	assert.EqualValues(t, 2, ov.TotalPoems)
	assert.EqualValues(t, 2, ov.TotalTags)
	assert.EqualValues(t, 1, ov.TotalViews)
	assert.EqualValues(t, 1, ov.ViewsToday)
	require.Len(t, ov.TopPoems, 1)
	assert.Equal(t, a, ov.TopPoems[0].ID)
	assert.Len(t, ov.LastWeek, 7)
}

func TestStatsPoemEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)
	id := ts.createPoem(t, token, "a")

	rec := postView(ts, fmt.Sprintf(`{"poem_id":%d}`, id), "192.0.2.1")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := ts.api.Get(fmt.Sprintf("/api/v1/stats/poems/%d", id))
	require.Equal(t, http.StatusOK, resp.Code)

	stats := decode[PoemStatsResponse](t, resp.Body.Bytes())
	assert.Equal(t, id, stats.PoemID)
	assert.EqualValues(t, 1, stats.TotalViews)
	assert.Len(t, stats.Days, 30)

	resp = ts.api.Get("/api/v1/stats/poems/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestStatsCalendarEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	resp := ts.api.Post("/api/v1/admin/poems",
		"Authorization: "+token,
		map[string]any{"title": "Luty", "body": "b", "created_at": "2024-02-10T12:00"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/stats/calendar?year=2024&month=2")
	require.Equal(t, http.StatusOK, resp.Code)
	cal := decode[CalendarResponse](t, resp.Body.Bytes())
	require.Len(t, cal.Days, 29)

	var published int64
	for _, d := range cal.Days {
		published += d.Count
	}
	assert.EqualValues(t, 1, published)

	// Whole year: only non-empty days.
	resp = ts.api.Get("/api/v1/stats/calendar?year=2024")
	require.Equal(t, http.StatusOK, resp.Code)
	cal = decode[CalendarResponse](t, resp.Body.Bytes())
	assert.Len(t, cal.Days, 1)

	// Out-of-range month.
	resp = ts.api.Get("/api/v1/stats/calendar?year=2024&month=13")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
