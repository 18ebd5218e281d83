package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePoem_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/admin/poems", map[string]any{
		"title": "X",
		"body":  "b",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreatePoem_BadToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/admin/poems",
		"Authorization: Bearer garbage",
		map[string]any{"title": "X", "body": "b"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPoemCRUD(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	// Create.
	resp := ts.api.Post("/api/v1/admin/poems",
		"Authorization: "+token,
		map[string]any{
			"title": "Zażółć gęślą jaźń",
			"body":  "treść",
			"tags":  "miłość, natura",
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	created := decode[PoemResponse](t, resp.Body.Bytes())
	assert.Equal(t, "zazolc-gesla-jazn", created.Slug)
	assert.Len(t, created.Tags, 2)

	// Public read.
	resp = ts.api.Get("/api/v1/poems")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[ListPoemsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Poems, 1)

	// Patch the title; slug follows.
	resp = ts.api.Patch("/api/v1/admin/poems/1",
		"Authorization: "+token,
		map[string]any{"title": "Nowy tytuł"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decode[PoemResponse](t, resp.Body.Bytes())
	assert.Equal(t, "nowy-tytul", updated.Slug)
	assert.Equal(t, "treść", updated.Body)

	// Delete.
	resp = ts.api.Delete("/api/v1/admin/poems/1", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/poems/1")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreatePoem_ValidationError(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	resp := ts.api.Post("/api/v1/admin/poems",
		"Authorization: "+token,
		map[string]any{"body": "no title"})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestListPoems_Filters(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	for _, p := range []map[string]any{
		{"title": "Burza", "body": "wiatr i deszcz", "tags": "natura"},
		{"title": "Antygona", "body": "scena", "tags": "teatr"},
	} {
		resp := ts.api.Post("/api/v1/admin/poems", "Authorization: "+token, p)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/poems?tag=natura")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[ListPoemsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Poems, 1)
	assert.Equal(t, "Burza", list.Poems[0].Title)

	resp = ts.api.Get("/api/v1/poems?search=deszcz")
	list = decode[ListPoemsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Poems, 1)

	resp = ts.api.Get("/api/v1/poems?sort=az")
	list = decode[ListPoemsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Poems, 2)
	assert.Equal(t, "Antygona", list.Poems[0].Title)

	// Unknown tag filters to an empty list, not an error.
	resp = ts.api.Get("/api/v1/poems?tag=nie-ma")
	require.Equal(t, http.StatusOK, resp.Code)
	list = decode[ListPoemsResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Poems)
}

func TestBulkOperations(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	for _, title := range []string{"Jeden", "Dwa", "Trzy"} {
		resp := ts.api.Post("/api/v1/admin/poems",
			"Authorization: "+token,
			map[string]any{"title": title, "body": "b"})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	// Tag two of them.
	resp := ts.api.Post("/api/v1/admin/poems/bulk-tag",
		"Authorization: "+token,
		map[string]any{"ids": []int64{1, 2}, "name": "slam", "action": "add"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	tagged := decode[BulkTagResponse](t, resp.Body.Bytes())
	assert.EqualValues(t, 2, tagged.Affected)
	assert.Equal(t, "slam", tagged.Tag.Slug)

	// Remove from one.
	resp = ts.api.Post("/api/v1/admin/poems/bulk-tag",
		"Authorization: "+token,
		map[string]any{"ids": []int64{1}, "name": "slam", "action": "remove"})
	require.Equal(t, http.StatusOK, resp.Code)
	untagged := decode[BulkTagResponse](t, resp.Body.Bytes())
	assert.EqualValues(t, 1, untagged.Affected)

	// Unknown action.
	resp = ts.api.Post("/api/v1/admin/poems/bulk-tag",
		"Authorization: "+token,
		map[string]any{"ids": []int64{1}, "name": "slam", "action": "toggle"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Bulk delete skips unknown IDs.
	resp = ts.api.Post("/api/v1/admin/poems/bulk-delete",
		"Authorization: "+token,
		map[string]any{"ids": []int64{1, 3, 999}})
	require.Equal(t, http.StatusOK, resp.Code)
	deleted := decode[BulkDeleteResponse](t, resp.Body.Bytes())
	assert.EqualValues(t, 2, deleted.Deleted)
}

func TestListTags(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	resp := ts.api.Post("/api/v1/admin/poems",
		"Authorization: "+token,
		map[string]any{"title": "W", "body": "b", "tags": "morze"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[ListTagsResponse](t, resp.Body.Bytes())
	require.Len(t, tags.Tags, 1)
	assert.Equal(t, "morze", tags.Tags[0].Slug)
	assert.EqualValues(t, 1, tags.Tags[0].PoemCount)
}
