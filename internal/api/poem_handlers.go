package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/poezjaapp/poezja-server/internal/domain"
	domainerrors "github.com/poezjaapp/poezja-server/internal/errors"
	"github.com/poezjaapp/poezja-server/internal/service"
	"github.com/poezjaapp/poezja-server/internal/store"
)

func (s *Server) registerPoemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPoems",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems",
		Summary:     "List poems",
		Description: "Returns poems with tags and view counts, filterable and sortable",
		Tags:        []string{"Poems"},
	}, s.handleListPoems)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPoem",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/{id}",
		Summary:     "Get poem",
		Tags:        []string{"Poems"},
	}, s.handleGetPoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPoem",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/poems",
		Summary:     "Publish poem",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePoem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/poems/{id}",
		Summary:     "Update poem",
		Description: "Field-level updates; the tags field rewrites the whole tag set",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePoem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/poems/{id}",
		Summary:     "Delete poem",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkDeletePoems",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/poems/bulk-delete",
		Summary:     "Bulk delete poems",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkDeletePoems)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkTagPoems",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/poems/bulk-tag",
		Summary:     "Bulk tag poems",
		Description: "Adds or removes one tag across a batch of poems",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkTagPoems)
}

// === DTOs ===

// ListPoemsInput contains filters for listing poems.
type ListPoemsInput struct {
	Search string `query:"search" doc:"Substring match on title or body"`
	Tag    string `query:"tag" doc:"Tag slug filter"`
	Sort   string `query:"sort" doc:"newest, oldest, az, za or popular"`
}

// ListPoemsResponse contains a list of poems.
type ListPoemsResponse struct {
	Poems []PoemResponse `json:"poems" doc:"Matching poems"`
}

// ListPoemsOutput wraps the poem list for Huma.
type ListPoemsOutput struct {
	Body ListPoemsResponse
}

// GetPoemInput contains parameters for getting a poem.
type GetPoemInput struct {
	ID int64 `path:"id" doc:"Poem ID"`
}

// PoemOutput wraps a single poem for Huma.
type PoemOutput struct {
	Body PoemResponse
}

// CreatePoemInput wraps the create poem request for Huma.
type CreatePoemInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreatePoemRequest
}

// UpdatePoemInput wraps the update poem request for Huma.
type UpdatePoemInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Poem ID"`
	Body          service.UpdatePoemRequest
}

// DeletePoemInput contains parameters for deleting a poem.
type DeletePoemInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Poem ID"`
}

// BulkDeleteRequest names the poems to delete.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" doc:"Poem IDs; unknown IDs are skipped"`
}

// BulkDeleteInput wraps the bulk delete request for Huma.
type BulkDeleteInput struct {
	Authorization string `header:"Authorization"`
	Body          BulkDeleteRequest
}

// BulkDeleteResponse reports how many poems were deleted.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted" doc:"Number of poems actually deleted"`
}

// BulkDeleteOutput wraps the bulk delete response for Huma.
type BulkDeleteOutput struct {
	Body BulkDeleteResponse
}

// BulkTagRequest applies or removes one tag across poems.
type BulkTagRequest struct {
	IDs    []int64 `json:"ids" doc:"Poem IDs; unknown IDs are skipped"`
	Name   string  `json:"name" doc:"Tag name, created on first use"`
	Action string  `json:"action" doc:"add or remove"`
}

// BulkTagInput wraps the bulk tag request for Huma.
type BulkTagInput struct {
	Authorization string `header:"Authorization"`
	Body          BulkTagRequest
}

// BulkTagResponse reports the affected tag and association count.
type BulkTagResponse struct {
	Tag      TagResponse `json:"tag" doc:"The tag that was applied or removed"`
	Affected int64       `json:"affected" doc:"Number of associations changed"`
}

// BulkTagOutput wraps the bulk tag response for Huma.
type BulkTagOutput struct {
	Body BulkTagResponse
}

// === Handlers ===

func (s *Server) handleListPoems(ctx context.Context, input *ListPoemsInput) (*ListPoemsOutput, error) {
	poems, err := s.services.Poem.ListPoems(ctx, store.PoemListOptions{
		Search:  input.Search,
		TagSlug: input.Tag,
		Sort:    store.PoemSort(input.Sort),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]PoemResponse, len(poems))
	for i, p := range poems {
		resp[i] = toPoemResponse(p)
	}

	return &ListPoemsOutput{Body: ListPoemsResponse{Poems: resp}}, nil
}

func (s *Server) handleGetPoem(ctx context.Context, input *GetPoemInput) (*PoemOutput, error) {
	p, err := s.services.Poem.GetPoem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PoemOutput{Body: toPoemResponse(p)}, nil
}

func (s *Server) handleCreatePoem(ctx context.Context, input *CreatePoemInput) (*PoemOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Poem.CreatePoem(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &PoemOutput{Body: toPoemResponse(p)}, nil
}

func (s *Server) handleUpdatePoem(ctx context.Context, input *UpdatePoemInput) (*PoemOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Poem.UpdatePoem(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &PoemOutput{Body: toPoemResponse(p)}, nil
}

func (s *Server) handleDeletePoem(ctx context.Context, input *DeletePoemInput) (*MessageOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Poem.DeletePoem(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Poem deleted"}}, nil
}

func (s *Server) handleBulkDeletePoems(ctx context.Context, input *BulkDeleteInput) (*BulkDeleteOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	deleted, err := s.services.Poem.DeletePoems(ctx, input.Body.IDs)
	if err != nil {
		return nil, err
	}
	return &BulkDeleteOutput{Body: BulkDeleteResponse{Deleted: deleted}}, nil
}

func (s *Server) handleBulkTagPoems(ctx context.Context, input *BulkTagInput) (*BulkTagOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	var (
		tag      *domain.Tag
		affected int64
	)
	switch input.Body.Action {
	case "add":
		t, n, err := s.services.Poem.BulkTag(ctx, input.Body.Name, input.Body.IDs)
		if err != nil {
			return nil, err
		}
		tag, affected = t, n
	case "remove":
		t, n, err := s.services.Poem.BulkUntag(ctx, input.Body.Name, input.Body.IDs)
		if err != nil {
			return nil, err
		}
		tag, affected = t, n
	default:
		return nil, domainerrors.Validationf("invalid action %q", input.Body.Action)
	}

	return &BulkTagOutput{
		Body: BulkTagResponse{Tag: toTagResponse(*tag), Affected: affected},
	}, nil
}
