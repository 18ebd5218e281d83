package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/service"
)

func (s *Server) registerTetrastychRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTetrastychs",
		Method:      http.MethodGet,
		Path:        "/api/v1/tetrastychs",
		Summary:     "List tetrastychs",
		Description: "Returns all tetrastychs newest-first",
		Tags:        []string{"Tetrastychs"},
	}, s.handleListTetrastychs)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTetrastych",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/tetrastychs",
		Summary:     "Publish tetrastych",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTetrastych)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTetrastych",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/tetrastychs/{id}",
		Summary:     "Update tetrastych",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTetrastych)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTetrastych",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/tetrastychs/{id}",
		Summary:     "Delete tetrastych",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTetrastych)
}

// === DTOs ===

// TetrastychResponse contains tetrastych data in API responses.
type TetrastychResponse struct {
	ID          int64  `json:"id" doc:"Tetrastych ID"`
	PublishedOn string `json:"published_on" doc:"Publication date YYYY-MM-DD"`
	Body        string `json:"body" doc:"The four lines"`
}

// ListTetrastychsResponse contains a list of tetrastychs.
type ListTetrastychsResponse struct {
	Tetrastychs []TetrastychResponse `json:"tetrastychs" doc:"Newest first"`
}

// ListTetrastychsOutput wraps the list for Huma.
type ListTetrastychsOutput struct {
	Body ListTetrastychsResponse
}

// CreateTetrastychInput wraps the create request for Huma.
type CreateTetrastychInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateTetrastychRequest
}

// TetrastychOutput wraps a single tetrastych for Huma.
type TetrastychOutput struct {
	Body TetrastychResponse
}

// UpdateTetrastychInput wraps the update request for Huma.
type UpdateTetrastychInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Tetrastych ID"`
	Body          service.UpdateTetrastychRequest
}

// DeleteTetrastychInput contains parameters for deleting a tetrastych.
type DeleteTetrastychInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Tetrastych ID"`
}

func toTetrastychResponse(t *domain.Tetrastych) TetrastychResponse {
	return TetrastychResponse{
		ID:          t.ID,
		PublishedOn: t.PublishedOn,
		Body:        t.Body,
	}
}

// === Handlers ===

func (s *Server) handleListTetrastychs(ctx context.Context, _ *struct{}) (*ListTetrastychsOutput, error) {
	list, err := s.services.Tetrastych.ListTetrastychs(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TetrastychResponse, len(list))
	for i, t := range list {
		resp[i] = toTetrastychResponse(t)
	}

	return &ListTetrastychsOutput{Body: ListTetrastychsResponse{Tetrastychs: resp}}, nil
}

func (s *Server) handleCreateTetrastych(ctx context.Context, input *CreateTetrastychInput) (*TetrastychOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	t, err := s.services.Tetrastych.CreateTetrastych(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &TetrastychOutput{Body: toTetrastychResponse(t)}, nil
}

func (s *Server) handleUpdateTetrastych(ctx context.Context, input *UpdateTetrastychInput) (*TetrastychOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	t, err := s.services.Tetrastych.UpdateTetrastych(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TetrastychOutput{Body: toTetrastychResponse(t)}, nil
}

func (s *Server) handleDeleteTetrastych(ctx context.Context, input *DeleteTetrastychInput) (*MessageOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Tetrastych.DeleteTetrastych(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tetrastych deleted"}}, nil
}
