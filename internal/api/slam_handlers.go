package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/service"
)

func (s *Server) registerSlamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSlams",
		Method:      http.MethodGet,
		Path:        "/api/v1/slams",
		Summary:     "List slams",
		Description: "Returns all slams newest-first, each with its ordered set list",
		Tags:        []string{"Slams"},
	}, s.handleListSlams)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSlam",
		Method:      http.MethodGet,
		Path:        "/api/v1/slams/{id}",
		Summary:     "Get slam",
		Tags:        []string{"Slams"},
	}, s.handleGetSlam)

	huma.Register(s.api, huma.Operation{
		OperationID: "createSlam",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/slams",
		Summary:     "Record slam",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateSlam)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSlam",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/slams/{id}",
		Summary:     "Update slam",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSlam)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSlam",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/slams/{id}",
		Summary:     "Delete slam",
		Description: "Removes the slam; poems on its list survive",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSlam)

	huma.Register(s.api, huma.Operation{
		OperationID: "appendSlamPoem",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/slams/{id}/poems",
		Summary:     "Append poem to slam",
		Description: "Adds a poem at the end of the set list; re-adding is a no-op",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAppendSlamPoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveSlamPoem",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/slams/{id}/poems/{poemID}/move",
		Summary:     "Move poem within slam",
		Description: "Swaps the poem with its neighbor; moving past either end is a no-op",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMoveSlamPoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeSlamPoem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/slams/{id}/poems/{poemID}",
		Summary:     "Remove poem from slam",
		Description: "Takes the poem off the set list and compacts positions",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveSlamPoem)
}

// === DTOs ===

// SlamPoemResponse is one entry of a slam's ordered set list.
type SlamPoemResponse struct {
	ID       int64  `json:"id" doc:"Poem ID"`
	Slug     string `json:"slug" doc:"Poem slug"`
	Title    string `json:"title" doc:"Poem title"`
	Position int    `json:"position" doc:"1-based position on the list"`
}

// SlamResponse contains slam data in API responses.
type SlamResponse struct {
	ID         int64              `json:"id" doc:"Slam ID"`
	Slug       string             `json:"slug" doc:"URL-safe slug"`
	Title      string             `json:"title" doc:"Event title"`
	HappenedOn string             `json:"happened_on" doc:"Event date YYYY-MM-DD"`
	Poems      []SlamPoemResponse `json:"poems" doc:"Ordered set list"`
}

// ListSlamsResponse contains a list of slams.
type ListSlamsResponse struct {
	Slams []SlamResponse `json:"slams" doc:"Slams newest-first"`
}

// ListSlamsOutput wraps the slam list for Huma.
type ListSlamsOutput struct {
	Body ListSlamsResponse
}

// GetSlamInput contains parameters for getting a slam.
type GetSlamInput struct {
	ID int64 `path:"id" doc:"Slam ID"`
}

// SlamOutput wraps a single slam for Huma.
type SlamOutput struct {
	Body SlamResponse
}

// CreateSlamInput wraps the create slam request for Huma.
type CreateSlamInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateSlamRequest
}

// UpdateSlamInput wraps the update slam request for Huma.
type UpdateSlamInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Slam ID"`
	Body          service.UpdateSlamRequest
}

// DeleteSlamInput contains parameters for deleting a slam.
type DeleteSlamInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Slam ID"`
}

// AppendSlamPoemRequest names the poem to append.
type AppendSlamPoemRequest struct {
	PoemID int64 `json:"poem_id" doc:"Poem to append"`
}

// AppendSlamPoemInput wraps the append request for Huma.
type AppendSlamPoemInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Slam ID"`
	Body          AppendSlamPoemRequest
}

// MoveSlamPoemRequest says which way to move the poem.
type MoveSlamPoemRequest struct {
	Direction string `json:"direction" doc:"up or down"`
}

// MoveSlamPoemInput wraps the move request for Huma.
type MoveSlamPoemInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Slam ID"`
	PoemID        int64  `path:"poemID" doc:"Poem ID"`
	Body          MoveSlamPoemRequest
}

// RemoveSlamPoemInput contains parameters for removing a poem.
type RemoveSlamPoemInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Slam ID"`
	PoemID        int64  `path:"poemID" doc:"Poem ID"`
}

func toSlamResponse(sl *domain.Slam) SlamResponse {
	poems := make([]SlamPoemResponse, len(sl.Poems))
	for i, sp := range sl.Poems {
		poems[i] = SlamPoemResponse{
			ID:       sp.PoemID,
			Slug:     sp.Slug,
			Title:    sp.Title,
			Position: sp.Position,
		}
	}
	return SlamResponse{
		ID:         sl.ID,
		Slug:       sl.Slug,
		Title:      sl.Title,
		HappenedOn: sl.HappenedOn,
		Poems:      poems,
	}
}

// === Handlers ===

func (s *Server) handleListSlams(ctx context.Context, _ *struct{}) (*ListSlamsOutput, error) {
	slams, err := s.services.Slam.ListSlams(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]SlamResponse, len(slams))
	for i, sl := range slams {
		resp[i] = toSlamResponse(sl)
	}

	return &ListSlamsOutput{Body: ListSlamsResponse{Slams: resp}}, nil
}

func (s *Server) handleGetSlam(ctx context.Context, input *GetSlamInput) (*SlamOutput, error) {
	sl, err := s.services.Slam.GetSlam(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SlamOutput{Body: toSlamResponse(sl)}, nil
}

func (s *Server) handleCreateSlam(ctx context.Context, input *CreateSlamInput) (*SlamOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sl, err := s.services.Slam.CreateSlam(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &SlamOutput{Body: toSlamResponse(sl)}, nil
}

func (s *Server) handleUpdateSlam(ctx context.Context, input *UpdateSlamInput) (*SlamOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sl, err := s.services.Slam.UpdateSlam(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &SlamOutput{Body: toSlamResponse(sl)}, nil
}

func (s *Server) handleDeleteSlam(ctx context.Context, input *DeleteSlamInput) (*MessageOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Slam.DeleteSlam(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Slam deleted"}}, nil
}

func (s *Server) handleAppendSlamPoem(ctx context.Context, input *AppendSlamPoemInput) (*SlamOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sl, err := s.services.Slam.AppendPoem(ctx, input.ID, input.Body.PoemID)
	if err != nil {
		return nil, err
	}
	return &SlamOutput{Body: toSlamResponse(sl)}, nil
}

func (s *Server) handleMoveSlamPoem(ctx context.Context, input *MoveSlamPoemInput) (*SlamOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sl, err := s.services.Slam.MovePoem(ctx, input.ID, input.PoemID, domain.MoveDirection(input.Body.Direction))
	if err != nil {
		return nil, err
	}
	return &SlamOutput{Body: toSlamResponse(sl)}, nil
}

func (s *Server) handleRemoveSlamPoem(ctx context.Context, input *RemoveSlamPoemInput) (*SlamOutput, error) {
	if err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sl, err := s.services.Slam.RemovePoem(ctx, input.ID, input.PoemID)
	if err != nil {
		return nil, err
	}
	return &SlamOutput{Body: toSlamResponse(sl)}, nil
}
