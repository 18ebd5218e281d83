package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns the full tag vocabulary with poem counts, including orphans",
		Tags:        []string{"Tags"},
	}, s.handleListTags)
}

// ListTagsResponse contains the tag vocabulary.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"Tags sorted by name"`
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Poem.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(*t)
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}
