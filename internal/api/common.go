package api

import "github.com/poezjaapp/poezja-server/internal/domain"

// MessageResponse is a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        int64  `json:"id" doc:"Tag ID"`
	Name      string `json:"name" doc:"Display name, first spelling seen"`
	Slug      string `json:"slug" doc:"URL-safe slug"`
	PoemCount int64  `json:"poem_count" doc:"Number of poems carrying this tag"`
}

// PoemResponse contains poem data in API responses.
type PoemResponse struct {
	ID        int64         `json:"id" doc:"Poem ID"`
	Slug      string        `json:"slug" doc:"URL-safe slug"`
	Title     string        `json:"title" doc:"Title"`
	Body      string        `json:"body" doc:"Poem text"`
	CreatedAt string        `json:"created_at" doc:"Publication time, stored UTC"`
	Tags      []TagResponse `json:"tags" doc:"Tags sorted by name"`
	ViewCount int64         `json:"view_count" doc:"Total recorded views"`
}

func toTagResponse(t domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		PoemCount: t.PoemCount,
	}
}

func toPoemResponse(p *domain.Poem) PoemResponse {
	tags := make([]TagResponse, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = toTagResponse(t)
	}
	return PoemResponse{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		Tags:      tags,
		ViewCount: p.ViewCount,
	}
}
