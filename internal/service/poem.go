// Package service orchestrates domain operations over the store.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/errors"
	"github.com/poezjaapp/poezja-server/internal/slug"
	"github.com/poezjaapp/poezja-server/internal/store"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
	"github.com/poezjaapp/poezja-server/internal/validation"
)

// PoemService orchestrates poem CRUD, tag normalization and listings.
type PoemService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
	times     *timeutil.Converter
}

// NewPoemService creates a new poem service.
func NewPoemService(st *sqlite.Store, logger *slog.Logger, times *timeutil.Converter) *PoemService {
	return &PoemService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
		times:     times,
	}
}

// CreatePoemRequest contains fields for publishing a poem.
type CreatePoemRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	Body  string `json:"body" validate:"required"`
	// CreatedAt is local wall time (YYYY-MM-DDTHH:MM); empty means now.
	CreatedAt string `json:"created_at,omitempty"`
	// Tags is a raw comma-separated list.
	Tags string `json:"tags,omitempty"`
}

// UpdatePoemRequest contains optional field updates for a poem.
// Nil fields are left untouched.
type UpdatePoemRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Body      *string `json:"body,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
	Tags      *string `json:"tags,omitempty"`
}

// CreatePoem publishes a new poem and normalizes its tags.
func (s *PoemService) CreatePoem(ctx context.Context, req CreatePoemRequest) (*domain.Poem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p := &domain.Poem{
		Slug:      slug.WithFallback(req.Title, slug.PrefixPoem),
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: s.times.ToStored(req.CreatedAt),
	}

	if err := s.store.CreatePoem(ctx, p); err != nil {
		return nil, err
	}

	if err := s.normalizeTags(ctx, p.ID, req.Tags); err != nil {
		return nil, err
	}

	s.logger.Info("Poem published", "id", p.ID, "slug", p.Slug)

	return s.store.GetPoemByID(ctx, p.ID)
}

// UpdatePoem applies field-level updates to a poem.
// Changing the title regenerates the slug.
func (s *PoemService) UpdatePoem(ctx context.Context, poemID int64, req UpdatePoemRequest) (*domain.Poem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.GetPoemByID(ctx, poemID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
		p.Slug = slug.WithFallback(p.Title, slug.PrefixPoem)
	}
	if req.Body != nil {
		p.Body = *req.Body
	}
	if req.CreatedAt != nil {
		p.CreatedAt = s.times.ToStored(*req.CreatedAt)
	}

	if err := s.store.UpdatePoem(ctx, p); err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.normalizeTags(ctx, p.ID, *req.Tags); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Poem updated", "id", p.ID)

	return s.store.GetPoemByID(ctx, poemID)
}

// GetPoem returns one poem with tags and view count.
func (s *PoemService) GetPoem(ctx context.Context, poemID int64) (*domain.Poem, error) {
	return s.store.GetPoemByID(ctx, poemID)
}

// DeletePoem removes a poem and everything hanging off it.
func (s *PoemService) DeletePoem(ctx context.Context, poemID int64) error {
	if err := s.store.DeletePoem(ctx, poemID); err != nil {
		return err
	}
	s.logger.Info("Poem deleted", "id", poemID)
	return nil
}

// DeletePoems removes a batch of poems, skipping unknown IDs.
// Returns the number actually deleted.
func (s *PoemService) DeletePoems(ctx context.Context, poemIDs []int64) (int64, error) {
	deleted, err := s.store.DeletePoems(ctx, poemIDs)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Poems bulk-deleted", "requested", len(poemIDs), "deleted", deleted)
	return deleted, nil
}

// ListPoems returns poems matching the filters.
// An unknown sort mode falls back to newest.
func (s *PoemService) ListPoems(ctx context.Context, opts store.PoemListOptions) ([]*domain.Poem, error) {
	if !opts.Sort.Valid() {
		opts.Sort = store.SortNewest
	}
	return s.store.ListPoems(ctx, opts)
}

// ListTags returns the tag vocabulary with poem counts.
func (s *PoemService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// BulkTag attaches one tag to a batch of poems, creating the tag if
// needed. Unknown poem IDs are skipped. Returns the tag and the number
// of new associations.
func (s *PoemService) BulkTag(ctx context.Context, tagName string, poemIDs []int64) (*domain.Tag, int64, error) {
	name := strings.TrimSpace(tagName)
	if name == "" {
		return nil, 0, errors.Validation("tag name is required")
	}

	tag, _, err := s.store.FindOrCreateTag(ctx, name, slug.WithFallback(name, slug.PrefixTag))
	if err != nil {
		return nil, 0, err
	}

	added, err := s.store.AddTagToPoems(ctx, tag.ID, poemIDs)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("Poems bulk-tagged", "tag", tag.Slug, "added", added)

	return tag, added, nil
}

// BulkUntag strips one tag from a batch of poems. Poems that never had
// the tag are skipped. Returns the tag and the number of associations
// removed.
func (s *PoemService) BulkUntag(ctx context.Context, tagName string, poemIDs []int64) (*domain.Tag, int64, error) {
	name := strings.TrimSpace(tagName)
	if name == "" {
		return nil, 0, errors.Validation("tag name is required")
	}

	tag, err := s.store.GetTagBySlug(ctx, slug.WithFallback(name, slug.PrefixTag))
	if err != nil {
		return nil, 0, err
	}

	removed, err := s.store.RemoveTagFromPoems(ctx, tag.ID, poemIDs)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("Poems bulk-untagged", "tag", tag.Slug, "removed", removed)

	return tag, removed, nil
}

// normalizeTags fully replaces a poem's tag set from a raw
// comma-separated string. An empty or whitespace string clears all
// tags. Names collapsing to the same slug yield one association; the
// first spelling encountered wins as the display name.
func (s *PoemService) normalizeTags(ctx context.Context, poemID int64, raw string) error {
	var tagIDs []int64

	seen := map[string]bool{}
	for _, piece := range strings.Split(raw, ",") {
		name := strings.TrimSpace(piece)
		if name == "" {
			continue
		}

		tagSlug := slug.WithFallback(name, slug.PrefixTag)
		if seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true

		tag, _, err := s.store.FindOrCreateTag(ctx, name, tagSlug)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	return s.store.SetPoemTags(ctx, poemID, tagIDs)
}
