package service

import (
	"context"
	"log/slog"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/errors"
	"github.com/poezjaapp/poezja-server/internal/slug"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/validation"
)

// SlamService orchestrates slam events and their ordered set lists.
type SlamService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewSlamService creates a new slam service.
func NewSlamService(st *sqlite.Store, logger *slog.Logger) *SlamService {
	return &SlamService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateSlamRequest contains fields for recording a slam event.
type CreateSlamRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=255"`
	HappenedOn string `json:"happened_on" validate:"required,datetime=2006-01-02"`
}

// UpdateSlamRequest contains optional field updates for a slam.
type UpdateSlamRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	HappenedOn *string `json:"happened_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// slamSlug derives a slam's slug from its title and event date.
func slamSlug(title, happenedOn string) string {
	return slug.WithFallback(title+"-"+happenedOn, slug.PrefixSlam)
}

// CreateSlam records a new slam event with an empty set list.
func (s *SlamService) CreateSlam(ctx context.Context, req CreateSlamRequest) (*domain.Slam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sl := &domain.Slam{
		Slug:       slamSlug(req.Title, req.HappenedOn),
		Title:      req.Title,
		HappenedOn: req.HappenedOn,
	}

	if err := s.store.CreateSlam(ctx, sl); err != nil {
		return nil, err
	}

	s.logger.Info("Slam recorded", "id", sl.ID, "slug", sl.Slug)

	return s.store.GetSlamByID(ctx, sl.ID)
}

// UpdateSlam applies field-level updates to a slam.
// Changing the title or date regenerates the slug.
func (s *SlamService) UpdateSlam(ctx context.Context, slamID int64, req UpdateSlamRequest) (*domain.Slam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sl, err := s.store.GetSlamByID(ctx, slamID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		sl.Title = *req.Title
	}
	if req.HappenedOn != nil {
		sl.HappenedOn = *req.HappenedOn
	}
	if req.Title != nil || req.HappenedOn != nil {
		sl.Slug = slamSlug(sl.Title, sl.HappenedOn)
	}

	if err := s.store.UpdateSlam(ctx, sl); err != nil {
		return nil, err
	}

	s.logger.Info("Slam updated", "id", sl.ID)

	return s.store.GetSlamByID(ctx, slamID)
}

// GetSlam returns one slam with its ordered set list.
func (s *SlamService) GetSlam(ctx context.Context, slamID int64) (*domain.Slam, error) {
	return s.store.GetSlamByID(ctx, slamID)
}

// ListSlams returns all slams, newest event first.
func (s *SlamService) ListSlams(ctx context.Context) ([]*domain.Slam, error) {
	return s.store.ListSlams(ctx)
}

// DeleteSlam removes a slam event. The poems on its list survive.
func (s *SlamService) DeleteSlam(ctx context.Context, slamID int64) error {
	if err := s.store.DeleteSlam(ctx, slamID); err != nil {
		return err
	}
	s.logger.Info("Slam deleted", "id", slamID)
	return nil
}

// AppendPoem adds a poem to the end of a slam's set list.
// Re-appending a listed poem is a silent no-op.
func (s *SlamService) AppendPoem(ctx context.Context, slamID, poemID int64) (*domain.Slam, error) {
	if err := s.store.AppendPoemToSlam(ctx, slamID, poemID); err != nil {
		return nil, err
	}
	return s.store.GetSlamByID(ctx, slamID)
}

// MovePoem swaps a poem with its neighbor in the set list.
// Moving past either end is a silent no-op.
func (s *SlamService) MovePoem(ctx context.Context, slamID, poemID int64, direction domain.MoveDirection) (*domain.Slam, error) {
	if !direction.Valid() {
		return nil, errors.Validationf("invalid direction %q", direction)
	}

	if err := s.store.MovePoemInSlam(ctx, slamID, poemID, direction); err != nil {
		return nil, err
	}
	return s.store.GetSlamByID(ctx, slamID)
}

// RemovePoem takes a poem off a slam's set list and compacts positions.
func (s *SlamService) RemovePoem(ctx context.Context, slamID, poemID int64) (*domain.Slam, error) {
	if err := s.store.RemovePoemFromSlam(ctx, slamID, poemID); err != nil {
		return nil, err
	}
	return s.store.GetSlamByID(ctx, slamID)
}
