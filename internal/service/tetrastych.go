package service

import (
	"context"
	"log/slog"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
	"github.com/poezjaapp/poezja-server/internal/validation"
)

// TetrastychService orchestrates the daily four-line poems.
type TetrastychService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
	times     *timeutil.Converter
}

// NewTetrastychService creates a new tetrastych service.
func NewTetrastychService(st *sqlite.Store, logger *slog.Logger, times *timeutil.Converter) *TetrastychService {
	return &TetrastychService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
		times:     times,
	}
}

// CreateTetrastychRequest contains fields for publishing a tetrastych.
type CreateTetrastychRequest struct {
	Body string `json:"body" validate:"required"`
	// PublishedOn is a local date (YYYY-MM-DD); empty means today.
	PublishedOn string `json:"published_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTetrastychRequest contains optional field updates.
type UpdateTetrastychRequest struct {
	Body        *string `json:"body,omitempty"`
	PublishedOn *string `json:"published_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreateTetrastych publishes a new tetrastych.
func (s *TetrastychService) CreateTetrastych(ctx context.Context, req CreateTetrastychRequest) (*domain.Tetrastych, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	publishedOn := req.PublishedOn
	if publishedOn == "" {
		publishedOn = s.times.Today()
	}

	t := &domain.Tetrastych{
		PublishedOn: publishedOn,
		Body:        req.Body,
	}

	if err := s.store.CreateTetrastych(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Tetrastych published", "id", t.ID, "published_on", t.PublishedOn)

	return t, nil
}

// UpdateTetrastych applies field-level updates to a tetrastych.
func (s *TetrastychService) UpdateTetrastych(ctx context.Context, tetrastychID int64, req UpdateTetrastychRequest) (*domain.Tetrastych, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.store.GetTetrastychByID(ctx, tetrastychID)
	if err != nil {
		return nil, err
	}

	if req.Body != nil {
		t.Body = *req.Body
	}
	if req.PublishedOn != nil && *req.PublishedOn != "" {
		t.PublishedOn = *req.PublishedOn
	}

	if err := s.store.UpdateTetrastych(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Tetrastych updated", "id", t.ID)

	return t, nil
}

// GetTetrastych returns one tetrastych.
func (s *TetrastychService) GetTetrastych(ctx context.Context, tetrastychID int64) (*domain.Tetrastych, error) {
	return s.store.GetTetrastychByID(ctx, tetrastychID)
}

// ListTetrastychs returns all tetrastychs, newest first.
func (s *TetrastychService) ListTetrastychs(ctx context.Context) ([]*domain.Tetrastych, error) {
	return s.store.ListTetrastychs(ctx)
}

// DeleteTetrastych removes a tetrastych.
func (s *TetrastychService) DeleteTetrastych(ctx context.Context, tetrastychID int64) error {
	if err := s.store.DeleteTetrastych(ctx, tetrastychID); err != nil {
		return err
	}
	s.logger.Info("Tetrastych deleted", "id", tetrastychID)
	return nil
}
