package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/errors"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
	"github.com/poezjaapp/poezja-server/internal/validation"
)

const (
	// maxUserAgentLength bounds the stored user agent string.
	maxUserAgentLength = 255

	topPoemsLimit  = 10
	overviewDays   = 7
	poemSeriesDays = 30
)

// StatsService records view events and serves the statistics
// projections built over them.
type StatsService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
	times     *timeutil.Converter
	hashSalt  string
}

// NewStatsService creates a new stats service.
// hashSalt is mixed into visitor IP hashes; empty is allowed.
func NewStatsService(st *sqlite.Store, logger *slog.Logger, times *timeutil.Converter, hashSalt string) *StatsService {
	return &StatsService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
		times:     times,
		hashSalt:  hashSalt,
	}
}

// RecordViewRequest identifies the poem being viewed.
type RecordViewRequest struct {
	PoemID int64 `json:"poem_id" validate:"required,gt=0"`
}

// RecordView stores a view event for a poem. The visitor IP is never
// stored; it is hashed with a per-day component so the same visitor
// cannot be tracked across days.
func (s *StatsService) RecordView(ctx context.Context, req RecordViewRequest, ip, userAgent string) (*domain.PoemView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if len(userAgent) > maxUserAgentLength {
		userAgent = userAgent[:maxUserAgentLength]
	}

	v := &domain.PoemView{
		PoemID:    req.PoemID,
		ViewedAt:  s.times.NowStored(),
		IPHash:    s.hashIP(ip),
		UserAgent: userAgent,
	}

	if err := s.store.RecordView(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Debug("View recorded", "poem_id", v.PoemID)

	return v, nil
}

// hashIP derives the stored visitor hash: SHA-256 over the configured
// salt, the IP and the current local date.
func (s *StatsService) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(s.hashSalt + ip + s.times.Today()))
	return hex.EncodeToString(sum[:])
}

// Overview returns site-wide totals, the top-10 most viewed poems and
// a dense 7-day view series ending today.
func (s *StatsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	totalPoems, err := s.store.CountPoems(ctx)
	if err != nil {
		return nil, err
	}

	totalTags, err := s.store.CountTags(ctx)
	if err != nil {
		return nil, err
	}

	totalViews, err := s.store.CountViews(ctx)
	if err != nil {
		return nil, err
	}

	today := s.times.NowUTC().Truncate(24 * time.Hour)
	viewsToday, err := s.store.CountViewsOnDay(ctx, today.Format(timeutil.DateFormat))
	if err != nil {
		return nil, err
	}

	top, err := s.store.TopViewedPoems(ctx, topPoemsLimit)
	if err != nil {
		return nil, err
	}

	from := today.AddDate(0, 0, -(overviewDays - 1))
	counts, err := s.store.ViewCountsSince(ctx, from.Format(timeutil.DateFormat))
	if err != nil {
		return nil, err
	}

	overview := &domain.StatsOverview{
		TotalPoems: totalPoems,
		TotalTags:  totalTags,
		TotalViews: totalViews,
		ViewsToday: viewsToday,
		TopPoems:   make([]domain.Poem, len(top)),
		LastWeek:   denseSeries(from, overviewDays, counts),
	}
	for i, p := range top {
		overview.TopPoems[i] = *p
	}

	return overview, nil
}

// PoemStats returns the total view count for one poem and a dense
// 30-day series ending today.
func (s *StatsService) PoemStats(ctx context.Context, poemID int64) (*domain.PoemStats, error) {
	// Resolve the poem first so an unknown ID is a not-found, not an
	// all-zero series.
	if _, err := s.store.GetPoemByID(ctx, poemID); err != nil {
		return nil, err
	}

	total, err := s.store.GetPoemViewCount(ctx, poemID)
	if err != nil {
		return nil, err
	}

	today := s.times.NowUTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(poemSeriesDays - 1))
	counts, err := s.store.ViewCountsByDay(ctx, poemID, from.Format(timeutil.DateFormat))
	if err != nil {
		return nil, err
	}

	return &domain.PoemStats{
		PoemID:     poemID,
		TotalViews: total,
		Days:       denseSeries(from, poemSeriesDays, counts),
	}, nil
}

// Calendar returns the publication calendar. With a month (1-12) the
// result covers every day of that month, empty days included; with
// month 0 it covers the whole year, listing only days with poems.
func (s *StatsService) Calendar(ctx context.Context, year, month int) ([]domain.CalendarDay, error) {
	if year < 1 || year > 9999 {
		return nil, errors.Validationf("invalid year %d", year)
	}
	if month < 0 || month > 12 {
		return nil, errors.Validationf("invalid month %d", month)
	}

	prefix := fmt.Sprintf("%04d", year)
	if month > 0 {
		prefix = fmt.Sprintf("%04d-%02d", year, month)
	}

	poems, err := s.store.ListPoemsCreatedInMonth(ctx, prefix)
	if err != nil {
		return nil, err
	}

	byDay := map[string]*domain.CalendarDay{}
	for _, p := range poems {
		day := p.CreatedAt
		if len(day) > 10 {
			day = day[:10]
		}
		entry, ok := byDay[day]
		if !ok {
			entry = &domain.CalendarDay{Date: day}
			byDay[day] = entry
		}
		entry.Count++
		entry.Titles = append(entry.Titles, p.Title)
		entry.Slugs = append(entry.Slugs, p.Slug)
	}

	var days []domain.CalendarDay
	if month > 0 {
		viewCounts, err := s.store.MonthViewCounts(ctx, prefix)
		if err != nil {
			return nil, err
		}
		viewsByDay := make(map[string]int64, len(viewCounts))
		for _, dc := range viewCounts {
			viewsByDay[dc.Date] = dc.Count
		}

		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		total := first.AddDate(0, 1, -1).Day()
		days = make([]domain.CalendarDay, 0, total)
		for d := 0; d < total; d++ {
			date := first.AddDate(0, 0, d).Format(timeutil.DateFormat)
			if entry, ok := byDay[date]; ok {
				entry.Views = viewsByDay[date]
				days = append(days, *entry)
			} else {
				days = append(days, domain.CalendarDay{Date: date, Titles: []string{}, Slugs: []string{}, Views: viewsByDay[date]})
			}
		}
		return days, nil
	}

	// Whole year: poems are already sorted by created_at, so walking
	// them preserves day order.
	days = []domain.CalendarDay{}
	seen := map[string]bool{}
	for _, p := range poems {
		day := p.CreatedAt
		if len(day) > 10 {
			day = day[:10]
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, *byDay[day])
	}
	return days, nil
}

// denseSeries fills a contiguous run of days starting at from with the
// sparse counts, zeroes elsewhere.
func denseSeries(from time.Time, days int, counts []domain.DayCount) []domain.DayCount {
	byDate := make(map[string]int64, len(counts))
	for _, dc := range counts {
		byDate[dc.Date] = dc.Count
	}

	series := make([]domain.DayCount, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format(timeutil.DateFormat)
		series[i] = domain.DayCount{Date: date, Count: byDate[date]}
	}
	return series
}
