package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/poezjaapp/poezja-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "statsOverview",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/overview",
		Summary:     "Site statistics overview",
		Description: "Totals, the ten most viewed poems and a 7-day view series",
		Tags:        []string{"Stats"},
	}, s.handleStatsOverview)

	huma.Register(s.api, huma.Operation{
		OperationID: "statsCalendar",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/calendar",
		Summary:     "Publication calendar",
		Description: "Per-day publication counts with titles and slugs",
		Tags:        []string{"Stats"},
	}, s.handleStatsCalendar)

	huma.Register(s.api, huma.Operation{
		OperationID: "statsPoem",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/poems/{id}",
		Summary:     "Per-poem view statistics",
		Description: "Total views and a 30-day series for one poem",
		Tags:        []string{"Stats"},
	}, s.handleStatsPoem)
}

// === DTOs ===

// DayCountResponse is one day of a view or publication series.
type DayCountResponse struct {
	Date  string `json:"date" doc:"Day YYYY-MM-DD"`
	Views int64  `json:"views" doc:"Count on that day"`
}

// OverviewResponse contains the site-wide statistics.
type OverviewResponse struct {
	TotalPoems int64              `json:"total_poems" doc:"Published poems"`
	TotalTags  int64              `json:"total_tags" doc:"Tag vocabulary size"`
	TotalViews int64              `json:"total_views" doc:"All recorded views"`
	ViewsToday int64              `json:"views_today" doc:"Views today, UTC day"`
	TopPoems   []PoemResponse     `json:"top_poems" doc:"Up to ten most viewed poems"`
	LastWeek   []DayCountResponse `json:"last_week" doc:"Dense 7-day series ending today"`
}

// OverviewOutput wraps the overview for Huma.
type OverviewOutput struct {
	Body OverviewResponse
}

// CalendarInput selects the calendar period.
type CalendarInput struct {
	Year  int `query:"year" doc:"Year"`
	Month int `query:"month" doc:"Month 1-12; 0 or absent for the whole year"`
}

// CalendarDayResponse is one day of the publication calendar.
type CalendarDayResponse struct {
	Date   string   `json:"date" doc:"Day YYYY-MM-DD"`
	Count  int64    `json:"count" doc:"Poems published"`
	Titles []string `json:"titles" doc:"Titles published that day"`
	Slugs  []string `json:"slugs" doc:"Slugs published that day"`
	Views  int64    `json:"views" doc:"Views recorded that day; month mode only"`
}

// CalendarResponse contains the calendar days.
type CalendarResponse struct {
	Days []CalendarDayResponse `json:"days" doc:"Every day of the month, or only non-empty days for a year"`
}

// CalendarOutput wraps the calendar for Huma.
type CalendarOutput struct {
	Body CalendarResponse
}

// PoemStatsInput identifies the poem.
type PoemStatsInput struct {
	ID int64 `path:"id" doc:"Poem ID"`
}

// PoemStatsResponse contains one poem's view statistics.
type PoemStatsResponse struct {
	PoemID     int64              `json:"poem_id" doc:"Poem ID"`
	TotalViews int64              `json:"total_views" doc:"All recorded views"`
	Days       []DayCountResponse `json:"days" doc:"Dense 30-day series ending today"`
}

// PoemStatsOutput wraps the per-poem stats for Huma.
type PoemStatsOutput struct {
	Body PoemStatsResponse
}

func toDayCounts(days []domain.DayCount) []DayCountResponse {
	resp := make([]DayCountResponse, len(days))
	for i, d := range days {
		resp[i] = DayCountResponse{Date: d.Date, Views: d.Count}
	}
	return resp
}

// === Handlers ===

func (s *Server) handleStatsOverview(ctx context.Context, _ *struct{}) (*OverviewOutput, error) {
	ov, err := s.services.Stats.Overview(ctx)
	if err != nil {
		return nil, err
	}

	top := make([]PoemResponse, len(ov.TopPoems))
	for i := range ov.TopPoems {
		top[i] = toPoemResponse(&ov.TopPoems[i])
	}

	return &OverviewOutput{
		Body: OverviewResponse{
			TotalPoems: ov.TotalPoems,
			TotalTags:  ov.TotalTags,
			TotalViews: ov.TotalViews,
			ViewsToday: ov.ViewsToday,
			TopPoems:   top,
			LastWeek:   toDayCounts(ov.LastWeek),
		},
	}, nil
}

func (s *Server) handleStatsCalendar(ctx context.Context, input *CalendarInput) (*CalendarOutput, error) {
	days, err := s.services.Stats.Calendar(ctx, input.Year, input.Month)
	if err != nil {
		return nil, err
	}

	resp := make([]CalendarDayResponse, len(days))
	for i, d := range days {
		resp[i] = CalendarDayResponse{
			Date:   d.Date,
			Count:  d.Count,
			Titles: d.Titles,
			Slugs:  d.Slugs,
			Views:  d.Views,
		}
	}

	return &CalendarOutput{Body: CalendarResponse{Days: resp}}, nil
}

func (s *Server) handleStatsPoem(ctx context.Context, input *PoemStatsInput) (*PoemStatsOutput, error) {
	stats, err := s.services.Stats.PoemStats(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PoemStatsOutput{
		Body: PoemStatsResponse{
			PoemID:     stats.PoemID,
			TotalViews: stats.TotalViews,
			Days:       toDayCounts(stats.Days),
		},
	}, nil
}
