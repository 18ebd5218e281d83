package domain

// PoemView is one recorded view event. Append-only; rows are never updated
// or deleted. IPHash is a salted-by-day SHA-256, not reversible to the raw IP.
type PoemView struct {
	ID        int64  `json:"id"`
	PoemID    int64  `json:"poem_id"`
	ViewedAt  string `json:"viewed_at"`
	IPHash    string `json:"-"`
	UserAgent string `json:"-"`
}

// DayCount is a per-day aggregate used by view and publication statistics.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"views"`
}

// CalendarDay is one day of the publication calendar: how many poems were
// published and which ones.
type CalendarDay struct {
	Date   string   `json:"date"`
	Count  int64    `json:"count"`
	Titles []string `json:"titles"`
	Slugs  []string `json:"slugs"`
	// Views recorded that day across all poems. Only populated in
	// month mode; the year calendar is publication-only.
	Views int64 `json:"views"`
}

// StatsOverview is the site-wide statistics summary.
type StatsOverview struct {
	TotalPoems int64      `json:"total_poems"`
	TotalTags  int64      `json:"total_tags"`
	TotalViews int64      `json:"total_views"`
	ViewsToday int64      `json:"views_today"`
	TopPoems   []Poem     `json:"top_poems"`
	LastWeek   []DayCount `json:"last_week"`
}

// PoemStats is the per-poem view statistics: the total plus a dense
// series covering the last 30 days.
type PoemStats struct {
	PoemID     int64      `json:"poem_id"`
	TotalViews int64      `json:"total_views"`
	Days       []DayCount `json:"days"`
}
