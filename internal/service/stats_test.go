package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/errors"
	"github.com/poezjaapp/poezja-server/internal/store"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
)

func newTestStatsService(t *testing.T) (*StatsService, *sqlite.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewStatsService(st, testLogger(), testConverter(), "pepper"), st
}

func TestRecordView(t *testing.T) {
	svc, st := newTestStatsService(t)
	ctx := context.Background()

	p := seedPoem(t, st, "a")

	v, err := svc.RecordView(ctx, RecordViewRequest{PoemID: p.ID}, "192.0.2.1", "TestBrowser/1.0")
	require.NoError(t, err)

	assert.Equal(t, "2024-06-15T14:30:00Z", v.ViewedAt)
	assert.Len(t, v.IPHash, 64)
	assert.NotContains(t, v.IPHash, "192.0.2.1")

	count, err := st.GetPoemViewCount(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRecordView_UnknownPoem(t *testing.T) {
	svc, _ := newTestStatsService(t)

	_, err := svc.RecordView(context.Background(), RecordViewRequest{PoemID: 9999}, "ip", "ua")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordView_MissingPoemID(t *testing.T) {
	svc, _ := newTestStatsService(t)

	_, err := svc.RecordView(context.Background(), RecordViewRequest{}, "ip", "ua")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestRecordView_TruncatesUserAgent(t *testing.T) {
	svc, st := newTestStatsService(t)
	ctx := context.Background()

	p := seedPoem(t, st, "a")

	v, err := svc.RecordView(ctx, RecordViewRequest{PoemID: p.ID}, "ip", strings.Repeat("x", 1000))
	require.NoError(t, err)
	assert.Len(t, v.UserAgent, maxUserAgentLength)
}

func TestHashIP(t *testing.T) {
	svc, _ := newTestStatsService(t)

	// Deterministic within a day.
	assert.Equal(t, svc.hashIP("192.0.2.1"), svc.hashIP("192.0.2.1"))
	// Different visitors get different hashes.
	assert.NotEqual(t, svc.hashIP("192.0.2.1"), svc.hashIP("192.0.2.2"))

	// A different salt changes the hash for the same visitor.
	other := NewStatsService(newTestStore(t), testLogger(), testConverter(), "other")
	assert.NotEqual(t, svc.hashIP("192.0.2.1"), other.hashIP("192.0.2.1"))
}

func TestOverview(t *testing.T) {
	svc, st := newTestStatsService(t)
	ctx := context.Background()

	a := seedPoem(t, st, "a")
	b := seedPoem(t, st, "b")
	seedPoem(t, st, "never-viewed")

	seedView(t, st, a.ID, "2024-06-15T10:00:00Z")
	seedView(t, st, a.ID, "2024-06-14T10:00:00Z")
	seedView(t, st, b.ID, "2024-06-01T10:00:00Z")

	_, _, err := st.FindOrCreateTag(ctx, "miłość", "milosc")
	require.NoError(t, err)
	_, _, err = st.FindOrCreateTag(ctx, "osierocony", "osierocony")
	require.NoError(t, err)

	ov, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, ov.TotalPoems)
	// Zero-count tags still belong to the vocabulary.
	assert.EqualValues(t, 2, ov.TotalTags)
	assert.EqualValues(t, 3, ov.TotalViews)
	assert.EqualValues(t, 1, ov.ViewsToday)

	// Never-viewed poems stay out of the ranking.
	require.Len(t, ov.TopPoems, 2)
	assert.Equal(t, a.ID, ov.TopPoems[0].ID)
	assert.EqualValues(t, 2, ov.TopPoems[0].ViewCount)

	// Dense week ending today; the June 1 view is outside the window.
	require.Len(t, ov.LastWeek, 7)
	assert.Equal(t, "2024-06-09", ov.LastWeek[0].Date)
	assert.Equal(t, "2024-06-15", ov.LastWeek[6].Date)
	var weekTotal int64
	for _, d := range ov.LastWeek {
		weekTotal += d.Count
	}
	assert.EqualValues(t, 2, weekTotal)
}

func TestPoemStats(t *testing.T) {
	svc, st := newTestStatsService(t)
	ctx := context.Background()

	p := seedPoem(t, st, "a")
	seedView(t, st, p.ID, "2024-06-15T10:00:00Z")
	seedView(t, st, p.ID, "2024-06-15T11:00:00Z")
	seedView(t, st, p.ID, "2024-01-01T10:00:00Z")

	stats, err := svc.PoemStats(ctx, p.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalViews)
	require.Len(t, stats.Days, 30)
	assert.Equal(t, "2024-05-17", stats.Days[0].Date)
	last := stats.Days[len(stats.Days)-1]
	assert.Equal(t, "2024-06-15", last.Date)
	assert.EqualValues(t, 2, last.Count)
}

func TestPoemStats_UnknownPoem(t *testing.T) {
	svc, _ := newTestStatsService(t)

	_, err := svc.PoemStats(context.Background(), 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCalendar_Month(t *testing.T) {
	svc, st := newTestStatsService(t)
	ctx := context.Background()

	first := seedPoemAt(t, st, "pierwszy", "2024-02-10T08:00:00Z")
	seedPoemAt(t, st, "drugi", "2024-02-10T20:00:00Z")
	seedPoemAt(t, st, "inny", "2024-03-01T08:00:00Z")

	seedView(t, st, first.ID, "2024-02-10T09:00:00Z")
	seedView(t, st, first.ID, "2024-02-14T09:00:00Z")
	seedView(t, st, first.ID, "2024-03-02T09:00:00Z")

	days, err := svc.Calendar(ctx, 2024, 2)
	require.NoError(t, err)

	// Leap February, every day present.
	require.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0].Date)
	assert.Zero(t, days[0].Count)
	assert.NotNil(t, days[0].Titles)

	tenth := days[9]
	assert.Equal(t, "2024-02-10", tenth.Date)
	assert.EqualValues(t, 2, tenth.Count)
	assert.Equal(t, []string{"pierwszy", "drugi"}, tenth.Titles)
	assert.EqualValues(t, 1, tenth.Views)

	// Views land on their day even when nothing was published then;
	// the March view stays out of February.
	assert.EqualValues(t, 1, days[13].Views)
	assert.Zero(t, days[28].Views)
}

func TestCalendar_Year(t *testing.T) {
	svc, st := newTestStatsService(t)
	ctx := context.Background()

	seedPoemAt(t, st, "luty", "2024-02-10T08:00:00Z")
	seedPoemAt(t, st, "marzec", "2024-03-01T08:00:00Z")
	seedPoemAt(t, st, "zeszly-rok", "2023-12-31T08:00:00Z")

	days, err := svc.Calendar(ctx, 2024, 0)
	require.NoError(t, err)

	// Only days with poems, in date order.
	require.Len(t, days, 2)
	assert.Equal(t, "2024-02-10", days[0].Date)
	assert.Equal(t, "2024-03-01", days[1].Date)
}

func TestCalendar_BadInput(t *testing.T) {
	svc, _ := newTestStatsService(t)
	ctx := context.Background()

	_, err := svc.Calendar(ctx, 0, 1)
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = svc.Calendar(ctx, 2024, 13)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func seedView(t *testing.T, st *sqlite.Store, poemID int64, viewedAt string) {
	t.Helper()
	v := &domain.PoemView{PoemID: poemID, ViewedAt: viewedAt, IPHash: "h"}
	require.NoError(t, st.RecordView(context.Background(), v))
}

func seedPoemAt(t *testing.T, st *sqlite.Store, title, createdAt string) *domain.Poem {
	t.Helper()
	p := &domain.Poem{Slug: title, Title: title, Body: "b", CreatedAt: createdAt}
	require.NoError(t, st.CreatePoem(context.Background(), p))
	return p
}
