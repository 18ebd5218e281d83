package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store"
)

func recordTestView(t *testing.T, s *Store, poemID int64, viewedAt string) {
	t.Helper()
	v := &domain.PoemView{
		PoemID:   poemID,
		ViewedAt: viewedAt,
		IPHash:   "deadbeef",
	}
	if err := s.RecordView(context.Background(), v); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
}

func TestRecordView(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestPoem(t, s, "Viewed", "2024-01-01T00:00:00Z")

	v := &domain.PoemView{
		PoemID:    p.ID,
		ViewedAt:  "2024-02-01T10:00:00Z",
		IPHash:    "abcd",
		UserAgent: "Mozilla/5.0",
	}
	if err := s.RecordView(ctx, v); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if v.ID == 0 {
		t.Error("expected generated ID")
	}

	count, err := s.GetPoemViewCount(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPoemViewCount: %v", err)
	}
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}
}

func TestRecordView_UnknownPoem(t *testing.T) {
	s := newTestStore(t)

	v := &domain.PoemView{PoemID: 9999, ViewedAt: "2024-02-01T10:00:00Z", IPHash: "x"}
	if err := s.RecordView(context.Background(), v); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Foreign keys must hold on every pooled connection, not just the one
// that opened the database; otherwise a missing poem gets an orphan
// view row on the unconfigured connections.
func TestRecordView_UnknownPoemAcrossPool(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := &domain.PoemView{PoemID: 424242, ViewedAt: "2024-02-01T10:00:00Z", IPHash: "x"}
			errs[i] = s.RecordView(ctx, v)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != store.ErrNotFound {
			t.Errorf("call %d: expected ErrNotFound, got %v", i, err)
		}
	}

	count, err := s.CountViews(ctx)
	if err != nil {
		t.Fatalf("CountViews: %v", err)
	}
	if count != 0 {
		t.Errorf("orphan view rows inserted: %d", count)
	}
}

func TestCountViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestPoem(t, s, "Viewed", "2024-01-01T00:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-01T10:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-02T10:00:00Z")

	total, err := s.CountViews(ctx)
	if err != nil {
		t.Fatalf("CountViews: %v", err)
	}
	if total != 2 {
		t.Errorf("total: got %d, want 2", total)
	}

	today, err := s.CountViewsOnDay(ctx, "2024-02-02")
	if err != nil {
		t.Fatalf("CountViewsOnDay: %v", err)
	}
	if today != 1 {
		t.Errorf("day count: got %d, want 1", today)
	}
}

func TestTopViewedPoems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	quiet := makeTestPoem(t, s, "Quiet", "2024-01-01T00:00:00Z")
	loud := makeTestPoem(t, s, "Loud", "2024-01-02T00:00:00Z")
	makeTestPoem(t, s, "Silent", "2024-01-03T00:00:00Z")

	recordTestView(t, s, quiet.ID, "2024-02-01T10:00:00Z")
	recordTestView(t, s, loud.ID, "2024-02-01T10:00:00Z")
	recordTestView(t, s, loud.ID, "2024-02-01T11:00:00Z")

	top, err := s.TopViewedPoems(ctx, 10)
	if err != nil {
		t.Fatalf("TopViewedPoems: %v", err)
	}
	// Never-viewed poems are not listed.
	if len(top) != 2 {
		t.Fatalf("expected 2 poems, got %d", len(top))
	}
	if top[0].ID != loud.ID || top[0].ViewCount != 2 {
		t.Errorf("top: got %+v", top[0])
	}
}

func TestViewCountsByDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestPoem(t, s, "Tracked", "2024-01-01T00:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-01T10:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-01T12:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-03T09:00:00Z")
	// Before the window, must be excluded.
	recordTestView(t, s, p.ID, "2024-01-15T09:00:00Z")

	counts, err := s.ViewCountsByDay(ctx, p.ID, "2024-02-01")
	if err != nil {
		t.Fatalf("ViewCountsByDay: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 days, got %d", len(counts))
	}
	if counts[0].Date != "2024-02-01" || counts[0].Count != 2 {
		t.Errorf("day 1: %+v", counts[0])
	}
	if counts[1].Date != "2024-02-03" || counts[1].Count != 1 {
		t.Errorf("day 2: %+v", counts[1])
	}
}

func TestMonthViewCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestPoem(t, s, "Tracked", "2024-01-01T00:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-10T10:00:00Z")
	recordTestView(t, s, p.ID, "2024-02-10T11:00:00Z")
	recordTestView(t, s, p.ID, "2024-03-01T10:00:00Z")

	counts, err := s.MonthViewCounts(ctx, "2024-02")
	if err != nil {
		t.Fatalf("MonthViewCounts: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected 1 day, got %d", len(counts))
	}
	if counts[0].Date != "2024-02-10" || counts[0].Count != 2 {
		t.Errorf("counts: %+v", counts[0])
	}
}
