package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store"
)

// RecordView inserts a view event for a poem.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) RecordView(ctx context.Context, v *domain.PoemView) error {
	if err := s.requirePoem(ctx, v.PoemID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO poem_views (poem_id, viewed_at, ip_hash, user_agent)
		VALUES (?, ?, ?, ?)`,
		v.PoemID,
		v.ViewedAt,
		v.IPHash,
		v.UserAgent,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound
		}
		return fmt.Errorf("insert poem_view: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("poem_view last insert id: %w", err)
	}
	v.ID = id

	return nil
}

// GetPoemViewCount returns the total view count for one poem.
func (s *Store) GetPoemViewCount(ctx context.Context, poemID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM poem_views WHERE poem_id = ?`, poemID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count poem views: %w", err)
	}
	return count, nil
}

// CountViews returns the total number of recorded views.
func (s *Store) CountViews(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM poem_views`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return count, nil
}

// CountViewsOnDay returns the number of views recorded on a given
// day (YYYY-MM-DD, UTC).
func (s *Store) CountViewsOnDay(ctx context.Context, day string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM poem_views WHERE viewed_at LIKE ? || '%'`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count views on day: %w", err)
	}
	return count, nil
}

// TopViewedPoems returns the most-viewed poems, view counts attached.
// Poems that were never viewed are not included.
func (s *Store) TopViewedPoems(ctx context.Context, limit int) ([]*domain.Poem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.slug, p.title, COUNT(pv.id) AS view_count
		FROM poem_views pv
		JOIN poems p ON p.id = pv.poem_id
		GROUP BY p.id
		ORDER BY view_count DESC, p.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top poems: %w", err)
	}
	defer rows.Close()

	poems := []*domain.Poem{}
	for rows.Next() {
		var p domain.Poem
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.ViewCount); err != nil {
			return nil, fmt.Errorf("scan top poem: %w", err)
		}
		poems = append(poems, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return poems, nil
}

// ViewCountsByDay returns per-day view counts for a poem since the
// given day (YYYY-MM-DD, UTC), oldest first. Days with no views are
// absent; the caller fills gaps when it needs a dense series.
func (s *Store) ViewCountsByDay(ctx context.Context, poemID int64, fromDay string) ([]domain.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(viewed_at, 1, 10) AS day, COUNT(*) AS views
		FROM poem_views
		WHERE poem_id = ? AND viewed_at >= ? || 'T00:00:00Z'
		GROUP BY day
		ORDER BY day ASC`, poemID, fromDay)
	if err != nil {
		return nil, fmt.Errorf("query view counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.DayCount{}
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// ViewCountsSince returns per-day view counts across all poems since
// the given day (YYYY-MM-DD, UTC), oldest first.
func (s *Store) ViewCountsSince(ctx context.Context, fromDay string) ([]domain.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(viewed_at, 1, 10) AS day, COUNT(*) AS views
		FROM poem_views
		WHERE viewed_at >= ? || 'T00:00:00Z'
		GROUP BY day
		ORDER BY day ASC`, fromDay)
	if err != nil {
		return nil, fmt.Errorf("query view counts since: %w", err)
	}
	defer rows.Close()

	counts := []domain.DayCount{}
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// MonthViewCounts returns per-day view counts across all poems for a
// month (prefix YYYY-MM), oldest first.
func (s *Store) MonthViewCounts(ctx context.Context, monthPrefix string) ([]domain.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(viewed_at, 1, 10) AS day, COUNT(*) AS views
		FROM poem_views
		WHERE viewed_at LIKE ? || '%'
		GROUP BY day
		ORDER BY day ASC`, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("query month views: %w", err)
	}
	defer rows.Close()

	counts := []domain.DayCount{}
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
