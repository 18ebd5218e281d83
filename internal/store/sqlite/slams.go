package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store"
)

// slamColumns is the ordered list of columns selected in slam queries.
// Must match the scan order in scanSlam.
const slamColumns = `id, slug, title, happened_on`

// scanSlam scans a sql.Row (or sql.Rows via its Scan method) into a domain.Slam.
// Poems are left nil; the caller attaches them if needed.
func scanSlam(scanner interface{ Scan(dest ...any) error }) (*domain.Slam, error) {
	var sl domain.Slam

	err := scanner.Scan(
		&sl.ID,
		&sl.Slug,
		&sl.Title,
		&sl.HappenedOn,
	)
	if err != nil {
		return nil, err
	}

	return &sl, nil
}

// loadSlamPoems loads a slam's set list ordered by position.
func (s *Store) loadSlamPoems(ctx context.Context, slamID int64) ([]domain.SlamPoem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.slug, p.title, p.body, p.created_at, sp.position
		FROM slam_poems sp
		JOIN poems p ON p.id = sp.poem_id
		WHERE sp.slam_id = ?
		ORDER BY sp.position ASC`, slamID)
	if err != nil {
		return nil, fmt.Errorf("query slam_poems: %w", err)
	}
	defer rows.Close()

	poems := []domain.SlamPoem{}
	for rows.Next() {
		var sp domain.SlamPoem
		if err := rows.Scan(&sp.PoemID, &sp.Slug, &sp.Title, &sp.Body, &sp.CreatedAt, &sp.Position); err != nil {
			return nil, fmt.Errorf("scan slam_poem: %w", err)
		}
		poems = append(poems, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return poems, nil
}

// CreateSlam inserts a new slam and sets its generated ID.
func (s *Store) CreateSlam(ctx context.Context, sl *domain.Slam) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO slams (slug, title, happened_on)
		VALUES (?, ?, ?)`,
		sl.Slug,
		sl.Title,
		sl.HappenedOn,
	)
	if err != nil {
		return fmt.Errorf("insert slam: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("slam last insert id: %w", err)
	}
	sl.ID = id

	return nil
}

// GetSlamByID retrieves a slam with its ordered set list.
// Returns store.ErrNotFound if the slam does not exist.
func (s *Store) GetSlamByID(ctx context.Context, slamID int64) (*domain.Slam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+slamColumns+` FROM slams WHERE id = ?`, slamID)

	sl, err := scanSlam(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sl.Poems, err = s.loadSlamPoems(ctx, sl.ID)
	if err != nil {
		return nil, err
	}

	return sl, nil
}

// ListSlams returns all slams ordered by event date, newest first,
// each with its ordered set list.
func (s *Store) ListSlams(ctx context.Context) ([]*domain.Slam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+slamColumns+` FROM slams ORDER BY happened_on DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query slams: %w", err)
	}
	defer rows.Close()

	var slams []*domain.Slam
	for rows.Next() {
		sl, err := scanSlam(rows)
		if err != nil {
			return nil, err
		}
		slams = append(slams, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sl := range slams {
		sl.Poems, err = s.loadSlamPoems(ctx, sl.ID)
		if err != nil {
			return nil, err
		}
	}

	if slams == nil {
		slams = []*domain.Slam{}
	}

	return slams, nil
}

// UpdateSlam updates a slam's slug, title and event date.
// Returns store.ErrNotFound if the slam does not exist.
func (s *Store) UpdateSlam(ctx context.Context, sl *domain.Slam) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE slams SET slug = ?, title = ?, happened_on = ?
		WHERE id = ?`,
		sl.Slug,
		sl.Title,
		sl.HappenedOn,
		sl.ID,
	)
	if err != nil {
		return fmt.Errorf("update slam: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// DeleteSlam removes a slam and its set list. Poems themselves survive.
// Returns store.ErrNotFound if the slam does not exist.
func (s *Store) DeleteSlam(ctx context.Context, slamID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM slams WHERE id = ?`, slamID)
	if err != nil {
		return fmt.Errorf("delete slam: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// AppendPoemToSlam adds a poem to the end of a slam's set list.
// Appending a poem already on the list is a silent no-op.
// Returns store.ErrNotFound if the slam or poem does not exist.
func (s *Store) AppendPoemToSlam(ctx context.Context, slamID, poemID int64) error {
	if err := s.requireSlam(ctx, slamID); err != nil {
		return err
	}
	if err := s.requirePoem(ctx, poemID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO slam_poems (slam_id, poem_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM slam_poems WHERE slam_id = ?))`,
		slamID,
		poemID,
		slamID,
	)
	if err != nil {
		return fmt.Errorf("append slam_poem: %w", err)
	}

	return nil
}

// MovePoemInSlam swaps a poem with its neighbor in the set list.
// Moving past either end of the list is a silent no-op.
// Returns store.ErrNotFound if the slam does not exist or the poem
// is not on its list.
func (s *Store) MovePoemInSlam(ctx context.Context, slamID, poemID int64, direction domain.MoveDirection) error {
	if err := s.requireSlam(ctx, slamID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx, `
		SELECT position FROM slam_poems
		WHERE slam_id = ? AND poem_id = ?`, slamID, poemID).Scan(&current)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query position: %w", err)
	}

	// Nearest neighbor in the requested direction.
	var neighborQuery string
	if direction == domain.MoveUp {
		neighborQuery = `
			SELECT poem_id, position FROM slam_poems
			WHERE slam_id = ? AND position < ?
			ORDER BY position DESC LIMIT 1`
	} else {
		neighborQuery = `
			SELECT poem_id, position FROM slam_poems
			WHERE slam_id = ? AND position > ?
			ORDER BY position ASC LIMIT 1`
	}

	var neighborID int64
	var neighborPos int
	err = tx.QueryRowContext(ctx, neighborQuery, slamID, current).Scan(&neighborID, &neighborPos)
	if err == sql.ErrNoRows {
		// Already at the boundary.
		return nil
	}
	if err != nil {
		return fmt.Errorf("query neighbor: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE slam_poems SET position = ?
		WHERE slam_id = ? AND poem_id = ?`, current, slamID, neighborID); err != nil {
		return fmt.Errorf("move neighbor: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE slam_poems SET position = ?
		WHERE slam_id = ? AND poem_id = ?`, neighborPos, slamID, poemID); err != nil {
		return fmt.Errorf("move poem: %w", err)
	}

	return tx.Commit()
}

// RemovePoemFromSlam removes a poem from a slam's set list and
// renumbers the survivors 1..N so positions stay dense.
// Returns store.ErrNotFound if the slam does not exist or the poem
// is not on its list.
func (s *Store) RemovePoemFromSlam(ctx context.Context, slamID, poemID int64) error {
	if err := s.requireSlam(ctx, slamID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM slam_poems WHERE slam_id = ? AND poem_id = ?`, slamID, poemID)
	if err != nil {
		return fmt.Errorf("delete slam_poem: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if err := renumberSlam(ctx, tx, slamID); err != nil {
		return err
	}

	return tx.Commit()
}

// renumberSlam rewrites a slam's set list positions to 1..N in their
// current order. Runs inside the caller's transaction.
func renumberSlam(ctx context.Context, tx *sql.Tx, slamID int64) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT poem_id FROM slam_poems
		WHERE slam_id = ? ORDER BY position ASC`, slamID)
	if err != nil {
		return fmt.Errorf("query survivors: %w", err)
	}

	var survivors []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan survivor: %w", err)
		}
		survivors = append(survivors, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for i, id := range survivors {
		if _, err := tx.ExecContext(ctx, `
			UPDATE slam_poems SET position = ?
			WHERE slam_id = ? AND poem_id = ?`, i+1, slamID, id); err != nil {
			return fmt.Errorf("renumber slam_poem: %w", err)
		}
	}

	return nil
}

// slamsWithPoems returns the distinct slams whose set lists contain any
// of the given poems. Runs inside the caller's transaction.
func slamsWithPoems(ctx context.Context, tx *sql.Tx, poemIDs []int64) ([]int64, error) {
	if len(poemIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(poemIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(poemIDs))
	for i, id := range poemIDs {
		args[i] = id
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT slam_id FROM slam_poems WHERE poem_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query affected slams: %w", err)
	}
	defer rows.Close()

	var slamIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan slam id: %w", err)
		}
		slamIDs = append(slamIDs, id)
	}
	return slamIDs, rows.Err()
}

// requireSlam returns store.ErrNotFound unless the slam exists.
func (s *Store) requireSlam(ctx context.Context, slamID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM slams WHERE id = ?`, slamID).Scan(&one)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	return err
}

// requirePoem returns store.ErrNotFound unless the poem exists.
func (s *Store) requirePoem(ctx context.Context, poemID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM poems WHERE id = ?`, poemID).Scan(&one)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	return err
}
