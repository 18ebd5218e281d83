package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store"
)

// poemColumns is the ordered list of columns selected in poem queries.
// Must match the scan order in scanPoem.
const poemColumns = `id, slug, title, body, created_at`

// scanPoem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Poem.
// Tags and ViewCount are left zero; the caller attaches them if needed.
func scanPoem(scanner interface{ Scan(dest ...any) error }) (*domain.Poem, error) {
	var p domain.Poem

	err := scanner.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Body,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePoem inserts a new poem and sets its generated ID.
func (s *Store) CreatePoem(ctx context.Context, p *domain.Poem) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO poems (slug, title, body, created_at)
		VALUES (?, ?, ?, ?)`,
		p.Slug,
		p.Title,
		p.Body,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert poem: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("poem last insert id: %w", err)
	}
	p.ID = id

	return nil
}

// GetPoemByID retrieves a poem with its tags and view count.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) GetPoemByID(ctx context.Context, poemID int64) (*domain.Poem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poemColumns+` FROM poems WHERE id = ?`, poemID)

	p, err := scanPoem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachPoemProjections(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdatePoem updates a poem's slug, title, body and creation timestamp.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) UpdatePoem(ctx context.Context, p *domain.Poem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE poems SET slug = ?, title = ?, body = ?, created_at = ?
		WHERE id = ?`,
		p.Slug,
		p.Title,
		p.Body,
		p.CreatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update poem: %w", err)
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

// DeletePoem removes a poem. Tag associations, slam entries and view
// events cascade away with it; affected slam set lists are renumbered
// back to dense 1..N positions in the same transaction.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) DeletePoem(ctx context.Context, poemID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	slamIDs, err := slamsWithPoems(ctx, tx, []int64{poemID})
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM poems WHERE id = ?`, poemID)
	if err != nil {
		return fmt.Errorf("delete poem: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	for _, slamID := range slamIDs {
		if err := renumberSlam(ctx, tx, slamID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeletePoems removes a set of poems in one transaction, renumbering
// any slam set lists they appeared on.
// Unknown IDs are skipped. Returns the number of poems actually deleted.
func (s *Store) DeletePoems(ctx context.Context, poemIDs []int64) (int64, error) {
	if len(poemIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	slamIDs, err := slamsWithPoems(ctx, tx, poemIDs)
	if err != nil {
		return 0, err
	}

	placeholders := strings.Repeat("?,", len(poemIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(poemIDs))
	for i, id := range poemIDs {
		args[i] = id
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM poems WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete poems: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	for _, slamID := range slamIDs {
		if err := renumberSlam(ctx, tx, slamID); err != nil {
			return 0, err
		}
	}

	return affected, tx.Commit()
}

// ListPoems returns poems matching the options, with tags and view
// counts attached.
func (s *Store) ListPoems(ctx context.Context, opts store.PoemListOptions) ([]*domain.Poem, error) {
	query := `
		SELECT p.id, p.slug, p.title, p.body, p.created_at, COUNT(pv.id) AS view_count
		FROM poems p
		LEFT JOIN poem_views pv ON pv.poem_id = p.id`

	var args []any

	if opts.TagSlug != "" {
		query += `
		JOIN poem_tags pt ON pt.poem_id = p.id
		JOIN tags t ON t.id = pt.tag_id AND t.slug = ?`
		args = append(args, opts.TagSlug)
	}

	if opts.Search != "" {
		query += `
		WHERE (p.title LIKE ? OR p.body LIKE ?)`
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += `
		GROUP BY p.id
		ORDER BY ` + poemOrderClause(opts.Sort)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query poems: %w", err)
	}
	defer rows.Close()

	var poems []*domain.Poem
	for rows.Next() {
		var p domain.Poem
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.CreatedAt, &p.ViewCount); err != nil {
			return nil, fmt.Errorf("scan poem: %w", err)
		}
		poems = append(poems, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range poems {
		tags, err := s.GetPoemTags(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Tags = tags
	}

	if poems == nil {
		poems = []*domain.Poem{}
	}

	return poems, nil
}

// CountPoems returns the total number of published poems.
func (s *Store) CountPoems(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poems`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count poems: %w", err)
	}
	return count, nil
}

// ListPoemsCreatedInMonth returns poems whose creation timestamp falls
// in the given month (prefix YYYY-MM), oldest first. Bodies are not
// loaded; the calendar only needs titles and slugs.
func (s *Store) ListPoemsCreatedInMonth(ctx context.Context, monthPrefix string) ([]*domain.Poem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, created_at
		FROM poems
		WHERE created_at LIKE ? || '%'
		ORDER BY created_at ASC, id ASC`, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("query poems in month: %w", err)
	}
	defer rows.Close()

	poems := []*domain.Poem{}
	for rows.Next() {
		var p domain.Poem
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan poem: %w", err)
		}
		poems = append(poems, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return poems, nil
}

// poemOrderClause maps a sort mode to its ORDER BY clause.
// Ties in the popular sort break toward newer poems.
func poemOrderClause(sort store.PoemSort) string {
	switch sort {
	case store.SortOldest:
		return `p.created_at ASC, p.id ASC`
	case store.SortAZ:
		return `p.title COLLATE NOCASE ASC`
	case store.SortZA:
		return `p.title COLLATE NOCASE DESC`
	case store.SortPopular:
		return `view_count DESC, p.created_at DESC`
	default:
		return `p.created_at DESC, p.id DESC`
	}
}

// attachPoemProjections loads the tags and view count for a single poem.
func (s *Store) attachPoemProjections(ctx context.Context, p *domain.Poem) error {
	tags, err := s.GetPoemTags(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Tags = tags

	count, err := s.GetPoemViewCount(ctx, p.ID)
	if err != nil {
		return err
	}
	p.ViewCount = count

	return nil
}
