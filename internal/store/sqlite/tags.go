package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, slug`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
// PoemCount is left as 0; the caller can compute it if needed.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag and sets its generated ID.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, slug)
		VALUES (?, ?)`,
		t.Name,
		t.Slug,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("tag last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTagBySlug retrieves a tag by its slug.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns the whole tag vocabulary with poem counts,
// ordered by name. Tags with no poems are included.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, COUNT(pt.poem_id) AS poem_count
		FROM tags t
		LEFT JOIN poem_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.PoemCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// CountTags returns the size of the tag vocabulary, zero-count tags included.
func (s *Store) CountTags(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}

// FindOrCreateTag finds an existing tag by slug or creates a new one
// with the given display name.
// Returns (tag, created, error) where created is true if a new tag was made.
func (s *Store) FindOrCreateTag(ctx context.Context, name, slug string) (*domain.Tag, bool, error) {
	// Try to find existing tag first.
	existing, err := s.GetTagBySlug(ctx, slug)
	if err == nil {
		return existing, false, nil
	}
	if err != store.ErrNotFound {
		return nil, false, err
	}

	t := &domain.Tag{
		Name: name,
		Slug: slug,
	}

	if err := s.CreateTag(ctx, t); err != nil {
		if err == store.ErrAlreadyExists {
			// Race condition: another goroutine created it.
			existing, err := s.GetTagBySlug(ctx, slug)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return t, true, nil
}

// SetPoemTags replaces all tags for a poem in a single transaction.
// It deletes existing poem_tags rows and inserts the new set.
// Duplicate tag IDs collapse to a single association.
func (s *Store) SetPoemTags(ctx context.Context, poemID int64, tagIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM poem_tags WHERE poem_id = ?`, poemID); err != nil {
		return fmt.Errorf("delete poem_tags: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO poem_tags (poem_id, tag_id)
			VALUES (?, ?)`,
			poemID,
			tagID,
		)
		if err != nil {
			return fmt.Errorf("insert poem_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetPoemTags returns the tags associated with a poem, ordered by name.
func (s *Store) GetPoemTags(ctx context.Context, poemID int64) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN poem_tags pt ON pt.tag_id = t.id
		WHERE pt.poem_id = ?
		ORDER BY t.name COLLATE NOCASE ASC`, poemID)
	if err != nil {
		return nil, fmt.Errorf("query poem_tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan poem_tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return tags, nil
}

// AddTagToPoems attaches a tag to each listed poem in one statement.
// Unknown poem IDs and poems already carrying the tag are skipped.
// Returns the number of new associations made.
func (s *Store) AddTagToPoems(ctx context.Context, tagID int64, poemIDs []int64) (int64, error) {
	if len(poemIDs) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(poemIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(poemIDs)+1)
	args = append(args, tagID)
	for _, id := range poemIDs {
		args = append(args, id)
	}

	// Selecting from poems filters out IDs that don't exist.
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO poem_tags (poem_id, tag_id)
		SELECT id, ? FROM poems WHERE id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return 0, fmt.Errorf("insert poem_tags: %w", err)
	}

	return res.RowsAffected()
}

// RemoveTagFromPoems detaches a tag from each listed poem.
// Poems not carrying the tag are skipped.
// Returns the number of associations removed.
func (s *Store) RemoveTagFromPoems(ctx context.Context, tagID int64, poemIDs []int64) (int64, error) {
	if len(poemIDs) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(poemIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(poemIDs)+1)
	args = append(args, tagID)
	for _, id := range poemIDs {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM poem_tags WHERE tag_id = ? AND poem_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return 0, fmt.Errorf("delete poem_tags: %w", err)
	}

	return res.RowsAffected()
}
