package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poezjaapp/poezja-server/internal/domain"
	"github.com/poezjaapp/poezja-server/internal/store"
)

// tetrastychColumns is the ordered list of columns selected in tetrastych queries.
// Must match the scan order in scanTetrastych.
const tetrastychColumns = `id, published_on, body`

// scanTetrastych scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tetrastych.
func scanTetrastych(scanner interface{ Scan(dest ...any) error }) (*domain.Tetrastych, error) {
	var t domain.Tetrastych

	err := scanner.Scan(
		&t.ID,
		&t.PublishedOn,
		&t.Body,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTetrastych inserts a new tetrastych and sets its generated ID.
func (s *Store) CreateTetrastych(ctx context.Context, t *domain.Tetrastych) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tetrastychs (published_on, body)
		VALUES (?, ?)`,
		t.PublishedOn,
		t.Body,
	)
	if err != nil {
		return fmt.Errorf("insert tetrastych: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("tetrastych last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTetrastychByID retrieves a tetrastych by its ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetTetrastychByID(ctx context.Context, tetrastychID int64) (*domain.Tetrastych, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tetrastychColumns+` FROM tetrastychs WHERE id = ?`, tetrastychID)

	t, err := scanTetrastych(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTetrastychs returns all tetrastychs, newest first.
func (s *Store) ListTetrastychs(ctx context.Context) ([]*domain.Tetrastych, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tetrastychColumns+` FROM tetrastychs ORDER BY published_on DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query tetrastychs: %w", err)
	}
	defer rows.Close()

	var tetrastychs []*domain.Tetrastych
	for rows.Next() {
		t, err := scanTetrastych(rows)
		if err != nil {
			return nil, err
		}
		tetrastychs = append(tetrastychs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tetrastychs == nil {
		tetrastychs = []*domain.Tetrastych{}
	}

	return tetrastychs, nil
}

// UpdateTetrastych updates a tetrastych's publication date and body.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) UpdateTetrastych(ctx context.Context, t *domain.Tetrastych) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tetrastychs SET published_on = ?, body = ?
		WHERE id = ?`,
		t.PublishedOn,
		t.Body,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tetrastych: %w", err)
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

// DeleteTetrastych removes a tetrastych.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) DeleteTetrastych(ctx context.Context, tetrastychID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tetrastychs WHERE id = ?`, tetrastychID)
	if err != nil {
		return fmt.Errorf("delete tetrastych: %w", err)
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
