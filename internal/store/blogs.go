package store

import (
	"context"
	"database/sql"
	"fmt"

	"nigaran-engine/internal/domain"
)

type Blogs struct{ db *DB }

func (d *DB) Blogs() *Blogs { return &Blogs{db: d} }

const blogCols = `id, title, excerpt, content, image_url, category, created_at`

func scanBlog(sc interface{ Scan(...any) error }) (domain.Blog, error) {
	var (
		b       domain.Blog
		created string
	)
	if err := sc.Scan(&b.ID, &b.Title, &b.Excerpt, &b.Content, &b.ImageURL, &b.Category, &created); err != nil {
		return domain.Blog{}, err
	}
	b.CreatedAt = parseTime(created)
	return b, nil
}

func (s *Blogs) Insert(ctx context.Context, b domain.Blog) error {
	_, err := s.db.exec(ctx, `
INSERT INTO blogs(`+blogCols+`)
VALUES(?,?,?,?,?,?,?);`,
		b.ID, b.Title, b.Excerpt, b.Content, b.ImageURL, b.Category, formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

func (s *Blogs) Get(ctx context.Context, id string) (domain.Blog, error) {
	b, err := scanBlog(s.db.queryRow(ctx, `SELECT `+blogCols+` FROM blogs WHERE id = ? LIMIT 1;`, id))
	if err == sql.ErrNoRows {
		return domain.Blog{}, ErrNotFound
	}
	return b, err
}

func (s *Blogs) List(ctx context.Context) ([]domain.Blog, error) {
	rows, err := s.db.query(ctx, `SELECT `+blogCols+` FROM blogs ORDER BY created_at ASC, id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Blogs) Replace(ctx context.Context, b domain.Blog) error {
	res, err := s.db.exec(ctx, `
UPDATE blogs
SET title = ?, excerpt = ?, content = ?, image_url = ?, category = ?
WHERE id = ?;`,
		b.Title, b.Excerpt, b.Content, b.ImageURL, b.Category, b.ID)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	return mustAffect(res)
}

// Delete reports whether a row was removed.
func (s *Blogs) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.exec(ctx, `DELETE FROM blogs WHERE id = ?;`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Blogs) Count(ctx context.Context) (int, error) { return s.db.count(ctx, "blogs") }
