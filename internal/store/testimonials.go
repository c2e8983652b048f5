package store

import (
	"context"
	"database/sql"
	"fmt"

	"nigaran-engine/internal/domain"
)

// Testimonials have no timestamp; seq preserves insertion order.
type Testimonials struct{ db *DB }

func (d *DB) Testimonials() *Testimonials { return &Testimonials{db: d} }

const testimonialCols = `id, name, role, content, image_url, youtube_url`

func scanTestimonial(sc interface{ Scan(...any) error }) (domain.Testimonial, error) {
	var (
		t  domain.Testimonial
		yt sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.Name, &t.Role, &t.Content, &t.ImageURL, &yt); err != nil {
		return domain.Testimonial{}, err
	}
	t.YoutubeURL = stringPtr(yt)
	return t, nil
}

func (s *Testimonials) Insert(ctx context.Context, t domain.Testimonial) error {
	_, err := s.db.exec(ctx, `
INSERT INTO testimonials(id, seq, name, role, content, image_url, youtube_url)
VALUES(?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM testimonials), ?, ?, ?, ?, ?);`,
		t.ID, t.Name, t.Role, t.Content, t.ImageURL, nullString(t.YoutubeURL))
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}

func (s *Testimonials) Get(ctx context.Context, id string) (domain.Testimonial, error) {
	t, err := scanTestimonial(s.db.queryRow(ctx, `SELECT `+testimonialCols+` FROM testimonials WHERE id = ? LIMIT 1;`, id))
	if err == sql.ErrNoRows {
		return domain.Testimonial{}, ErrNotFound
	}
	return t, err
}

func (s *Testimonials) List(ctx context.Context) ([]domain.Testimonial, error) {
	rows, err := s.db.query(ctx, `SELECT `+testimonialCols+` FROM testimonials ORDER BY seq ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Testimonials) Replace(ctx context.Context, t domain.Testimonial) error {
	res, err := s.db.exec(ctx, `
UPDATE testimonials
SET name = ?, role = ?, content = ?, image_url = ?, youtube_url = ?
WHERE id = ?;`,
		t.Name, t.Role, t.Content, t.ImageURL, nullString(t.YoutubeURL), t.ID)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return mustAffect(res)
}

// Delete reports whether a row was removed.
func (s *Testimonials) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.exec(ctx, `DELETE FROM testimonials WHERE id = ?;`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Testimonials) Count(ctx context.Context) (int, error) { return s.db.count(ctx, "testimonials") }
