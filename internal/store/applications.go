package store

import (
	"context"
	"database/sql"
	"fmt"

	"nigaran-engine/internal/domain"
)

type Applications struct{ db *DB }

func (d *DB) Applications() *Applications { return &Applications{db: d} }

const applicationCols = `id, name, email, phone, resume_url, cover_letter, career_id, created_at`

func scanApplication(sc interface{ Scan(...any) error }, extra ...any) (domain.JobApplication, error) {
	var (
		a       domain.JobApplication
		cover   sql.NullString
		created string
	)
	dest := append([]any{&a.ID, &a.Name, &a.Email, &a.Phone, &a.ResumeURL, &cover, &a.CareerID, &created}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return domain.JobApplication{}, err
	}
	a.CoverLetter = stringPtr(cover)
	a.CreatedAt = parseTime(created)
	return a, nil
}

func (s *Applications) Insert(ctx context.Context, a domain.JobApplication) error {
	_, err := s.db.exec(ctx, `
INSERT INTO job_applications(`+applicationCols+`)
VALUES(?,?,?,?,?,?,?,?);`,
		a.ID, a.Name, a.Email, a.Phone, a.ResumeURL, nullString(a.CoverLetter), a.CareerID, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert job application: %w", err)
	}
	return nil
}

func (s *Applications) Get(ctx context.Context, id string) (domain.JobApplication, error) {
	a, err := scanApplication(s.db.queryRow(ctx, `SELECT `+applicationCols+` FROM job_applications WHERE id = ? LIMIT 1;`, id))
	if err == sql.ErrNoRows {
		return domain.JobApplication{}, ErrNotFound
	}
	return a, err
}

func (s *Applications) List(ctx context.Context) ([]domain.JobApplication, error) {
	rows, err := s.db.query(ctx, `SELECT `+applicationCols+` FROM job_applications ORDER BY created_at ASC, id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.JobApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListViews joins each application with its career title; a dangling
// career id yields an empty title.
func (s *Applications) ListViews(ctx context.Context) ([]domain.ApplicationView, error) {
	rows, err := s.db.query(ctx, `
SELECT a.id, a.name, a.email, a.phone, a.resume_url, a.cover_letter, a.career_id, a.created_at,
       COALESCE(c.title, '')
FROM job_applications a
LEFT JOIN careers c ON c.id = a.career_id
ORDER BY a.created_at ASC, a.id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ApplicationView{}
	for rows.Next() {
		var title string
		a, err := scanApplication(rows, &title)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ApplicationView{JobApplication: a, CareerTitle: title})
	}
	return out, rows.Err()
}

func (s *Applications) Replace(ctx context.Context, a domain.JobApplication) error {
	res, err := s.db.exec(ctx, `
UPDATE job_applications
SET name = ?, email = ?, phone = ?, resume_url = ?, cover_letter = ?, career_id = ?
WHERE id = ?;`,
		a.Name, a.Email, a.Phone, a.ResumeURL, nullString(a.CoverLetter), a.CareerID, a.ID)
	if err != nil {
		return fmt.Errorf("update job application: %w", err)
	}
	return mustAffect(res)
}

// Delete reports whether a row was removed.
func (s *Applications) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.exec(ctx, `DELETE FROM job_applications WHERE id = ?;`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Applications) Count(ctx context.Context) (int, error) {
	return s.db.count(ctx, "job_applications")
}
