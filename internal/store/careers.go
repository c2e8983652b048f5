package store

import (
	"context"
	"database/sql"
	"fmt"

	"nigaran-engine/internal/domain"
)

type Careers struct{ db *DB }

func (d *DB) Careers() *Careers { return &Careers{db: d} }

const careerCols = `id, title, type, location, description, requirements, salary, apply_url, created_at`

func scanCareer(sc interface{ Scan(...any) error }) (domain.Career, error) {
	var (
		c        domain.Career
		typ      string
		salary   sql.NullString
		applyURL sql.NullString
		created  string
	)
	if err := sc.Scan(&c.ID, &c.Title, &typ, &c.Location, &c.Description, &c.Requirements, &salary, &applyURL, &created); err != nil {
		return domain.Career{}, err
	}
	c.Type = domain.EmploymentType(typ)
	c.Salary = stringPtr(salary)
	c.ApplyURL = stringPtr(applyURL)
	c.CreatedAt = parseTime(created)
	return c, nil
}

func (s *Careers) Insert(ctx context.Context, c domain.Career) error {
	_, err := s.db.exec(ctx, `
INSERT INTO careers(`+careerCols+`)
VALUES(?,?,?,?,?,?,?,?,?);`,
		c.ID, c.Title, string(c.Type), c.Location, c.Description, c.Requirements,
		nullString(c.Salary), nullString(c.ApplyURL), formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert career: %w", err)
	}
	return nil
}

func (s *Careers) Get(ctx context.Context, id string) (domain.Career, error) {
	c, err := scanCareer(s.db.queryRow(ctx, `SELECT `+careerCols+` FROM careers WHERE id = ? LIMIT 1;`, id))
	if err == sql.ErrNoRows {
		return domain.Career{}, ErrNotFound
	}
	return c, err
}

func (s *Careers) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.queryRow(ctx, `SELECT 1 FROM careers WHERE id = ? LIMIT 1;`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (s *Careers) List(ctx context.Context) ([]domain.Career, error) {
	rows, err := s.db.query(ctx, `SELECT `+careerCols+` FROM careers ORDER BY created_at ASC, id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Career{}
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Careers) Replace(ctx context.Context, c domain.Career) error {
	res, err := s.db.exec(ctx, `
UPDATE careers
SET title = ?, type = ?, location = ?, description = ?, requirements = ?, salary = ?, apply_url = ?
WHERE id = ?;`,
		c.Title, string(c.Type), c.Location, c.Description, c.Requirements,
		nullString(c.Salary), nullString(c.ApplyURL), c.ID)
	if err != nil {
		return fmt.Errorf("update career: %w", err)
	}
	return mustAffect(res)
}

// Delete reports whether a row was removed. A career that still has job
// applications is kept and ErrInUse returned.
func (s *Careers) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.exec(ctx, `DELETE FROM careers WHERE id = ?;`, id)
	if isForeignKeyViolation(err) {
		return false, fmt.Errorf("delete career %s: %w", id, ErrInUse)
	}
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Careers) Count(ctx context.Context) (int, error) { return s.db.count(ctx, "careers") }
