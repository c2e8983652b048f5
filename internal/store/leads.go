package store

import (
	"context"
	"database/sql"
	"fmt"

	"nigaran-engine/internal/domain"
)

type Leads struct{ db *DB }

func (d *DB) Leads() *Leads { return &Leads{db: d} }

const leadCols = `id, name, whatsapp_number, electricity_bill, city, company_name, type, created_at`

func scanLead(sc interface{ Scan(...any) error }) (domain.Lead, error) {
	var (
		l       domain.Lead
		company sql.NullString
		typ     string
		created string
	)
	if err := sc.Scan(&l.ID, &l.Name, &l.ContactNumber, &l.ElectricityBill, &l.City, &company, &typ, &created); err != nil {
		return domain.Lead{}, err
	}
	l.CompanyName = stringPtr(company)
	l.Category = domain.LeadCategory(typ)
	l.CreatedAt = parseTime(created)
	return l, nil
}

func (t *Leads) Insert(ctx context.Context, l domain.Lead) error {
	_, err := t.db.exec(ctx, `
INSERT INTO leads(`+leadCols+`)
VALUES(?,?,?,?,?,?,?,?);`,
		l.ID, l.Name, l.ContactNumber, l.ElectricityBill, l.City, nullString(l.CompanyName), string(l.Category), formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (t *Leads) Get(ctx context.Context, id string) (domain.Lead, error) {
	l, err := scanLead(t.db.queryRow(ctx, `SELECT `+leadCols+` FROM leads WHERE id = ? LIMIT 1;`, id))
	if err == sql.ErrNoRows {
		return domain.Lead{}, ErrNotFound
	}
	return l, err
}

func (t *Leads) List(ctx context.Context) ([]domain.Lead, error) {
	rows, err := t.db.query(ctx, `SELECT `+leadCols+` FROM leads ORDER BY created_at ASC, id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (t *Leads) Replace(ctx context.Context, l domain.Lead) error {
	res, err := t.db.exec(ctx, `
UPDATE leads
SET name = ?, whatsapp_number = ?, electricity_bill = ?, city = ?, company_name = ?, type = ?
WHERE id = ?;`,
		l.Name, l.ContactNumber, l.ElectricityBill, l.City, nullString(l.CompanyName), string(l.Category), l.ID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return mustAffect(res)
}

// Delete reports whether a row was removed.
func (t *Leads) Delete(ctx context.Context, id string) (bool, error) {
	res, err := t.db.exec(ctx, `DELETE FROM leads WHERE id = ?;`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (t *Leads) Count(ctx context.Context) (int, error) { return t.db.count(ctx, "leads") }
