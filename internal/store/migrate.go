package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type migration struct {
	version int
	stmts   func(d Dialect) []string
}

func blobType(d Dialect) string {
	if d == Postgres {
		return "BYTEA"
	}
	return "BLOB"
}

var migrations = []migration{
	{version: 1, stmts: func(d Dialect) []string {
		return []string{
			`CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  whatsapp_number VARCHAR(15) NOT NULL,
  electricity_bill INTEGER NOT NULL,
  city TEXT NOT NULL,
  company_name TEXT,
  type TEXT NOT NULL CHECK (type IN ('residential','housing_society','commercial')),
  created_at TEXT NOT NULL
);`,
			`CREATE TABLE IF NOT EXISTS testimonials (
  id TEXT PRIMARY KEY,
  seq INTEGER NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  content TEXT NOT NULL,
  image_url TEXT NOT NULL,
  youtube_url TEXT
);`,
			`CREATE TABLE IF NOT EXISTS blogs (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  excerpt TEXT NOT NULL,
  content TEXT NOT NULL,
  image_url TEXT NOT NULL,
  category TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
			`CREATE TABLE IF NOT EXISTS careers (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('Full-Time','Part-Time','Internship')),
  location TEXT NOT NULL,
  description TEXT NOT NULL,
  requirements TEXT NOT NULL,
  salary TEXT,
  apply_url TEXT,
  created_at TEXT NOT NULL
);`,
			`CREATE TABLE IF NOT EXISTS job_applications (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone VARCHAR(15) NOT NULL,
  resume_url TEXT NOT NULL,
  cover_letter TEXT,
  career_id TEXT NOT NULL REFERENCES careers(id),
  created_at TEXT NOT NULL
);`,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS resume_files (
  key TEXT PRIMARY KEY,
  file_name TEXT NOT NULL,
  content_type TEXT NOT NULL,
  bytes %s NOT NULL,
  uploaded_at TEXT NOT NULL
);`, blobType(d)),
			`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);`,
			`CREATE INDEX IF NOT EXISTS idx_blogs_created_at ON blogs(created_at);`,
			`CREATE INDEX IF NOT EXISTS idx_careers_created_at ON careers(created_at);`,
			`CREATE INDEX IF NOT EXISTS idx_job_applications_created_at ON job_applications(created_at);`,
			`CREATE INDEX IF NOT EXISTS idx_job_applications_career_id ON job_applications(career_id);`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_testimonials_seq ON testimonials(seq);`,
		}
	}},
}

// Migrate brings the schema up to the latest version inside one transaction.
func (d *DB) Migrate(ctx context.Context) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	err = tx.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1;`).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version(version) VALUES (0);`); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	applied := current
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		for _, stmt := range m.stmts(d.Dialect) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration v%d: %w", m.version, err)
			}
		}
		applied = m.version
	}

	if applied != current {
		if _, err := tx.ExecContext(ctx, d.Rebind(`UPDATE schema_version SET version = ?;`), applied); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if applied != current {
		d.log.Info("schema migrated", zap.Int("from", current), zap.Int("to", applied))
	}
	return nil
}

// Version reports the applied schema version.
func (d *DB) Version(ctx context.Context) (int, error) {
	var v int
	err := d.queryRow(ctx, `SELECT version FROM schema_version LIMIT 1;`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}
