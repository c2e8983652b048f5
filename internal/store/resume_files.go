package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ResumeFile struct {
	Key         string
	FileName    string
	ContentType string
	Bytes       []byte
	UploadedAt  time.Time
}

// ResumeFiles keeps uploaded resumes as blobs next to the records that
// reference them.
type ResumeFiles struct{ db *DB }

func (d *DB) ResumeFiles() *ResumeFiles { return &ResumeFiles{db: d} }

// Put stores f, replacing any blob already stored under the same key.
func (s *ResumeFiles) Put(ctx context.Context, f ResumeFile) error {
	_, err := s.db.exec(ctx, `
INSERT INTO resume_files(key, file_name, content_type, bytes, uploaded_at)
VALUES(?,?,?,?,?)
ON CONFLICT(key) DO UPDATE SET
  file_name = excluded.file_name,
  content_type = excluded.content_type,
  bytes = excluded.bytes,
  uploaded_at = excluded.uploaded_at;`,
		f.Key, f.FileName, f.ContentType, f.Bytes, formatTime(f.UploadedAt))
	if err != nil {
		return fmt.Errorf("insert resume file: %w", err)
	}
	return nil
}

func (s *ResumeFiles) Get(ctx context.Context, key string) (ResumeFile, error) {
	var (
		f        ResumeFile
		uploaded string
	)
	err := s.db.queryRow(ctx,
		`SELECT key, file_name, content_type, bytes, uploaded_at FROM resume_files WHERE key = ? LIMIT 1;`, key,
	).Scan(&f.Key, &f.FileName, &f.ContentType, &f.Bytes, &uploaded)
	if err == sql.ErrNoRows {
		return ResumeFile{}, ErrNotFound
	}
	if err != nil {
		return ResumeFile{}, err
	}
	f.UploadedAt = parseTime(uploaded)
	return f, nil
}

func (s *ResumeFiles) Delete(ctx context.Context, key string) error {
	_, err := s.db.exec(ctx, `DELETE FROM resume_files WHERE key = ?;`, key)
	return err
}
