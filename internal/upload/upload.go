// Package upload accepts resume files and returns the public URL they are
// served from.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/store"
)

const (
	DefaultMaxBytes int64 = 5 << 20
	PDF                   = "application/pdf"
	ResumePath            = "/files/resumes/"
)

var ErrNotFound = errors.New("file not found")

type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type Uploader interface {
	Upload(ctx context.Context, f File) (publicURL string, err error)
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]`)

// SanitizeName lower-cases name and replaces anything outside
// [a-z0-9._-] with an underscore.
func SanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || strings.Trim(name, ".") == "" {
		name = "resume.pdf"
	}
	return name
}

// Key is the stored object name: upload time in unix millis, then the
// sanitized file name.
func Key(name string, at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "_" + SanitizeName(name)
}

func invalid(msg string) error {
	return apperr.Validation(apperr.Field("file", msg))
}

// ReadPDF enforces the size cap and checks both the declared and the
// sniffed content type.
func ReadPDF(f File, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if f.Body == nil {
		return nil, invalid("Please upload your resume")
	}
	if mt, _, err := mime.ParseMediaType(f.ContentType); err != nil || mt != PDF {
		return nil, invalid("Only PDF files are accepted")
	}

	data, err := io.ReadAll(io.LimitReader(f.Body, maxBytes+1))
	if err != nil {
		return nil, apperr.Collaborator("read upload", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, invalid(fmt.Sprintf("File must be %d MB or smaller", maxBytes>>20))
	}
	if len(data) == 0 {
		return nil, invalid("Please upload your resume")
	}
	if !mimetype.Detect(data).Is(PDF) {
		return nil, invalid("Only PDF files are accepted")
	}
	return data, nil
}

// DBUploader keeps resumes in the resume_files table and serves them from
// the engine itself.
type DBUploader struct {
	files    *store.ResumeFiles
	baseURL  string
	maxBytes int64
	now      func() time.Time
	log      *zap.Logger
}

func NewDBUploader(files *store.ResumeFiles, publicBaseURL string, maxBytes int64, logger *zap.Logger) *DBUploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBUploader{
		files:    files,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
		maxBytes: maxBytes,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.Named("upload"),
	}
}

func (u *DBUploader) Upload(ctx context.Context, f File) (string, error) {
	data, err := ReadPDF(f, u.maxBytes)
	if err != nil {
		return "", err
	}
	now := u.now()
	key := Key(f.Name, now)
	err = u.files.Put(ctx, store.ResumeFile{
		Key:         key,
		FileName:    SanitizeName(f.Name),
		ContentType: PDF,
		Bytes:       data,
		UploadedAt:  now,
	})
	if err != nil {
		u.log.Error("store resume failed", zap.String("key", key), zap.Error(err))
		return "", apperr.Collaborator("store resume", err)
	}
	u.log.Info("resume stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return u.baseURL + ResumePath + url.PathEscape(key), nil
}

// Open returns a stored resume by key.
func (u *DBUploader) Open(ctx context.Context, key string) (store.ResumeFile, io.ReadSeeker, error) {
	f, err := u.files.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return store.ResumeFile{}, nil, ErrNotFound
	}
	if err != nil {
		return store.ResumeFile{}, nil, err
	}
	return f, bytes.NewReader(f.Bytes), nil
}
