package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/upload"
)

type FilesHandler struct {
	Uploader upload.Uploader
	Resumes  ResumeSource
	MaxBytes int64
	Log      *zap.Logger
}

// UploadResume accepts a multipart form with the PDF in field "file".
func (h FilesHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxBytes
	if limit <= 0 {
		limit = upload.DefaultMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		msg := "Please upload your resume"
		if errors.As(err, &tooBig) {
			msg = "File is too large"
		}
		WriteFailure(w, r, h.Log, apperr.Validation(apperr.Field("file", msg)))
		return
	}
	defer file.Close()

	url, err := h.Uploader.Upload(r.Context(), upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindCollaborator) {
			h.Log.Error("resume upload failed", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
			WriteError(w, r, http.StatusInternalServerError, "Upload failed, please try again")
			return
		}
		WriteFailure(w, r, h.Log, err)
		return
	}
	WriteOK(w, http.StatusCreated, map[string]any{"url": url})
}

// GetResume serves /files/resumes/{key}.
func (h FilesHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	key, err := pathID(r, upload.ResumePath)
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}

	f, body, err := h.Resumes.Open(r.Context(), key)
	if errors.Is(err, upload.ErrNotFound) {
		WriteFailure(w, r, h.Log, apperr.NotFound("File not found"))
		return
	}
	if err != nil {
		WriteFailure(w, r, h.Log, apperr.Persistence("open resume", err))
		return
	}

	ct := f.ContentType
	if ct == "" {
		ct = upload.PDF
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `inline; filename="`+f.FileName+`"`)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, f.FileName, f.UploadedAt, body)
}
