package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
)

const internalMessage = "Internal server error"

type APIError struct {
	Success   bool                `json:"success"`
	Error     string              `json:"error,omitempty"`
	Errors    []apperr.FieldError `json:"errors,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes {"success": true} merged with payload.
func WriteOK(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	WriteJSON(w, status, body)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, APIError{Error: message, RequestID: RequestIDFrom(r.Context())})
}

// statusFor maps an error kind to its response status and public message.
func statusFor(err error) (int, string) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, internalMessage
	}
	switch e.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, e.Message
	case apperr.KindNotFound:
		return http.StatusNotFound, e.Message
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, e.Message
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests, e.Message
	case apperr.KindConflict:
		return http.StatusConflict, e.Message
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// WriteFailure renders err for the client. Internal details are only
// logged.
func WriteFailure(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, msg := statusFor(err)
	reqID := RequestIDFrom(r.Context())

	if status == http.StatusInternalServerError && logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		var e *apperr.Error
		if errors.As(err, &e) && len(e.Stack) > 0 {
			fields = append(fields, zap.ByteString("stack", e.Stack))
		}
		logger.Error("request failed", fields...)
	}

	if fields := apperr.FieldsOf(err); status == http.StatusBadRequest && len(fields) > 0 {
		WriteJSON(w, status, APIError{Errors: fields, RequestID: reqID})
		return
	}
	WriteJSON(w, status, APIError{Error: msg, RequestID: reqID})
}
