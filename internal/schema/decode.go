package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"nigaran-engine/internal/apperr"
)

// DecodeJSON reads one JSON value into dst. Type mismatches are reported
// against the offending field so they surface like any other field error.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			return apperr.Validation(apperr.Field(field, fmt.Sprintf("Expected %s", typeErr.Type.String())))
		}
		if errors.Is(err, io.EOF) {
			return apperr.Validation(apperr.Field("body", "Request body is empty"))
		}
		return apperr.Validation(apperr.Field("body", "Invalid JSON"))
	}
	if dec.More() {
		return apperr.Validation(apperr.Field("body", "Invalid JSON: trailing data"))
	}
	return nil
}
