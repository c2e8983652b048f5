package apperr

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindPersistence  Kind = "persistence"
	KindCollaborator Kind = "collaborator"
	KindUnauthorized Kind = "unauthorized"
	KindRateLimited  Kind = "rate_limited"
	KindConflict     Kind = "conflict"
)

// FieldError is one failed constraint on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		msg = msg + " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) StackTrace() []byte { return e.Stack }

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		if se, ok := err.(*goerrors.Error); ok {
			stack = se.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}
	return &Error{Kind: kind, Message: message, Err: err, Stack: stack}
}

func Validation(fields ...FieldError) *Error {
	e := New(KindValidation, "validation failed", nil)
	e.Fields = fields
	return e
}

func Field(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Persistence(message string, err error) *Error {
	return New(KindPersistence, message, err)
}

func Collaborator(message string, err error) *Error {
	return New(KindCollaborator, message, err)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func RateLimited(message string) *Error {
	return New(KindRateLimited, message, nil)
}

// Conflict reports an operation refused because of related records.
func Conflict(message string, err error) *Error {
	return New(KindConflict, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "" for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }
