// Package schema turns raw form input into normalized domain records.
//
// Every function here is total over its input: it returns either the record
// or an apperr validation error listing each failing field. Malformed input
// never panics.
package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"nigaran-engine/internal/apperr"
)

// Indian mobile numbers: ten digits starting 6-9.
var mobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("in_mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// Check validates a tagged input struct and returns its field errors in
// declaration order. Messages come from the field's `msg` tag.
func (s *Validator) Check(in any) []apperr.FieldError {
	if s == nil || s.v == nil {
		panic("schema: nil validator")
	}
	err := s.v.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperr.FieldError{apperr.Field("body", err.Error())}
	}

	t := reflect.TypeOf(in)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperr.Field(fe.Field(), message(t, fe)))
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if m := sf.Tag.Get("msg"); m != "" {
			return m
		}
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
}

func (s *Validator) fail(in any) error {
	if fields := s.Check(in); len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

func trim(s string) string { return strings.TrimSpace(s) }

// optional maps empty or blank strings to absent.
func optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
