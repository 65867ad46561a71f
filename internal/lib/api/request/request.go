package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrTrailingData = errors.New("request body must contain a single JSON object")
	ErrMissingID    = errors.New("event id is required")
	ErrInvalidID    = errors.New("invalid event id format")
)

var validate = newValidator()

// newValidator reports field errors under their JSON names so messages
// match what clients send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks v against its validate struct tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// DecodeJSON decodes exactly one JSON value from r into v. Unknown object
// fields and anything after the first value are rejected.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}

	return nil
}

// TypeMismatch returns the JSON field name when err was caused by a value
// of the wrong JSON type.
func TypeMismatch(err error) (string, bool) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field, true
	}

	return "", false
}

// EventID reads the {id} route parameter and checks that it is a UUID.
// The canonical lower-case form is returned.
func EventID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return "", ErrMissingID
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidID
	}

	return id.String(), nil
}
