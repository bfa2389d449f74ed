package input

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required field is absent or null.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when a field does not decode to the requested type.
	ErrInvalidField = errors.New("invalid field")
)

// DecodeError reports a private input field that could not be decoded.
type DecodeError struct {
	Field string // top level field name
	Path  string // position inside the field, e.g. "[2][0]"; empty for the field itself
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("private input %q%s: %v", e.Field, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &DecodeError{Field: field, Err: ErrMissingField}
}

func invalid(field, path string, cause error) error {
	return &DecodeError{Field: field, Path: path, Err: fmt.Errorf("%w: %w", ErrInvalidField, cause)}
}
