package ballot

import (
	"errors"
	"fmt"
)

// Sentinel errors for record construction.
var (
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrWrongType is returned when a field holds a value of the wrong shape.
	ErrWrongType = errors.New("wrong type")

	// ErrUnexpectedField is returned when a mapping carries a field the record does not define.
	ErrUnexpectedField = errors.New("unexpected field")

	// ErrMissingDiscriminator is returned when a contest mapping has no "type" field.
	ErrMissingDiscriminator = errors.New("contest has no 'type' field")

	// ErrUnknownContestType is returned when a contest's "type" is not a known contest type.
	ErrUnknownContestType = errors.New("unhandled contest type")
)

// FieldError reports the first violation found while constructing a record.
// Field is a path relative to the outermost record being built, such as
// "contests[0].candidates[1].is_write_in".
type FieldError struct {
	Record   string // record type that rejected the value
	Field    string
	Expected string
	Err      error
}

func (e *FieldError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: %s: %v", e.Record, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v, expected %s", e.Record, e.Field, e.Err, e.Expected)
}

func (e *FieldError) Unwrap() error { return e.Err }

// nest prefixes the field path of an error raised by a nested record.
func nest(prefix string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			Record:   fe.Record,
			Field:    prefix + "." + fe.Field,
			Expected: fe.Expected,
			Err:      fe.Err,
		}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
