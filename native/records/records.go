// Package records provides the shared validation core for every owned record
// kind in the ledger. Each kind declares a Shape: its name plus a table of
// per-field maximum lengths. Engines validate caller-supplied text against
// the shape before any state is written, so a failed validation never leaves
// a partial record behind.
package records

import (
	"errors"
	"fmt"
)

// ErrFieldTooLong is the sentinel wrapped by every field-length violation.
var ErrFieldTooLong = errors.New("field too long")

// FieldError reports which field of which record kind exceeded its limit.
type FieldError struct {
	Kind   string
	Field  string
	Max    int
	Length int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s too long (%d > %d)", e.Kind, e.Field, e.Length, e.Max)
}

func (e *FieldError) Unwrap() error { return ErrFieldTooLong }

// Shape describes the validated surface of a record kind.
type Shape struct {
	Kind   string
	Limits map[string]int
}

// Check validates a single field value against the shape's limit table.
// Fields without a declared limit are unbounded.
func (s Shape) Check(field, value string) error {
	max, ok := s.Limits[field]
	if !ok {
		return nil
	}
	if len(value) > max {
		return &FieldError{Kind: s.Kind, Field: field, Max: max, Length: len(value)}
	}
	return nil
}

// CheckAll validates the supplied field values in the given order and returns
// the first violation. Pairs must alternate field name and value.
func (s Shape) CheckAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := s.Check(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
