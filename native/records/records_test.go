package records

import (
	"errors"
	"strings"
	"testing"
)

var testShape = Shape{
	Kind: "blink",
	Limits: map[string]int{
		"name":        50,
		"description": 200,
	},
}

func TestCheckWithinLimit(t *testing.T) {
	if err := testShape.Check("name", strings.Repeat("a", 50)); err != nil {
		t.Fatalf("expected value at limit to pass, got %v", err)
	}
	if err := testShape.Check("image", strings.Repeat("a", 10_000)); err != nil {
		t.Fatalf("unbounded field should pass, got %v", err)
	}
}

func TestCheckTooLong(t *testing.T) {
	err := testShape.Check("name", strings.Repeat("a", 51))
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("expected ErrFieldTooLong, got %v", err)
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fieldErr.Field != "name" || fieldErr.Max != 50 || fieldErr.Length != 51 {
		t.Fatalf("unexpected field error: %+v", fieldErr)
	}
}

func TestCheckAllStopsAtFirstViolation(t *testing.T) {
	err := testShape.CheckAll(
		"name", "ok",
		"description", strings.Repeat("d", 201),
	)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "description" {
		t.Fatalf("expected description violation, got %v", err)
	}
}
