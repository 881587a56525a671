package common

import (
	"errors"
	"math"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	if sum, err := CheckedAdd(1, 2); err != nil || sum != 3 {
		t.Fatalf("CheckedAdd(1,2) = %d, %v", sum, err)
	}
	if _, err := CheckedAdd(math.MaxUint64, 1); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestCheckedSub(t *testing.T) {
	if diff, err := CheckedSub(5, 3); err != nil || diff != 2 {
		t.Fatalf("CheckedSub(5,3) = %d, %v", diff, err)
	}
	if _, err := CheckedSub(3, 5); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
}

func TestCheckedMul(t *testing.T) {
	if prod, err := CheckedMul(1000, 1000); err != nil || prod != 1_000_000 {
		t.Fatalf("CheckedMul(1000,1000) = %d, %v", prod, err)
	}
	if _, err := CheckedMul(math.MaxUint64, 2); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if prod, err := CheckedMul(math.MaxUint64, 1); err != nil || prod != math.MaxUint64 {
		t.Fatalf("CheckedMul(max,1) = %d, %v", prod, err)
	}
}

func TestCheckedDiv(t *testing.T) {
	if quot, err := CheckedDiv(7, 2); err != nil || quot != 3 {
		t.Fatalf("CheckedDiv(7,2) = %d, %v", quot, err)
	}
	if _, err := CheckedDiv(1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
}
