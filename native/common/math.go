package common

import (
	"errors"
	"math/bits"
)

var (
	// ErrMathOverflow indicates a fixed-width computation would wrap.
	ErrMathOverflow = errors.New("math overflow")
	// ErrDivisionByZero indicates a division with a zero denominator.
	ErrDivisionByZero = errors.New("division by zero")
)

// CheckedAdd returns a+b, failing instead of wrapping on overflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// CheckedSub returns a-b, failing instead of wrapping on underflow.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

// CheckedMul returns a*b, failing when the product exceeds 64 bits.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

// CheckedDiv returns a/b (floor), failing on a zero denominator.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
