package swap

import (
	"errors"

	"blinkchain/native/common"
)

// ErrInvalidSwapParameters indicates a zero input amount or empty reserve.
var ErrInvalidSwapParameters = errors.New("swap engine: invalid swap parameters")

// feeDenominator expresses fees in parts per thousand deducted from the
// input side, so fee=3 keeps 997/1000 of the input.
const feeDenominator = 1000

// CalculateSwapAmount prices a constant-product swap with the fee taken from
// the input side:
//
//	amountInWithFee = amountIn * (1000 - fee)
//	amountOut       = amountInWithFee * reserveOut / (reserveIn*1000 + amountInWithFee)
//
// The computation is pure integer arithmetic with floor division, so the same
// inputs always yield the same output. Every step is overflow-checked; a fee
// above 1000 or an overflowing product fails with common.ErrMathOverflow.
func CalculateSwapAmount(amountIn, reserveIn, reserveOut, fee uint64) (uint64, error) {
	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInvalidSwapParameters
	}
	keep, err := common.CheckedSub(feeDenominator, fee)
	if err != nil {
		return 0, err
	}
	amountInWithFee, err := common.CheckedMul(amountIn, keep)
	if err != nil {
		return 0, err
	}
	numerator, err := common.CheckedMul(amountInWithFee, reserveOut)
	if err != nil {
		return 0, err
	}
	scaledReserve, err := common.CheckedMul(reserveIn, feeDenominator)
	if err != nil {
		return 0, err
	}
	denominator, err := common.CheckedAdd(scaledReserve, amountInWithFee)
	if err != nil {
		return 0, err
	}
	return common.CheckedDiv(numerator, denominator)
}
