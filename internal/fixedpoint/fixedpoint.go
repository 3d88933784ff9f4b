/*
Package fixedpoint provides the exact scaled-integer arithmetic the solvers
are built on. All quantities share one decimal scale (18 fractional digits)
and are represented as cosmossdk.io/math integers; no binary floating point
is used anywhere.

Every operation mirrors the rounding convention of the on-chain reference
this library is validated against: division truncates toward zero, which for
the non-negative operands used by the solvers is identical to flooring. The
reference arithmetic is 256-bit; any intermediate that would not fit in 256
bits is reported as an overflow instead of being silently carried at higher
width, so results stay bit-for-bit comparable.
*/

package fixedpoint

import (
	"errors"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// MaxBitLen is the width of the reference arithmetic. Intermediates beyond
// this are an error, never silently widened or wrapped.
const MaxBitLen = 256

// Decimals is the number of fractional decimal digits in the shared scale.
const Decimals = 18

// Error definitions for zero-tolerance error handling
var (
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	ErrOverflow       = errors.New("fixedpoint: value exceeds 256-bit range")
	ErrNegative       = errors.New("fixedpoint: negative result")
)

// One returns the scale unit, 10^18.
func One() sdkmath.Int {
	return sdkmath.NewIntWithDecimal(1, Decimals)
}

// NewInt returns v as an unscaled integer.
func NewInt(v int64) sdkmath.Int {
	return sdkmath.NewInt(v)
}

// Mul returns a*b, failing with ErrOverflow if the product does not fit in
// 256 bits.
func Mul(a, b sdkmath.Int) (sdkmath.Int, error) {
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.BitLen() > MaxBitLen {
		return sdkmath.Int{}, ErrOverflow
	}
	return sdkmath.NewIntFromBigInt(product), nil
}

// Div returns a/b truncated toward zero. Fails with ErrDivisionByZero when
// b is zero.
func Div(a, b sdkmath.Int) (sdkmath.Int, error) {
	if b.IsZero() {
		return sdkmath.Int{}, ErrDivisionByZero
	}
	return a.Quo(b), nil
}

// MulDiv returns (a*b)/den with the product taken at full width but bounds
// checked against the 256-bit reference range before the truncating divide.
func MulDiv(a, b, den sdkmath.Int) (sdkmath.Int, error) {
	if den.IsZero() {
		return sdkmath.Int{}, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.BitLen() > MaxBitLen {
		return sdkmath.Int{}, ErrOverflow
	}
	return sdkmath.NewIntFromBigInt(product).Quo(den), nil
}

// Add returns a+b, failing with ErrOverflow if the sum does not fit in 256
// bits.
func Add(a, b sdkmath.Int) (sdkmath.Int, error) {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	if sum.BitLen() > MaxBitLen {
		return sdkmath.Int{}, ErrOverflow
	}
	return sdkmath.NewIntFromBigInt(sum), nil
}

// Sub returns a-b. The solvers operate on non-negative quantities, so a
// negative result means an invariant was violated upstream; it is reported
// as ErrNegative rather than carried forward.
func Sub(a, b sdkmath.Int) (sdkmath.Int, error) {
	diff := a.Sub(b)
	if diff.IsNegative() {
		return sdkmath.Int{}, ErrNegative
	}
	return diff, nil
}

// Pow returns base**exp by repeated multiplication, with the same 256-bit
// bounds check as Mul on every step.
func Pow(base sdkmath.Int, exp uint64) (sdkmath.Int, error) {
	result := sdkmath.OneInt()
	acc := base
	for e := exp; e > 0; e >>= 1 {
		var err error
		if e&1 == 1 {
			result, err = Mul(result, acc)
			if err != nil {
				return sdkmath.Int{}, err
			}
		}
		if e > 1 {
			acc, err = Mul(acc, acc)
			if err != nil {
				return sdkmath.Int{}, err
			}
		}
	}
	return result, nil
}

// AbsDiff returns |a-b|.
func AbsDiff(a, b sdkmath.Int) sdkmath.Int {
	if a.GT(b) {
		return a.Sub(b)
	}
	return b.Sub(a)
}

// Max returns the larger of a and b.
func Max(a, b sdkmath.Int) sdkmath.Int {
	if a.GT(b) {
		return a
	}
	return b
}
