package solver

import (
	sdkmath "cosmossdk.io/math"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
)

// calc threads fixed-point operations through an iteration, capturing the
// first arithmetic failure instead of forcing a check after every step. Once
// an error is recorded all further operations return zero and the error is
// surfaced at the next checkpoint. All solver arithmetic goes through calc
// (and therefore through fixedpoint) so rounding and overflow behavior stay
// on a single auditable surface.
type calc struct {
	err error
}

func (c *calc) mul(a, b sdkmath.Int) sdkmath.Int {
	if c.err != nil {
		return sdkmath.ZeroInt()
	}
	v, err := fixedpoint.Mul(a, b)
	if err != nil {
		c.err = err
		return sdkmath.ZeroInt()
	}
	return v
}

func (c *calc) div(a, b sdkmath.Int) sdkmath.Int {
	if c.err != nil {
		return sdkmath.ZeroInt()
	}
	v, err := fixedpoint.Div(a, b)
	if err != nil {
		c.err = err
		return sdkmath.ZeroInt()
	}
	return v
}

// mulDiv computes (a*b)/den in one step, full-width product, truncating divide.
func (c *calc) mulDiv(a, b, den sdkmath.Int) sdkmath.Int {
	if c.err != nil {
		return sdkmath.ZeroInt()
	}
	v, err := fixedpoint.MulDiv(a, b, den)
	if err != nil {
		c.err = err
		return sdkmath.ZeroInt()
	}
	return v
}

func (c *calc) add(a, b sdkmath.Int) sdkmath.Int {
	if c.err != nil {
		return sdkmath.ZeroInt()
	}
	v, err := fixedpoint.Add(a, b)
	if err != nil {
		c.err = err
		return sdkmath.ZeroInt()
	}
	return v
}

func (c *calc) sub(a, b sdkmath.Int) sdkmath.Int {
	if c.err != nil {
		return sdkmath.ZeroInt()
	}
	v, err := fixedpoint.Sub(a, b)
	if err != nil {
		c.err = err
		return sdkmath.ZeroInt()
	}
	return v
}
