/*
Package solver implements the iterative root-finders at the heart of a
cryptopool-style constant-function market maker: SolveD computes the pool
invariant D from the curve parameters and balances, and SolveY recomputes a
single balance from the others and a known D.

Both are pure, stateless Newton-family iterations over the curve's implicit
equation, carried out entirely in scaled-integer arithmetic (see the
fixedpoint package). Amplification is expected in solver-native units,
A_raw * N^N * AMultiplier; a caller holding a differently-scaled A rescales
before calling, the solver performs no implicit conversion.

Every call either converges within MaxIterations and returns a value, or
fails with a typed error. Nothing is retried and nothing is downgraded to a
default: a silently wrong invariant prices trades wrong.
*/

package solver

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
)

// SolveD computes the invariant D for amplification a (solver-native units),
// shape parameter gamma, and strictly positive balances. A zero d0 requests
// the derived initial guess n * geometricMean(balances); a positive d0 is
// used as the starting estimate directly.
func SolveD(a, gamma sdkmath.Int, balances []sdkmath.Int, d0 sdkmath.Int) (sdkmath.Int, error) {
	n := len(balances)
	if n < MinAssets {
		return sdkmath.Int{}, fmt.Errorf("%w: need at least %d balances, got %d", ErrDomain, MinAssets, n)
	}
	if err := validateCurveParams(a, gamma, n); err != nil {
		return sdkmath.Int{}, err
	}
	if d0.IsNil() || d0.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("%w: initial guess must be zero or positive", ErrDomain)
	}

	sorted, err := sortedCopy(balances)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if sorted[0].LT(minBalance) || sorted[0].GT(maxBalance) {
		return sdkmath.Int{}, fmt.Errorf("%w: largest balance %s outside [%s, %s]", ErrDomain, sorted[0], minBalance, maxBalance)
	}
	one := fixedpoint.One()
	for k, x := range sorted[1:] {
		frac, err := fixedpoint.MulDiv(x, one, sorted[0])
		if err != nil {
			return sdkmath.Int{}, err
		}
		if frac.LT(minBalanceRatio) {
			return sdkmath.Int{}, fmt.Errorf("%w: balance %d is below %s of the largest balance", ErrDomain, k+1, minBalanceRatio)
		}
	}

	return newtonD(a, gamma, sorted, d0, MaxIterations)
}

// newtonD runs the invariant iteration on a validated, descending-sorted
// balance slice. The update step follows the reference curve implementation
// in its general-N form; operation order matters, it fixes both the
// truncation behavior and the intermediate magnitudes.
func newtonD(a, gamma sdkmath.Int, sorted []sdkmath.Int, d0 sdkmath.Int, maxIterations int) (sdkmath.Int, error) {
	n := len(sorted)
	nInt := sdkmath.NewInt(int64(n))
	one := fixedpoint.One()
	twoScale := two.Mul(one)

	d := d0
	if d0.IsZero() {
		gm, err := geometricMean(sorted)
		if err != nil {
			return sdkmath.Int{}, err
		}
		d, err = fixedpoint.Mul(gm, nInt)
		if err != nil {
			return sdkmath.Int{}, err
		}
	}

	s := sdkmath.ZeroInt()
	{
		c := &calc{}
		for _, x := range sorted {
			s = c.add(s, x)
		}
		if c.err != nil {
			return sdkmath.Int{}, c.err
		}
	}

	for iter := 0; iter < maxIterations; iter++ {
		dPrev := d
		c := &calc{}

		// K0 = prod(x_j * n / D), scaled by 1e18.
		k0 := one
		for _, x := range sorted {
			k0 = c.div(c.mul(c.mul(k0, x), nInt), d)
		}

		// |gamma + 1e18 - K0| + 1
		g1k0 := c.add(gamma, one)
		g1k0 = fixedpoint.AbsDiff(g1k0, k0).Add(sdkmath.OneInt())

		// mul1 = 1e18 * D / gamma * g1k0 / gamma * g1k0 * AMultiplier / A
		mul1 := c.mul(one, d)
		mul1 = c.div(mul1, gamma)
		mul1 = c.mul(mul1, g1k0)
		mul1 = c.div(mul1, gamma)
		mul1 = c.mul(mul1, g1k0)
		mul1 = c.mul(mul1, sdkmath.NewInt(AMultiplier))
		mul1 = c.div(mul1, a)

		// mul2 = (2e18 * n) * K0 / g1k0
		mul2 := c.div(c.mul(c.mul(twoScale, nInt), k0), g1k0)

		// negFprime = (S + S*mul2/1e18) + mul1*n/K0 - mul2*D/1e18
		negFprime := c.add(s, c.mulDiv(s, mul2, one))
		negFprime = c.add(negFprime, c.div(c.mul(mul1, nInt), k0))
		negFprime = c.sub(negFprime, c.mulDiv(mul2, d, one))

		// D = (D_plus - D_minus), the Newton step split into positive parts.
		dPlus := c.mulDiv(d, c.add(negFprime, s), negFprime)
		dMinus := c.mulDiv(d, d, negFprime)

		// Curvature correction, signed by K0 relative to 1e18.
		corr := c.div(mul1, negFprime)
		corr = c.mulDiv(d, corr, one)
		corr = c.div(c.mul(corr, fixedpoint.AbsDiff(one, k0)), k0)
		if one.GT(k0) {
			dMinus = c.add(dMinus, corr)
		} else {
			dMinus = c.sub(dMinus, corr)
		}

		if c.err != nil {
			return sdkmath.Int{}, fmt.Errorf("invariant iteration %d: %w", iter, c.err)
		}

		if dPlus.GT(dMinus) {
			d = dPlus.Sub(dMinus)
		} else {
			d = dMinus.Sub(dPlus).Quo(two)
		}

		scaledDiff, err := fixedpoint.Mul(fixedpoint.AbsDiff(d, dPrev), convPrecision)
		if err != nil {
			return sdkmath.Int{}, fmt.Errorf("invariant iteration %d: %w", iter, err)
		}
		if scaledDiff.LT(fixedpoint.Max(convFloor, d)) {
			// Converged. Reject results the balance solver could not safely
			// consume instead of handing back a technically-converged D.
			for _, x := range sorted {
				if err := checkBalanceFrac(x, d); err != nil {
					return sdkmath.Int{}, err
				}
			}
			return d, nil
		}
	}

	return sdkmath.Int{}, fmt.Errorf("%w: invariant search exhausted %d iterations", ErrConvergence, maxIterations)
}
