package solver

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
)

// SolveY computes the balance at index i that re-satisfies the invariant d,
// given the other balances. The entry at index i is a placeholder and is
// never read. n is the pool's asset count and must match len(balances); a
// and gamma follow the same native-unit convention as SolveD.
func SolveY(a, gamma sdkmath.Int, balances []sdkmath.Int, n int, d sdkmath.Int, i int) (sdkmath.Int, error) {
	if n < MinAssets {
		return sdkmath.Int{}, fmt.Errorf("%w: need at least %d assets, got %d", ErrDomain, MinAssets, n)
	}
	if n != len(balances) {
		return sdkmath.Int{}, fmt.Errorf("%w: asset count %d does not match %d balances", ErrDomain, n, len(balances))
	}
	if i < 0 || i >= n {
		return sdkmath.Int{}, fmt.Errorf("%w: asset index %d out of range [0, %d)", ErrDomain, i, n)
	}
	if err := validateCurveParams(a, gamma, n); err != nil {
		return sdkmath.Int{}, err
	}
	if d.IsNil() || d.LT(minInvariant) || d.GT(maxInvariant) {
		return sdkmath.Int{}, fmt.Errorf("%w: invariant must be within [%s, %s]", ErrDomain, minInvariant, maxInvariant)
	}

	// The other balances, validated and sorted descending. The placeholder
	// entry is dropped, not read.
	others, err := sortedCopy(append(append([]sdkmath.Int{}, balances[:i]...), balances[i+1:]...))
	if err != nil {
		return sdkmath.Int{}, err
	}
	for _, x := range others {
		if err := checkBalanceFrac(x, d); err != nil {
			return sdkmath.Int{}, err
		}
	}

	return newtonY(a, gamma, others, n, d, MaxIterations)
}

// newtonY runs the single-balance iteration at fixed invariant d. others is
// the descending-sorted slice of the n-1 known balances. The initial guess
// is derived from d and the known balances (for n = 2 it collapses to
// D^2 / (4 * x_j)), which keeps the iteration well inside the convergence
// basin across the valid parameter range.
func newtonY(a, gamma sdkmath.Int, others []sdkmath.Int, n int, d sdkmath.Int, maxIterations int) (sdkmath.Int, error) {
	nInt := sdkmath.NewInt(int64(n))
	one := fixedpoint.One()
	twoScale := two.Mul(one)

	c := &calc{}

	// Seed the guess assuming the curve is locally constant-product in the
	// unknown: start from D/n and fold in each known balance, smallest
	// first. K0_i and S_i accumulate the fixed part of K0 and the sum.
	y := c.div(d, nInt)
	k0i := one
	si := sdkmath.ZeroInt()
	for idx := len(others) - 1; idx >= 0; idx-- {
		y = c.div(c.mul(y, d), c.mul(others[idx], nInt))
	}
	for _, x := range others {
		k0i = c.div(c.mul(c.mul(k0i, x), nInt), d)
		si = c.add(si, x)
	}
	if c.err != nil {
		return sdkmath.Int{}, fmt.Errorf("balance solve setup: %w", c.err)
	}

	// Absolute convergence floor: the larger of 1e-14 of the biggest known
	// balance or of D, but never tighter than 100 base units.
	convLimit := fixedpoint.Max(others[0].Quo(convPrecision), d.Quo(convPrecision))
	convLimit = fixedpoint.Max(convLimit, sdkmath.NewInt(100))

	for iter := 0; iter < maxIterations; iter++ {
		yPrev := y
		c := &calc{}

		k0 := c.div(c.mul(c.mul(k0i, y), nInt), d)
		s := c.add(si, y)

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

		// mul2 = 1e18 + 2e18 * K0 / g1k0
		mul2 := c.add(one, c.div(c.mul(twoScale, k0), g1k0))

		yfprime := c.add(c.add(c.mul(one, y), c.mul(s, mul2)), mul1)
		dyfprime := c.mul(d, mul2)
		if c.err != nil {
			return sdkmath.Int{}, fmt.Errorf("balance iteration %d: %w", iter, c.err)
		}

		// A guess past the root makes the derivative term negative; halve
		// back toward the basin rather than stepping through zero.
		if yfprime.LT(dyfprime) {
			y = yPrev.Quo(two)
			continue
		}
		yfprime = yfprime.Sub(dyfprime)
		fprime := c.div(yfprime, y)

		// y = y_plus - y_minus, the Newton step split into positive parts.
		yMinus := c.div(mul1, fprime)
		yPlus := c.add(c.div(c.add(yfprime, c.mul(one, d)), fprime), c.div(c.mul(yMinus, one), k0))
		yMinus = c.add(yMinus, c.div(c.mul(one, s), fprime))

		if c.err != nil {
			return sdkmath.Int{}, fmt.Errorf("balance iteration %d: %w", iter, c.err)
		}

		if yPlus.LT(yMinus) {
			y = yPrev.Quo(two)
		} else {
			y = yPlus.Sub(yMinus)
		}

		if fixedpoint.AbsDiff(y, yPrev).LT(fixedpoint.Max(convLimit, y.Quo(convPrecision))) {
			if err := checkBalanceFrac(y, d); err != nil {
				return sdkmath.Int{}, err
			}
			return y, nil
		}
	}

	return sdkmath.Int{}, fmt.Errorf("%w: balance search exhausted %d iterations", ErrConvergence, maxIterations)
}
