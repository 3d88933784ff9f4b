package solver

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
)

// geometricMean computes (prod(x))^(1/n) for a descending-sorted, strictly
// positive balance slice, by Newton iteration on the same fixed-point surface
// as the solvers. It seeds the invariant search when no initial guess is
// supplied.
func geometricMean(sorted []sdkmath.Int) (sdkmath.Int, error) {
	n := int64(len(sorted))
	one := fixedpoint.One()

	// (n-1)*1e18 and n*1e18, reused every round.
	nm1Scale := sdkmath.NewInt(n - 1).Mul(one)
	nScale := sdkmath.NewInt(n).Mul(one)

	d := sorted[0]
	for iter := 0; iter < MaxIterations; iter++ {
		dPrev := d

		c := &calc{}
		tmp := one
		for _, x := range sorted {
			tmp = c.mulDiv(tmp, x, d)
		}
		d = c.mulDiv(d, c.add(nm1Scale, tmp), nScale)
		scaledDiff := c.mul(fixedpoint.AbsDiff(d, dPrev), one)
		if c.err != nil {
			return sdkmath.Int{}, fmt.Errorf("geometric mean iteration %d: %w", iter, c.err)
		}

		if fixedpoint.AbsDiff(d, dPrev).LTE(sdkmath.OneInt()) || scaledDiff.LT(d) {
			return d, nil
		}
	}
	return sdkmath.Int{}, fmt.Errorf("%w: geometric mean exhausted %d iterations", ErrConvergence, MaxIterations)
}
