/*

This file defines the solver's operating ranges and the validation applied to
every input before an iteration starts. The ranges come from the on-chain
curve reference the solvers mirror; values outside them are rejected up front
instead of being left to fail (or worse, converge to garbage) mid-iteration.

*/

package solver

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
)

const (
	// MaxIterations bounds every Newton loop. The reference implementation
	// converges in a handful of rounds for in-range inputs; exhausting the
	// budget is reported as ErrConvergence, never papered over by returning
	// the last estimate.
	MaxIterations = 255

	// AMultiplier is the precision factor folded into solver-native
	// amplification. Native A = A_raw * N^N * AMultiplier; callers using a
	// different convention rescale before calling.
	AMultiplier = 10_000

	// MinAssets is the smallest pool the invariant is defined for.
	MinAssets = 2
)

// Error definitions for zero-tolerance error handling
var (
	// ErrDomain indicates an input outside the solver's valid operating range.
	ErrDomain = errors.New("solver: input outside valid domain")
	// ErrConvergence indicates the iteration budget ran out before the
	// estimate stabilized within tolerance.
	ErrConvergence = errors.New("solver: did not converge")
)

var (
	minGamma = sdkmath.NewInt(10_000_000_000)         // 1e10
	maxGamma = sdkmath.NewInt(20_000_000_000_000_000) // 2e16

	minBalance = sdkmath.NewInt(1_000_000_000)    // 1e9, dust floor for the largest balance
	maxBalance = sdkmath.NewIntWithDecimal(1, 33) // 1e15 whole units at 18 decimals

	// minBalanceRatio is the smallest allowed ratio of any balance to the
	// largest one, scaled by 1e18 (i.e. 1e14 means 1:10000).
	minBalanceRatio = sdkmath.NewIntWithDecimal(1, 14)

	minInvariant = sdkmath.NewIntWithDecimal(1, 17)
	maxInvariant = sdkmath.NewIntWithDecimal(1, 33)

	// Post-solve safety band: every balance must sit within [1e-2, 1e2] of
	// the invariant (scaled by 1e18) for the result to be usable downstream.
	fracLow  = sdkmath.NewIntWithDecimal(1, 16)
	fracHigh = sdkmath.NewIntWithDecimal(1, 20)

	// Convergence: |D - Dprev| * 1e14 < max(1e16, D), per the reference.
	convPrecision = sdkmath.NewIntWithDecimal(1, 14)
	convFloor     = sdkmath.NewIntWithDecimal(1, 16)

	two = sdkmath.NewInt(2)
)

// nPow returns n^n for the small asset counts the solver supports.
func nPow(n int) sdkmath.Int {
	acc := sdkmath.OneInt()
	for j := 0; j < n; j++ {
		acc = acc.MulRaw(int64(n))
	}
	return acc
}

// MinA returns the smallest valid solver-native amplification for an n-asset
// pool: n^n * AMultiplier / 10.
func MinA(n int) sdkmath.Int {
	return nPow(n).MulRaw(AMultiplier).QuoRaw(10)
}

// MaxA returns the largest valid solver-native amplification for an n-asset
// pool: n^n * AMultiplier * 100000.
func MaxA(n int) sdkmath.Int {
	return nPow(n).MulRaw(AMultiplier).MulRaw(100_000)
}

// validateCurveParams checks A and gamma against the curve's operating range.
func validateCurveParams(a, gamma sdkmath.Int, n int) error {
	if a.IsNil() || gamma.IsNil() {
		return fmt.Errorf("%w: amplification and gamma must be set", ErrDomain)
	}
	if a.LT(MinA(n)) || a.GT(MaxA(n)) {
		return fmt.Errorf("%w: amplification %s outside [%s, %s]", ErrDomain, a, MinA(n), MaxA(n))
	}
	if gamma.LT(minGamma) || gamma.GT(maxGamma) {
		return fmt.Errorf("%w: gamma %s outside [%s, %s]", ErrDomain, gamma, minGamma, maxGamma)
	}
	return nil
}

// sortedCopy validates that every balance is strictly positive and returns a
// descending-sorted copy. Inputs are never mutated.
func sortedCopy(balances []sdkmath.Int) ([]sdkmath.Int, error) {
	sorted := make([]sdkmath.Int, len(balances))
	for k, x := range balances {
		if x.IsNil() || !x.IsPositive() {
			return nil, fmt.Errorf("%w: balance %d is not strictly positive", ErrDomain, k)
		}
		sorted[k] = x
	}
	// Insertion sort, descending. Pools are tiny; no need for sort.Slice.
	for k := 1; k < len(sorted); k++ {
		for j := k; j > 0 && sorted[j].GT(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted, nil
}

// checkBalanceFrac verifies x sits within the safety band of d, scaled 1e18.
func checkBalanceFrac(x, d sdkmath.Int) error {
	frac, err := fixedpoint.MulDiv(x, fixedpoint.One(), d)
	if err != nil {
		return err
	}
	if frac.LT(fracLow) || frac.GT(fracHigh) {
		return fmt.Errorf("%w: balance to invariant ratio %s outside [%s, %s]", ErrDomain, frac, fracLow, fracHigh)
	}
	return nil
}
