package solver

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
)

// Representative mid-range curve parameters in solver-native units
// (A already carries the N^N * AMultiplier factor).
var (
	testA     = sdkmath.NewInt(400_000)
	testGamma = sdkmath.NewInt(145_000_000_000_000)
)

// fx returns whole units scaled to 18 decimals.
func fx(units int64) sdkmath.Int {
	return sdkmath.NewIntWithDecimal(units, 18)
}

// requireRelClose asserts |got-want| <= want/relDenom.
func requireRelClose(t *testing.T, want, got sdkmath.Int, relDenom int64) {
	t.Helper()
	diff := fixedpoint.AbsDiff(want, got)
	tol := want.QuoRaw(relDenom)
	require.True(t, diff.LTE(tol),
		"got %s, want %s within %s (diff %s)", got, want, tol, diff)
}

func TestSolveD_EqualBalancesClosedForm(t *testing.T) {
	// At the symmetric point the invariant is exactly N * v.
	for _, units := range []int64{1, 1_000, 1_000_000, 2_000_000} {
		x := []sdkmath.Int{fx(units), fx(units)}

		d, err := SolveD(testA, testGamma, x, sdkmath.ZeroInt())
		require.NoError(t, err)

		requireRelClose(t, fx(2*units), d, 1_000_000_000_000_000) // rel err < 1e-15
	}
}

func TestSolveD_Symmetry(t *testing.T) {
	a := fx(500_000)
	b := fx(1_500_000)

	d1, err := SolveD(testA, testGamma, []sdkmath.Int{a, b}, sdkmath.ZeroInt())
	require.NoError(t, err)
	d2, err := SolveD(testA, testGamma, []sdkmath.Int{b, a}, sdkmath.ZeroInt())
	require.NoError(t, err)

	// Balances are sorted internally, so the results are bit-identical.
	require.True(t, d1.Equal(d2), "D([a,b]) = %s, D([b,a]) = %s", d1, d2)
}

func TestSolveD_Monotonicity(t *testing.T) {
	base := []sdkmath.Int{fx(1_000_000), fx(1_000_000)}

	dBase, err := SolveD(testA, testGamma, base, sdkmath.ZeroInt())
	require.NoError(t, err)

	for i := range base {
		bumped := []sdkmath.Int{base[0], base[1]}
		bumped[i] = bumped[i].Add(fx(10_000))

		dBumped, err := SolveD(testA, testGamma, bumped, sdkmath.ZeroInt())
		require.NoError(t, err)
		require.True(t, dBumped.GT(dBase),
			"increasing balance %d must not decrease D: %s -> %s", i, dBase, dBumped)
	}
}

func TestSolveD_ProvidedInitialGuess(t *testing.T) {
	x := []sdkmath.Int{fx(500_000), fx(1_500_000)}

	dDerived, err := SolveD(testA, testGamma, x, sdkmath.ZeroInt())
	require.NoError(t, err)

	// Seeding with the balance sum (the classic caller-side guess) must land
	// on the same root within tolerance.
	dSeeded, err := SolveD(testA, testGamma, x, x[0].Add(x[1]))
	require.NoError(t, err)

	requireRelClose(t, dDerived, dSeeded, 10_000_000_000) // rel err < 1e-10
}

func TestSolveD_DomainRejection(t *testing.T) {
	valid := []sdkmath.Int{fx(1_000_000), fx(1_000_000)}

	tests := []struct {
		name     string
		a        sdkmath.Int
		gamma    sdkmath.Int
		balances []sdkmath.Int
		d0       sdkmath.Int
	}{
		{"zero balance", testA, testGamma, []sdkmath.Int{fx(1_000_000), sdkmath.ZeroInt()}, sdkmath.ZeroInt()},
		{"negative balance", testA, testGamma, []sdkmath.Int{fx(1_000_000), fx(1).Neg()}, sdkmath.ZeroInt()},
		{"single balance", testA, testGamma, []sdkmath.Int{fx(1_000_000)}, sdkmath.ZeroInt()},
		{"amplification too low", sdkmath.NewInt(100), testGamma, valid, sdkmath.ZeroInt()},
		{"amplification too high", sdkmath.NewInt(5_000_000_000), testGamma, valid, sdkmath.ZeroInt()},
		{"gamma zero", testA, sdkmath.ZeroInt(), valid, sdkmath.ZeroInt()},
		{"gamma too high", testA, sdkmath.NewIntWithDecimal(1, 18), valid, sdkmath.ZeroInt()},
		{"negative initial guess", testA, testGamma, valid, fx(1).Neg()},
		{"largest balance dust", testA, testGamma, []sdkmath.Int{sdkmath.NewInt(100_000_000), sdkmath.NewInt(100_000_000)}, sdkmath.ZeroInt()},
		{"balance spread too wide", testA, testGamma, []sdkmath.Int{fx(1_000_000), sdkmath.NewInt(1_000_000_000)}, sdkmath.ZeroInt()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SolveD(tc.a, tc.gamma, tc.balances, tc.d0)
			require.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestNewtonD_IterationBudget(t *testing.T) {
	// With a single iteration allowed the estimate cannot stabilize from the
	// derived guess; the solver must report that instead of returning the
	// truncated estimate.
	sorted := []sdkmath.Int{fx(1_500_000), fx(500_000)}

	_, err := newtonD(testA, testGamma, sorted, sdkmath.ZeroInt(), 1)
	require.ErrorIs(t, err, ErrConvergence)
}

func TestGeometricMean(t *testing.T) {
	// Equal inputs converge immediately and exactly.
	gm, err := geometricMean([]sdkmath.Int{fx(7), fx(7)})
	require.NoError(t, err)
	require.True(t, gm.Equal(fx(7)))

	// sqrt(4 * 1) = 2, within integer-truncation wobble.
	gm, err = geometricMean([]sdkmath.Int{fx(4), fx(1)})
	require.NoError(t, err)
	require.True(t, fixedpoint.AbsDiff(gm, fx(2)).LTE(sdkmath.NewInt(10)),
		"geometric mean %s not close to %s", gm, fx(2))
}
