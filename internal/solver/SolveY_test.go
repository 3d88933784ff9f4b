package solver

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestSolveY_RecoversEqualBalance(t *testing.T) {
	// The worked reference case: equal 2M balances give D ~= 4M; feeding D
	// back must recover the blanked balance.
	x := []sdkmath.Int{fx(2_000_000), fx(2_000_000)}

	d, err := SolveD(testA, testGamma, x, sdkmath.ZeroInt())
	require.NoError(t, err)
	requireRelClose(t, fx(4_000_000), d, 1_000_000_000_000_000) // rel err < 1e-15

	blanked := []sdkmath.Int{fx(2_000_000), sdkmath.OneInt()}
	y, err := SolveY(testA, testGamma, blanked, 2, d, 1)
	require.NoError(t, err)
	requireRelClose(t, fx(2_000_000), y, 1_000_000_000_000_000)
}

func TestSolveY_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		a    sdkmath.Int
		x0   sdkmath.Int
		x1   sdkmath.Int
	}{
		{"equal balances", testA, fx(1_000_000), fx(1_000_000)},
		{"3:1 ratio", testA, fx(500_000), fx(1_500_000)},
		{"19:1 ratio", testA, fx(100_000), fx(1_900_000)},
		{"low amplification", sdkmath.NewInt(100_000), fx(1_000_000), fx(1_000_000)},
		{"high amplification", sdkmath.NewInt(1_600_000), fx(1_000_000), fx(1_000_000)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x := []sdkmath.Int{tc.x0, tc.x1}

			d, err := SolveD(tc.a, testGamma, x, sdkmath.ZeroInt())
			require.NoError(t, err)

			for i := 0; i < 2; i++ {
				blanked := []sdkmath.Int{x[0], x[1]}
				blanked[i] = sdkmath.OneInt() // placeholder, never read

				y, err := SolveY(tc.a, testGamma, blanked, 2, d, i)
				require.NoError(t, err)
				requireRelClose(t, x[i], y, 10_000_000_000) // rel err < 1e-10
			}
		})
	}
}

func TestSolveY_DomainRejection(t *testing.T) {
	x := []sdkmath.Int{fx(1_000_000), sdkmath.OneInt()}
	d := fx(2_000_000)

	tests := []struct {
		name     string
		a        sdkmath.Int
		gamma    sdkmath.Int
		balances []sdkmath.Int
		n        int
		d        sdkmath.Int
		i        int
	}{
		{"index out of range", testA, testGamma, x, 2, d, 2},
		{"negative index", testA, testGamma, x, 2, d, -1},
		{"asset count mismatch", testA, testGamma, x, 3, d, 1},
		{"zero invariant", testA, testGamma, x, 2, sdkmath.ZeroInt(), 1},
		{"negative invariant", testA, testGamma, x, 2, fx(1).Neg(), 1},
		{"zero known balance", testA, testGamma, []sdkmath.Int{sdkmath.ZeroInt(), sdkmath.OneInt()}, 2, d, 1},
		{"amplification out of range", sdkmath.NewInt(1), testGamma, x, 2, d, 1},
		{"gamma out of range", testA, sdkmath.ZeroInt(), x, 2, d, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SolveY(tc.a, tc.gamma, tc.balances, tc.n, tc.d, tc.i)
			require.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestNewtonY_IterationBudget(t *testing.T) {
	x := []sdkmath.Int{fx(500_000), fx(1_500_000)}

	d, err := SolveD(testA, testGamma, x, sdkmath.ZeroInt())
	require.NoError(t, err)

	// One iteration is not enough to close a 3:1 imbalance from the derived
	// guess; the budget exhaustion must surface, not a truncated value.
	_, err = newtonY(testA, testGamma, []sdkmath.Int{x[0]}, 2, d, 1)
	require.ErrorIs(t, err, ErrConvergence)
}
