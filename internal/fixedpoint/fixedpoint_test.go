package fixedpoint

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestMulOverflow(t *testing.T) {
	big := sdkmath.NewIntWithDecimal(1, 40)

	// 1e40 * 1e40 = 1e80 needs more than 256 bits.
	_, err := Mul(big, big)
	require.ErrorIs(t, err, ErrOverflow)

	// 1e40 * 1e18 fits comfortably.
	got, err := Mul(big, One())
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.NewIntWithDecimal(1, 58)))
}

func TestDivByZero(t *testing.T) {
	_, err := Div(One(), sdkmath.ZeroInt())
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = MulDiv(One(), One(), sdkmath.ZeroInt())
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivTruncates(t *testing.T) {
	got, err := Div(sdkmath.NewInt(7), sdkmath.NewInt(2))
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.NewInt(3)))

	got, err = MulDiv(sdkmath.NewInt(7), sdkmath.NewInt(3), sdkmath.NewInt(2))
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.NewInt(10)))
}

func TestSubNegative(t *testing.T) {
	_, err := Sub(sdkmath.NewInt(1), sdkmath.NewInt(2))
	require.ErrorIs(t, err, ErrNegative)

	got, err := Sub(sdkmath.NewInt(5), sdkmath.NewInt(2))
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.NewInt(3)))
}

func TestPow(t *testing.T) {
	got, err := Pow(sdkmath.NewInt(2), 10)
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.NewInt(1024)))

	got, err = Pow(sdkmath.NewInt(7), 0)
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.OneInt()))

	// 1e40 squared exceeds the 256-bit range.
	_, err = Pow(sdkmath.NewIntWithDecimal(1, 40), 2)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestAbsDiffAndMax(t *testing.T) {
	a := sdkmath.NewInt(10)
	b := sdkmath.NewInt(4)

	require.True(t, AbsDiff(a, b).Equal(sdkmath.NewInt(6)))
	require.True(t, AbsDiff(b, a).Equal(sdkmath.NewInt(6)))
	require.True(t, Max(a, b).Equal(a))
	require.True(t, Max(b, a).Equal(a))
}
