package utils

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestFixedToFloat64(t *testing.T) {
	got, err := FixedToFloat64(sdkmath.NewIntWithDecimal(25, 17), 18)
	require.NoError(t, err)
	require.InDelta(t, 2.5, got, 1e-12)

	got, err = FixedToFloat64(sdkmath.NewInt(1_500_000), 6)
	require.NoError(t, err)
	require.InDelta(t, 1.5, got, 1e-12)
}

func TestFixedToFloat64_Rejections(t *testing.T) {
	_, err := FixedToFloat64(sdkmath.NewInt(1), -1)
	require.ErrorIs(t, err, ErrInvalidPrecision)

	_, err = FixedToFloat64(sdkmath.NewInt(1), 19)
	require.ErrorIs(t, err, ErrInvalidPrecision)

	_, err = FixedToFloat64(sdkmath.Int{}, 18)
	require.ErrorIs(t, err, ErrAmountNil)

	_, err = FixedToFloat64(sdkmath.NewInt(-1), 18)
	require.ErrorIs(t, err, ErrAmountNegative)
}

func TestFloat64ToFixed(t *testing.T) {
	got, err := Float64ToFixed(2.5, 18)
	require.NoError(t, err)
	require.True(t, got.Equal(sdkmath.NewIntWithDecimal(25, 17)))

	got, err = Float64ToFixed(0, 18)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestFloat64ToFixed_Rejections(t *testing.T) {
	_, err := Float64ToFixed(1.0, 19)
	require.ErrorIs(t, err, ErrInvalidPrecision)

	_, err = Float64ToFixed(math.NaN(), 18)
	require.ErrorIs(t, err, ErrNotFinite)

	_, err = Float64ToFixed(math.Inf(1), 18)
	require.ErrorIs(t, err, ErrNotFinite)

	_, err = Float64ToFixed(-1.0, 18)
	require.ErrorIs(t, err, ErrAmountNegative)
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0.000001, 1, 123.456789, 1_000_000} {
		fixed, err := Float64ToFixed(v, 6)
		require.NoError(t, err)

		back, err := FixedToFloat64(fixed, 6)
		require.NoError(t, err)
		require.InDelta(t, v, back, 1e-6)
	}
}
