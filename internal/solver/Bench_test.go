package solver

import (
	"testing"

	sdkmath "cosmossdk.io/math"
)

func BenchmarkSolveD(b *testing.B) {
	x := []sdkmath.Int{fx(500_000), fx(1_500_000)}
	zero := sdkmath.ZeroInt()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SolveD(testA, testGamma, x, zero); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveY(b *testing.B) {
	x := []sdkmath.Int{fx(500_000), fx(1_500_000)}

	d, err := SolveD(testA, testGamma, x, sdkmath.ZeroInt())
	if err != nil {
		b.Fatal(err)
	}
	blanked := []sdkmath.Int{x[0], sdkmath.OneInt()}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SolveY(testA, testGamma, blanked, 2, d, 1); err != nil {
			b.Fatal(err)
		}
	}
}
