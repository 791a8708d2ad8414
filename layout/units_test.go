package layout

import (
	"math"
	"testing"
)

func TestUnitConversionRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 9, 12.5, 297} {
		if diff := math.Abs(MmPT(PtMM(v)) - v); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: v=%g diff=%g", v, diff)
		}
	}
}

func TestPtMMKnownValue(t *testing.T) {
	// 1pt = 0.352777mm
	if diff := math.Abs(PtMM(10) - 3.52777); diff > 1e-9 {
		t.Fatalf("10pt 应为 3.52777mm，误差 %g", diff)
	}
}
