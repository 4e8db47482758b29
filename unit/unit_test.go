package unit

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.25, 1, 1.25, 1.5, 2, 2.25, 6.25, 7} {
		u := U(v)
		got := u.MM().U()
		if !scalar.EqualWithinAbs(float64(got), v, 1e-12) {
			t.Errorf("U(%g) round trip got %g", v, got)
		}
		mm := MM(v)
		if !scalar.EqualWithinAbs(float64(mm.U().MM()), v, 1e-12) {
			t.Errorf("MM(%g) round trip got %g", v, mm.U().MM())
		}
	}
	if U(1).MM() != 19.05 {
		t.Errorf("1U = %v, want 19.05mm", U(1).MM())
	}
}

func TestPercentage(t *testing.T) {
	for _, x := range []float64{-3, 0, 1, 8, 19.05} {
		if got := Percentage(1).Apply(x); got != x {
			t.Errorf("100%% of %g = %g", x, got)
		}
		if got := Percentage(0).Apply(x); got != 0 {
			t.Errorf("0%% of %g = %g", x, got)
		}
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		m    Measure
		of   float64
		want float64
	}{
		{Abs(MM(4)), 8, 4},
		{Abs(U(1)), 8, 19.05},
		{Rel(0.5), 8, 4},
		{Rel(5.0 / 7), 14, 10},
	}
	for _, test := range tests {
		if got := test.m.Resolve(test.of); !scalar.EqualWithinAbs(got, test.want, 1e-12) {
			t.Errorf("%v of %g = %g, want %g", test.m, test.of, got, test.want)
		}
	}
	var unset Measure
	if !unset.IsZero() || unset.Or(Rel(0.5)).Resolve(2) != 1 {
		t.Error("unset measure did not fall back to default")
	}
	if Abs(MM(1)).IsRelative() || !Rel(1).IsRelative() {
		t.Error("IsRelative mismatch")
	}
}
