package matter

import (
	"testing"

	"github.com/soypat/keycap/form3/must3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestScale(t *testing.T) {
	s := must3.Sphere(10)
	got := PLA.Scale(s).Evaluate(r3.Vec{X: 10 * PLA.ScaleFactor()})
	if !scalar.EqualWithinAbs(got, 0, 1e-9) {
		t.Errorf("scaled surface at %g", got)
	}
	if Exact.Scale(s) != s {
		t.Error("exact material changed the shape")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"pla", "PLA", "abs", "none"} {
		if _, err := Lookup(name); err != nil {
			t.Error(err)
		}
	}
	if _, err := Lookup("wood"); err == nil {
		t.Error("unknown material found")
	}
}
