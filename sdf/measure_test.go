package sdf_test

import (
	"math"
	"testing"

	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/form3"
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestExtent3(t *testing.T) {
	const tol = 1e-3
	s, err := form3.Sphere(2)
	if err != nil {
		t.Fatal(err)
	}
	// the scaled bounds of a rotated sphere are loose, its extent is not.
	rot := sdf.Transform3D(s, sdf.Translate3d(r3.Vec{X: 1}).Mul(sdf.Rotate3d(r3.Vec{X: 1, Y: 1, Z: 1}, 0.7)))
	bb := sdf.Extent3(rot, tol)
	want := r3.Box{Min: r3.Vec{X: -1, Y: -2, Z: -2}, Max: r3.Vec{X: 3, Y: 2, Z: 2}}
	for _, v := range [][2]float64{
		{bb.Min.X, want.Min.X}, {bb.Min.Y, want.Min.Y}, {bb.Min.Z, want.Min.Z},
		{bb.Max.X, want.Max.X}, {bb.Max.Y, want.Max.Y}, {bb.Max.Z, want.Max.Z},
	} {
		if !scalar.EqualWithinAbs(v[0], v[1], 2*tol) {
			t.Fatalf("extent %+v, want %+v", bb, want)
		}
	}
}

func TestMaxAlong2(t *testing.T) {
	const tol = 1e-3
	box, err := form2.Box(r2.Vec{X: 4, Y: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	diag := r2.Unit(r2.Vec{X: 1, Y: 1})
	v, ok := sdf.MaxAlong2(box, diag, tol)
	if !ok {
		t.Fatal("box has no interior")
	}
	if want := r2.Dot(r2.Vec{X: 2, Y: 1}, diag); !scalar.EqualWithinAbs(v, want, 2*tol) {
		t.Errorf("max along diagonal %g, want %g", v, want)
	}
}

func TestInverse(t *testing.T) {
	m := sdf.Translate3d(r3.Vec{X: 1, Y: -2, Z: 3}).Mul(sdf.RotateX(sdf.DtoR(30))).Mul(sdf.RotateZ(sdf.DtoR(-75)))
	p := r3.Vec{X: 0.5, Y: 7, Z: -1}
	got := m.Inverse().MulPosition(m.MulPosition(p))
	if r3.Norm(r3.Sub(got, p)) > 1e-12 {
		t.Errorf("inverse round trip %v, want %v", got, p)
	}
	if d := sdf.DtoR(180); !scalar.EqualWithinAbs(d, math.Pi, 1e-15) {
		t.Errorf("DtoR(180) = %g", d)
	}
}
