package solid_test

import (
	"errors"
	"testing"

	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func square(t *testing.T, side float64) solid.Profile {
	t.Helper()
	s, err := form2.Box(r2.Vec{X: side, Y: side}, 0)
	if err != nil {
		t.Fatal(err)
	}
	h := side / 2
	v := []r2.Vec{{X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}, {X: -h, Y: -h}}
	edges := make([][]r2.Vec, len(v))
	for i := range v {
		edges[i] = []r2.Vec{v[i], v[(i+1)%len(v)]}
	}
	return solid.Profile{SDF: s, Edges: edges}
}

// block is a side x side x height box standing on z=0.
func block(t *testing.T, tag string, side, height float64) solid.Solid {
	t.Helper()
	p := square(t, side)
	s, err := solid.Loft(solid.LoftParms{Tag: tag, Bottom: p, Top: p, Height: height})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoftBox(t *testing.T) {
	s := block(t, "box", 10, 5)
	bb, err := s.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	want := r3.Box{Min: r3.Vec{X: -5, Y: -5}, Max: r3.Vec{X: 5, Y: 5, Z: 5}}
	for _, v := range [][2]float64{
		{bb.Min.X, want.Min.X}, {bb.Min.Y, want.Min.Y}, {bb.Min.Z, want.Min.Z},
		{bb.Max.X, want.Max.X}, {bb.Max.Y, want.Max.Y}, {bb.Max.Z, want.Max.Z},
	} {
		if !scalar.EqualWithinAbs(v[0], v[1], 2*solid.Tolerance) {
			t.Fatalf("bounds %+v, want %+v", bb, want)
		}
	}
	if got := len(s.Faces()); got != 6 {
		t.Errorf("box has %d faces", got)
	}
	if got := s.Edges(solid.Planar); got != 12 {
		t.Errorf("box has %d planar face edges, want 12", got)
	}
	if got := s.Edges(solid.Curved); got != 0 {
		t.Errorf("box has %d curved face edges", got)
	}
	top, err := s.FaceBounds(solid.Top(0))
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(top.Min.Z, 5, 1e-9) || !scalar.EqualWithinAbs(top.Max.Z, 5, 1e-9) {
		t.Errorf("top face spans z %g..%g", top.Min.Z, top.Max.Z)
	}
	hooks := s.Hooks(solid.Top(0))
	if len(hooks) != 1 || hooks[0].Name != "box.top" || hooks[0].Limit != 5 {
		t.Errorf("top hooks %+v", hooks)
	}
	if _, err := s.SectionBounds(6); !errors.Is(err, solid.ErrEmpty) {
		t.Errorf("section above the box: %v", err)
	}
}

func TestLoftErrors(t *testing.T) {
	p := square(t, 10)
	for _, parms := range []solid.LoftParms{
		{Bottom: p, Top: p},
		{Bottom: p, Top: solid.Profile{SDF: p.SDF, Edges: p.Edges[:3]}, Height: 1},
		{Bottom: solid.Profile{Edges: p.Edges}, Top: p, Height: 1},
	} {
		if _, err := solid.Loft(parms); !errors.Is(err, solid.ErrProfile) {
			t.Errorf("got %v, want ErrProfile", err)
		}
	}
}

func TestBoolean(t *testing.T) {
	a := block(t, "a", 10, 5)
	b := solid.Translate(block(t, "b", 10, 5), r3.Vec{X: 6})
	inA, inB, inBoth := r3.Vec{X: -3, Z: 1}, r3.Vec{X: 9, Z: 1}, r3.Vec{X: 3, Z: 1}
	for _, test := range []struct {
		name  string
		s     solid.Solid
		wantA bool
		wantB bool
		both  bool
	}{
		{"union", solid.Union(a, b), true, true, true},
		{"cut", solid.Cut(a, b, solid.Hook{}), true, false, false},
		{"intersect", solid.Intersect(a, b, solid.Hook{}), false, false, true},
	} {
		if got := test.s.Contains(inA); got != test.wantA {
			t.Errorf("%s: contains %v = %v", test.name, inA, got)
		}
		if got := test.s.Contains(inB); got != test.wantB {
			t.Errorf("%s: contains %v = %v", test.name, inB, got)
		}
		if got := test.s.Contains(inBoth); got != test.both {
			t.Errorf("%s: contains %v = %v", test.name, inBoth, got)
		}
	}
	if !a.Contains(inBoth) {
		t.Error("operand modified")
	}
}

func TestStepSelection(t *testing.T) {
	s := solid.Union(block(t, "low", 10, 3), solid.Translate(block(t, "high", 4, 6), r3.Vec{X: 2}))
	high, err := s.FaceBounds(solid.Top(0))
	if err != nil {
		t.Fatal(err)
	}
	low, err := s.FaceBounds(solid.Top(1))
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(high.Max.Z, 6, 1e-9) || !scalar.EqualWithinAbs(low.Max.Z, 3, 1e-9) {
		t.Errorf("top levels at %g and %g, want 6 and 3", high.Max.Z, low.Max.Z)
	}
	if _, err := s.FaceBounds(solid.Top(2)); !errors.Is(err, solid.ErrEmpty) {
		t.Errorf("third level: %v", err)
	}
	bottom, err := s.FaceBounds(solid.Bottom())
	if err != nil {
		t.Fatal(err)
	}
	if bottom.Max.Z != 0 {
		t.Errorf("bottom face at z=%g", bottom.Max.Z)
	}
}

func TestFillet(t *testing.T) {
	s := block(t, "box", 10, 5)
	rim := r3.Vec{X: 4.9, Z: 4.9}
	if !s.Contains(rim) {
		t.Fatal("sharp box does not contain its rim")
	}
	round, err := solid.Fillet(s, solid.Top(0), solid.Blend{Kind: solid.Round, Radius: 1})
	if err != nil {
		t.Fatal(err)
	}
	if round.Contains(rim) {
		t.Error("fillet left the rim sharp")
	}
	if !s.Contains(rim) {
		t.Error("fillet modified its operand")
	}
	if !round.Contains(r3.Vec{Z: 4.9}) {
		t.Error("fillet removed the top center")
	}
	for _, b := range []solid.Blend{{Radius: 0}, {Radius: 6}} {
		if _, err := solid.Fillet(s, solid.Top(0), b); !errors.Is(err, solid.ErrFillet) {
			t.Errorf("radius %g: got %v, want ErrFillet", b.Radius, err)
		}
	}
	if _, err := solid.Fillet(s, solid.Facing(r3.Vec{X: 1, Y: 1, Z: -5}), solid.Blend{Radius: 1}); err != nil {
		t.Errorf("bottom selection: %v", err)
	}
}

func TestMaxFillet(t *testing.T) {
	s := solid.Union(block(t, "low", 10, 3), solid.Translate(block(t, "high", 4, 6), r3.Vec{X: 2}))
	const tol = 1e-3
	r, err := solid.MaxFillet(s, solid.Top(0), tol, 100)
	if err != nil {
		t.Fatal(err)
	}
	hooks := s.Hooks(solid.Top(0))
	if len(hooks) != 1 {
		t.Fatalf("top hooks %+v", hooks)
	}
	if r > hooks[0].Limit || hooks[0].Limit-r > tol {
		t.Errorf("max fillet %g, hook limit %g", r, hooks[0].Limit)
	}
	if _, err := solid.MaxFillet(s, solid.Top(0), 0, 100); !errors.Is(err, solid.ErrNoConvergence) {
		t.Errorf("zero tolerance: %v", err)
	}
	if _, err := solid.MaxFillet(s, solid.Top(0), 1e-12, 3); !errors.Is(err, solid.ErrNoConvergence) {
		t.Errorf("three iterations: %v", err)
	}
}

func TestTransform(t *testing.T) {
	s := solid.RotateZ(solid.Translate(block(t, "box", 10, 5), r3.Vec{X: 10}), 90)
	bb, err := s.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(bb.Min.Y, 5, 2*solid.Tolerance) || !scalar.EqualWithinAbs(bb.Max.Y, 15, 2*solid.Tolerance) {
		t.Errorf("rotated bounds %+v", bb)
	}
	top, err := s.FaceBounds(solid.Top(0))
	if err != nil {
		t.Fatal(err)
	}
	if top.Min.Y < 5-1e-9 {
		t.Errorf("face records not transformed: %+v", top)
	}
}
