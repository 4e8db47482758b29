package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/soypat/keycap/form3/must3"
	"github.com/soypat/keycap/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTetraOrientation(t *testing.T) {
	p := [4]r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	for _, test := range []struct {
		v       [4]float64
		want    int
		outward r3.Vec
	}{
		{[4]float64{-1, 1, 1, 1}, 1, r3.Vec{X: 1, Y: 1, Z: 1}},
		{[4]float64{1, -1, -1, -1}, 1, r3.Vec{X: -1, Y: -1, Z: -1}},
		{[4]float64{-1, -1, 1, 1}, 2, r3.Vec{X: -1, Y: 1, Z: 1}},
		{[4]float64{1, 1, 1, 1}, 0, r3.Vec{}},
		{[4]float64{-1, -1, -1, -1}, 0, r3.Vec{}},
	} {
		var dst [2]Triangle3
		n := tetraTriangles(dst[:], p, test.v)
		if n != test.want {
			t.Errorf("values %v: got %d triangles, want %d", test.v, n, test.want)
			continue
		}
		for _, tri := range dst[:n] {
			if r3.Dot(tri.Normal(), test.outward) <= 0 {
				t.Errorf("values %v: triangle normal %v points inwards", test.v, tri.Normal())
			}
		}
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const (
		quality = 60
		tol     = 1e-5
	)
	s0 := must3.Box(r3.Vec{X: 16, Y: 12, Z: 8}, 2)
	size := r3.Norm(d3.Box(s0.Bounds()).Size())
	rtol := tol * size
	input, err := RenderAll(NewOctreeRenderer(s0, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	output, err := readBinarySTL(&b)
	if err != nil && !errors.Is(err, errCalculatedNormalMismatch) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatalf("wrote %d triangles, read %d", len(input), len(output))
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], rtol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestOctreeConcurrent(t *testing.T) {
	sequential, err := RenderAll(NewOctreeRenderer(must3.Sphere(20), 50))
	if err != nil {
		t.Fatal(err)
	}
	concurrent, err := RenderAll(NewOctreeRenderer(must3.Sphere(20), 50).SetConcurrency(4))
	if err != nil {
		t.Fatal(err)
	}
	if len(sequential) == 0 || len(sequential) != len(concurrent) {
		t.Errorf("sequential render has %d triangles, concurrent %d", len(sequential), len(concurrent))
	}
}
