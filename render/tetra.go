package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// cellMaxTriangles is the most triangles a cell yields: two per
// tetrahedron.
const cellMaxTriangles = 12

// cubeCorners are the unit cube corner offsets, bottom face counter
// clockwise then top face.
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// cubeTetrahedra splits a cube into six tetrahedra sharing the 0-6
// diagonal. Every cube is split the same way so faces of neighbouring
// cells match.
var cubeTetrahedra = [6][4]int{
	{0, 6, 1, 2},
	{0, 6, 2, 3},
	{0, 6, 3, 7},
	{0, 6, 7, 4},
	{0, 6, 4, 5},
	{0, 6, 5, 1},
}

// mtToTriangles writes the isosurface triangles of a cube to dst and
// returns how many were written.
func mtToTriangles(dst []Triangle3, p [8]r3.Vec, v [8]float64) int {
	n := 0
	for _, t := range cubeTetrahedra {
		n += tetraTriangles(dst[n:],
			[4]r3.Vec{p[t[0]], p[t[1]], p[t[2]], p[t[3]]},
			[4]float64{v[t[0]], v[t[1]], v[t[2]], v[t[3]]})
	}
	return n
}

func tetraTriangles(dst []Triangle3, p [4]r3.Vec, v [4]float64) int {
	var inBuf, outBuf [4]int
	in, out := inBuf[:0], outBuf[:0]
	for i := range v {
		if v[i] < 0 {
			in = append(in, i)
		} else {
			out = append(out, i)
		}
	}
	if len(in) == 0 || len(out) == 0 {
		return 0
	}
	// from the inside corners towards the outside corners.
	var cin, cout r3.Vec
	for _, i := range in {
		cin = r3.Add(cin, r3.Scale(1/float64(len(in)), p[i]))
	}
	for _, i := range out {
		cout = r3.Add(cout, r3.Scale(1/float64(len(out)), p[i]))
	}
	outward := r3.Sub(cout, cin)
	cross := func(a, b int) r3.Vec { return interpolate(p[a], p[b], v[a], v[b]) }

	n := 0
	emit := func(a, b, c r3.Vec) {
		t := Triangle3{V: [3]r3.Vec{a, b, c}}
		if t.Degenerate(0) {
			return
		}
		if r3.Dot(t.Normal(), outward) < 0 {
			t.V[1], t.V[2] = t.V[2], t.V[1]
		}
		dst[n] = t
		n++
	}
	switch len(in) {
	case 1, 3:
		lone, rest := in, out
		if len(in) == 3 {
			lone, rest = out, in
		}
		i := lone[0]
		emit(cross(i, rest[0]), cross(i, rest[1]), cross(i, rest[2]))
	case 2:
		a, b := in[0], in[1]
		c, d := out[0], out[1]
		ac, ad, bd, bc := cross(a, c), cross(a, d), cross(b, d), cross(b, c)
		emit(ac, ad, bd)
		emit(ac, bd, bc)
	}
	return n
}

// interpolate returns the zero crossing between p0 and p1.
func interpolate(p0, p1 r3.Vec, v0, v1 float64) r3.Vec {
	if v0 == v1 {
		return r3.Scale(0.5, r3.Add(p0, p1))
	}
	t := v0 / (v0 - v1)
	return r3.Add(p0, r3.Scale(t, r3.Sub(p1, p0)))
}
