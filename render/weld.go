package render

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Weld merges vertices of model closer than tol and returns the indexed
// mesh. Faces that collapse are dropped.
func Weld(model []Triangle3, tol float64) Mesh {
	var (
		tree kdtree.Tree
		mesh Mesh
	)
	index := func(v r3.Vec) int {
		if got, d := tree.Nearest(weldPoint{Vec: v}); got != nil && d <= tol*tol {
			return got.(weldPoint).idx
		}
		p := weldPoint{Vec: v, idx: len(mesh.Vertices)}
		tree.Insert(p, false)
		mesh.Vertices = append(mesh.Vertices, v)
		return p.idx
	}
	for _, t := range model {
		f := [3]int{index(t.V[0]), index(t.V[1]), index(t.V[2])}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		mesh.Faces = append(mesh.Faces, f)
	}
	return mesh
}

// Check returns an error when the mesh is not closed and consistently
// oriented: every directed edge must appear once and its reverse once.
func (m Mesh) Check() error {
	type edge struct{ a, b int }
	count := make(map[edge]int, 3*len(m.Faces))
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			count[edge{f[i], f[(i+1)%3]}]++
		}
	}
	var open, repeated int
	for e, n := range count {
		if n > 1 {
			repeated++
		}
		if count[edge{e.b, e.a}] == 0 {
			open++
		}
	}
	if open > 0 || repeated > 0 {
		return fmt.Errorf("mesh not manifold: %d open and %d repeated edges", open, repeated)
	}
	return nil
}

// weldPoint is a kd-tree point carrying its vertex index.
type weldPoint struct {
	r3.Vec
	idx int
}

func (p weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(weldPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	}
	return p.Z - q.Z
}

func (p weldPoint) Dims() int { return 3 }

// Distance returns the squared distance to c.
func (p weldPoint) Distance(c kdtree.Comparable) float64 {
	d := r3.Sub(p.Vec, c.(weldPoint).Vec)
	return r3.Dot(d, d)
}
