package render

import (
	"github.com/fogleman/simplify"
	"gonum.org/v1/gonum/spatial/r3"
)

// Simplify decimates model by quadric edge collapse down to about factor
// of its triangles. Factors outside (0, 1) return model unchanged.
func Simplify(model []Triangle3, factor float64) []Triangle3 {
	if factor <= 0 || factor >= 1 || len(model) == 0 {
		return model
	}
	// shared vertices must compare equal.
	welded := Weld(model, weldTol)
	tris := make([]*simplify.Triangle, len(welded.Faces))
	for i, f := range welded.Faces {
		v := welded.Vertices
		tris[i] = simplify.NewTriangle(simpVec(v[f[0]]), simpVec(v[f[1]]), simpVec(v[f[2]]))
	}
	mesh := simplify.NewMesh(tris).Simplify(factor)
	out := make([]Triangle3, 0, len(mesh.Triangles))
	for _, t := range mesh.Triangles {
		tri := Triangle3{V: [3]r3.Vec{r3Vec(t.V1), r3Vec(t.V2), r3Vec(t.V3)}}
		if !tri.Degenerate(0) {
			out = append(out, tri)
		}
	}
	return out
}

// weldTol merges vertices computed along the same cell edge.
const weldTol = 1e-9

func simpVec(v r3.Vec) simplify.Vector { return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z} }

func r3Vec(v simplify.Vector) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
