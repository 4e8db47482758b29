package render

import (
	"io"

	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteSTLASCII writes model triangles to w as an ASCII STL solid with
// the given name.
func WriteSTLASCII(w io.Writer, name string, model []Triangle3) error {
	if len(model) == 0 {
		return ErrEmptyModel
	}
	return toSTLSolid(name, model, true).WriteAll(w)
}

// ReadSTLAny reads an ASCII or binary STL model. The format is detected
// from the first bytes, after which r is rewound.
func ReadSTLAny(r io.ReadSeeker) (name string, model []Triangle3, err error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	model = make([]Triangle3, len(solid.Triangles))
	for i, t := range solid.Triangles {
		for j, v := range t.Vertices {
			model[i].V[j] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
	}
	return solid.Name, model, nil
}

func toSTLSolid(name string, model []Triangle3, ascii bool) *stl.Solid {
	solid := &stl.Solid{
		Name:      name,
		IsAscii:   ascii,
		Triangles: make([]stl.Triangle, len(model)),
	}
	for i, t := range model {
		solid.Triangles[i] = stl.Triangle{
			Normal: stl.Vec3(f32From3(t.Normal())),
			Vertices: [3]stl.Vec3{
				stl.Vec3(f32From3(t.V[0])),
				stl.Vec3(f32From3(t.V[1])),
				stl.Vec3(f32From3(t.V[2])),
			},
		}
	}
	return solid
}
