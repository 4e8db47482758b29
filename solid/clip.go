package solid

import (
	"github.com/soypat/keycap/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// halfSpace is the set of points on the side of a plane n points to,
// bounded by a box for rendering purposes.
type halfSpace struct {
	a, n r3.Vec
	bb   r3.Box
}

func (h halfSpace) Evaluate(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(h.a, p), h.n)
}

func (h halfSpace) Bounds() r3.Box { return h.bb }

// Clip keeps the part of s on the side of the plane through a that n
// points to. A non-empty hook names the blend site of the cut rim.
func Clip(s Solid, a, n r3.Vec, h Hook) Solid {
	n = r3.Unit(n)
	bb := d3.Box(s.sdf.Bounds())
	diag := r3.Norm(bb.Size())
	hs := halfSpace{a: a, n: n, bb: r3.Box(bb.Enlarge(r3.Vec{X: diag, Y: diag, Z: diag}))}

	// samples of the plane patch covering the bounds of s.
	u := r3.Cross(n, r3.Vec{X: 1})
	if r3.Norm(u) < 1e-6 {
		u = r3.Cross(n, r3.Vec{Y: 1})
	}
	u = r3.Unit(u)
	v := r3.Cross(n, u)
	c := bb.Center()
	origin := r3.Sub(c, r3.Scale(r3.Dot(r3.Sub(c, a), n), n))
	half := diag / 2
	const grid = 24
	var samples []r3.Vec
	for i := 0; i <= grid; i++ {
		for j := 0; j <= grid; j++ {
			du := half * (2*float64(i)/grid - 1)
			dv := half * (2*float64(j)/grid - 1)
			samples = append(samples, r3.Add(origin, r3.Add(r3.Scale(du, u), r3.Scale(dv, v))))
		}
	}
	b := NewBuilder(hs)
	b.AddFace(Planar, samples)
	return Intersect(s, b.Solid(), h)
}
