package must2

import (
	"math"

	"github.com/soypat/keycap/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	sqrtHalf  = 0.7071067811865476
	tolerance = 1e-9
)

// Sign returns the sign of x, or 0 for 0.
func Sign(x float64) float64 {
	if x == 0 {
		return 0
	}
	return math.Copysign(1, x)
}

func sdfBox2d(p, s r2.Vec) float64 {
	p = d2.AbsElem(p)
	d := r2.Sub(p, s)
	k := s.Y - s.X
	if d.X > 0 && d.Y > 0 {
		return r2.Norm(d)
	}
	if p.Y-p.X > k {
		return d.Y
	}
	return d.X
}
