package sdf

import (
	"math"

	"github.com/soypat/keycap/internal/d2"
	"github.com/soypat/keycap/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MillimetresPerInch is millimetres per inch (25.4)
	MillimetresPerInch = 25.4
	// InchesPerMillimetre is inches per millimetre
	InchesPerMillimetre = 1.0 / MillimetresPerInch
)

const (
	pi        = math.Pi
	sqrtHalf  = 0.7071067811865476
	tolerance = 1e-9
	epsilon   = 1e-12
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Mix does a linear interpolation from x to y, a = [0,1]
func Mix(x, y, a float64) float64 {
	return x + (a * (y - x))
}

// Sign returns the sign of x
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// RoundMin returns a minimum function that uses a quarter-circle to join the two objects smoothly.
func RoundMin(k float64) MinFunc {
	return func(a, b float64) float64 {
		u := d2.MaxElem(r2.Vec{X: k - a, Y: k - b}, r2.Vec{})
		return math.Max(k, math.Min(a, b)) - r2.Norm(u)
	}
}

// RoundMax returns a maximum function that rounds the convex edge where
// two objects intersect with a quarter-circle of radius k.
func RoundMax(k float64) MaxFunc {
	return func(a, b float64) float64 {
		u := d2.MaxElem(r2.Vec{X: k + a, Y: k + b}, r2.Vec{})
		return math.Min(-k, math.Max(a, b)) + r2.Norm(u)
	}
}

// ChamferMin returns a minimum function that makes a 45-degree chamfered edge (the diagonal of a square of size <r>).
func ChamferMin(k float64) MinFunc {
	return func(a, b float64) float64 {
		return math.Min(math.Min(a, b), (a-k+b)*sqrtHalf)
	}
}

// ChamferMax returns a maximum function that bevels the convex edge
// where two objects intersect at 45 degrees.
func ChamferMax(k float64) MaxFunc {
	return func(a, b float64) float64 {
		return math.Max(math.Max(a, b), (a+b+k)*sqrtHalf)
	}
}

func poly(a, b, k float64) float64 {
	h := Clamp(0.5+0.5*(b-a)/k, 0.0, 1.0)
	return Mix(b, a, h) - k*h*(1.0-h)
}

// MaxFunc is a maximum function for SDF blending.
type MaxFunc func(a, b float64) float64

// Normals

// Normal3 returns the normal of an SDF3 at a point (doesn't need to be on the surface).
// Computed by sampling it several times inside a box of side 2*eps centered on p.
func Normal3(s SDF3, p r3.Vec, eps float64) r3.Vec {
	return r3.Unit(r3.Vec{
		X: s.Evaluate(p.Add(r3.Vec{X: eps})) - s.Evaluate(p.Add(r3.Vec{X: -eps})),
		Y: s.Evaluate(p.Add(r3.Vec{Y: eps})) - s.Evaluate(p.Add(r3.Vec{Y: -eps})),
		Z: s.Evaluate(p.Add(r3.Vec{Z: eps})) - s.Evaluate(p.Add(r3.Vec{Z: -eps})),
	})
}

// mulVertices2 multiples a set of V2 vertices by a rotate/translate matrix.
func mulVertices2(v d2.Set, a M33) {
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
}

// mulVertices3 multiples a set of r3.Vec vertices by a rotate/translate matrix.
func mulVertices3(v d3.Set, a M44) {
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
}
