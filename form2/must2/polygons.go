package must2

import (
	"math"

	"github.com/soypat/keycap/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// polygons is an SDF2 made of several closed contours combined with
// the even-odd rule, so that nested contours become holes.
type polygons struct {
	seg []segment
	bb  r2.Box
}

type segment struct {
	a, b r2.Vec
	u    r2.Vec  // unit vector from a to b
	l    float64 // length
}

// Polygons returns an SDF2 made from closed contours filled with the
// even-odd rule. Contours need not be closed explicitly and their
// orientation does not matter.
func Polygons(contours [][]r2.Vec) *polygons {
	s := polygons{}
	bb := d2.EmptyBox()
	for _, c := range contours {
		c = dedup(c)
		if len(c) < 3 {
			continue
		}
		for i := range c {
			a := c[i]
			b := c[(i+1)%len(c)]
			if d2.EqualWithin(a, b, tolerance) {
				continue
			}
			d := r2.Sub(b, a)
			s.seg = append(s.seg, segment{a: a, b: b, u: r2.Unit(d), l: r2.Norm(d)})
			bb = bb.Include(a)
		}
	}
	if len(s.seg) < 3 {
		panic("polygons need at least one contour with 3 vertices")
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the contours, negative inside.
func (s *polygons) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64
	inside := false
	for i := range s.seg {
		sg := &s.seg[i]
		pa := r2.Sub(p, sg.a)
		t := Clamp(r2.Dot(pa, sg.u), 0, sg.l)
		q := r2.Sub(pa, r2.Scale(t, sg.u))
		dd = math.Min(dd, r2.Norm2(q))
		// crossing test for a ray towards +X.
		if (sg.a.Y > p.Y) != (sg.b.Y > p.Y) {
			x := sg.a.X + (p.Y-sg.a.Y)*(sg.b.X-sg.a.X)/(sg.b.Y-sg.a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	d := math.Sqrt(dd)
	if inside {
		return -d
	}
	return d
}

// Bounds returns the bounding box of the contours.
func (s *polygons) Bounds() r2.Box {
	return s.bb
}

// Clamp x between a and b, assume a <= b.
func Clamp(x, a, b float64) float64 {
	return math.Max(a, math.Min(b, x))
}
