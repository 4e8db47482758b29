package base

import (
	"fmt"
	"math"

	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/spatial/r2"
)

// rect returns a w by l rectangle profile centered on the origin.
func rect(w, l, round float64, kind Rounding, facets int) (solid.Profile, error) {
	if w <= 0 || l <= 0 {
		return solid.Profile{}, fmt.Errorf("rectangle %gx%g: %w", w, l, ErrSettings)
	}
	if kind == Fillet && round > 0 {
		if round > math.Min(w, l)/2 {
			return solid.Profile{}, fmt.Errorf("rounding %g too big for %gx%g: %w", round, w, l, ErrSettings)
		}
		s, err := form2.Box(r2.Vec{X: w, Y: l}, round)
		if err != nil {
			return solid.Profile{}, err
		}
		return solid.Profile{SDF: s, Edges: edges(rectVertices(w, l), round, kind, facets)}, nil
	}
	return outline(rectVertices(w, l), round, kind, facets)
}

// rectVertices lists the corners counter clockwise from the bottom right.
func rectVertices(w, l float64) []r2.Vec {
	return []r2.Vec{
		{X: w / 2, Y: -l / 2},
		{X: w / 2, Y: l / 2},
		{X: -w / 2, Y: l / 2},
		{X: -w / 2, Y: -l / 2},
	}
}

// isoVertices returns the ISO enter L outline of a w by l key inflated by
// delta: the lower part is right aligned, the shoulder top aligned.
func isoVertices(w, l, delta float64, base, shoulder float64) []r2.Vec {
	bw := base * w
	sl := shoulder * l
	x := (w - bw) / 2
	y := (l - sl) / 2
	right := (bw + delta) / 2
	top := (l + delta) / 2
	bottom := -top
	left := -x - (w+delta)/2
	shoulderBottom := y - (sl+delta)/2
	baseLeft := -right
	return []r2.Vec{
		{X: right, Y: bottom},
		{X: right, Y: top},
		{X: left, Y: top},
		{X: left, Y: shoulderBottom},
		{X: baseLeft, Y: shoulderBottom},
		{X: baseLeft, Y: bottom},
	}
}

// outline returns the polygon profile through the counter clockwise
// vertices with every corner rounded.
func outline(vertices []r2.Vec, round float64, kind Rounding, facets int) (solid.Profile, error) {
	e := edges(vertices, round, kind, facets)
	var poly []r2.Vec
	for _, edge := range e {
		poly = append(poly, edge[:len(edge)-1]...)
	}
	s, err := form2.Polygon(poly)
	if err != nil {
		return solid.Profile{}, err
	}
	return solid.Profile{SDF: s, Edges: e}, nil
}

// edges splits an outline into composite edges: each side followed by the
// rounded corner that ends it.
func edges(vertices []r2.Vec, round float64, kind Rounding, facets int) [][]r2.Vec {
	n := len(vertices)
	corners := make([][]r2.Vec, n)
	for i := range vertices {
		corners[i] = corner(vertices[(i+n-1)%n], vertices[i], vertices[(i+1)%n], round, kind, facets)
	}
	out := make([][]r2.Vec, n)
	for i := range out {
		c := corners[i]
		edge := []r2.Vec{c[len(c)-1]}
		out[i] = append(edge, corners[(i+1)%n]...)
	}
	return out
}

// corner returns the points replacing vertex v between prev and next.
func corner(prev, v, next r2.Vec, round float64, kind Rounding, facets int) []r2.Vec {
	if round <= 0 || kind == None {
		return []r2.Vec{v}
	}
	d1 := r2.Unit(r2.Sub(v, prev))
	d2 := r2.Unit(r2.Sub(next, v))
	theta := math.Acos(sdf.Clamp(r2.Dot(r2.Scale(-1, d1), d2), -1, 1))
	if kind == Chamfer {
		return []r2.Vec{r2.Sub(v, r2.Scale(round, d1)), r2.Add(v, r2.Scale(round, d2))}
	}
	t := round / math.Tan(theta/2)
	a := r2.Sub(v, r2.Scale(t, d1))
	b := r2.Add(v, r2.Scale(t, d2))
	bisector := r2.Unit(r2.Add(r2.Scale(-1, d1), d2))
	c := r2.Add(v, r2.Scale(round/math.Sin(theta/2), bisector))
	a0 := math.Atan2(a.Y-c.Y, a.X-c.X)
	a1 := math.Atan2(b.Y-c.Y, b.X-c.X)
	sweep := a1 - a0
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep < -math.Pi {
		sweep += 2 * math.Pi
	}
	steps := int(math.Ceil(float64(facets) * math.Abs(sweep) / (math.Pi / 2)))
	if steps < 1 {
		steps = 1
	}
	pts := make([]r2.Vec, steps+1)
	for i := range pts {
		ang := a0 + sweep*float64(i)/float64(steps)
		pts[i] = r2.Vec{X: c.X + round*math.Cos(ang), Y: c.Y + round*math.Sin(ang)}
	}
	pts[0], pts[steps] = a, b
	return pts
}
