// Package dish carves the finger depression into the top of a keycap.
package dish

import (
	"fmt"
	"math"

	"github.com/soypat/keycap/form3"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hook is the name of the blend site at the dish rim.
const Hook = "dish"

// Settings describes the dish. Lengths are millimetres.
type Settings struct {
	// Height of the cap the dish is cut into.
	Height float64
	// Width and Length of the cap footprint.
	Width, Length float64
	// Thickness is the depth of the dish.
	Thickness float64
	Row       int
	Inverted  bool
	// Thick deepens the dish by half, for scooped homing keys.
	Thick bool
	ISO   bool
	// TopDiff is the top outline size minus the footprint size.
	TopDiff float64
}

// Apply cuts the dish into the highest up facing face of cap, or for
// inverted dishes replaces the cap top with a dome.
func Apply(cap solid.Solid, s Settings) (solid.Solid, error) {
	if s.Thickness <= 0 {
		return solid.Solid{}, fmt.Errorf("dish thickness %g must be positive", s.Thickness)
	}
	adj, err := row.Lookup(s.Row)
	if err != nil {
		return solid.Solid{}, err
	}
	top, err := cap.FaceBounds(solid.Top(0))
	if err != nil {
		return solid.Solid{}, fmt.Errorf("measuring top face: %w", err)
	}
	bb, err := cap.Bounds()
	if err != nil {
		return solid.Solid{}, err
	}
	size := r3.Sub(top.Max, top.Min)
	ddOrig := math.Hypot(size.X, size.Y) + 1
	dd := ddOrig + adj.ExtraDiagonal
	if s.Inverted {
		dd = ddOrig + adj.ExtraDiagonalInverted
	}
	hook := solid.Hook{Name: Hook, Limit: math.Min(size.X, size.Y) / 2}
	h := bb.Max.Z
	c := s.Thickness
	if s.Thick {
		c *= 1.5
	}
	if s.Inverted {
		return inverted(cap, s, adj, dd, ddOrig, c, h, hook)
	}
	cutter, err := bowl(dd, c)
	if err != nil {
		return solid.Solid{}, err
	}
	m := sdf.Translate3d(r3.Vec{Z: h}).
		Mul(sdf.RotateX(sdf.DtoR(adj.Angle))).
		Mul(sdf.Translate3d(r3.Vec{Y: adj.TranslateY, Z: adj.TranslateZ}))
	return solid.Cut(cap, solid.Transform(cutter, m), hook), nil
}

// bowl returns the ellipsoid with semi-axes dd/2, dd/2, c united with a
// cylinder of its equator extruded dd upwards.
func bowl(dd, c float64) (solid.Solid, error) {
	a := dd / 2
	ell, err := form3.Ellipsoid(r3.Vec{X: a, Y: a, Z: c})
	if err != nil {
		return solid.Solid{}, err
	}
	cyl, err := form3.Cylinder(dd, a, 0)
	if err != nil {
		return solid.Solid{}, err
	}
	cyl = sdf.Translate3D(cyl, r3.Vec{Z: dd / 2})
	b := solid.NewBuilder(sdf.Union3D(ell, cyl))

	pole := b.AddEdge([]r3.Vec{{Z: -c}})
	seam := b.AddEdge(meridian(a, c, 0, -1))
	equator := b.AddEdge(circle(a, 0))
	rim := b.AddEdge(circle(a, dd))
	b.AddFace(solid.Curved, hemisphere(a, c, -1), pole, seam, equator)
	b.AddFace(solid.Curved, wall(a, 0, dd), equator, rim)
	b.AddFace(solid.Planar, disk(a, dd), rim)
	return b.Solid(), nil
}

// dome returns the upper half of the ellipsoid standing on a conical
// skirt that widens down to radius r over height bh.
func dome(dd, c, r, bh float64) (solid.Solid, error) {
	a := dd / 2
	ell, err := form3.Ellipsoid(r3.Vec{X: a, Y: a, Z: c})
	if err != nil {
		return solid.Solid{}, err
	}
	cone, err := form3.Cone(bh, r, a, 0)
	if err != nil {
		return solid.Solid{}, err
	}
	cone = sdf.Translate3D(cone, r3.Vec{Z: -bh/2 + 0.1})
	b := solid.NewBuilder(sdf.Union3D(ell, cone))
	pole := b.AddEdge([]r3.Vec{{Z: c}})
	seam := b.AddEdge(meridian(a, c, 0, 1))
	equator := b.AddEdge(circle(a, 0.1))
	base := b.AddEdge(circle(r, -bh+0.1))
	b.AddFace(solid.Curved, hemisphere(a, c, 1), pole, seam, equator)
	b.AddFace(solid.Curved, skirt(a, r, 0.1, -bh+0.1), equator, base)
	b.AddFace(solid.Planar, disk(r, -bh+0.1), base)
	return b.Solid(), nil
}

func inverted(cap solid.Solid, s Settings, adj row.Adjust, dd, ddOrig, c, h float64, hook solid.Hook) (solid.Solid, error) {
	r := ddOrig/2 + math.Abs(s.TopDiff)/2 + 1
	bh := s.Height - c + 0.1
	if bh <= 0.2 {
		return solid.Solid{}, fmt.Errorf("cap height %g too low for inverted dish", s.Height)
	}
	d, err := dome(dd, c, r, bh)
	if err != nil {
		return solid.Solid{}, err
	}
	m := sdf.Translate3d(r3.Vec{Z: h}).
		Mul(sdf.RotateX(sdf.DtoR(adj.Angle))).
		Mul(sdf.Translate3d(r3.Vec{Y: adj.TranslateY, Z: adj.TranslateZInverted}))
	insert := solid.Intersect(cap, solid.Transform(d, m), hook)
	rim := h + adj.TranslateZInverted
	below := solid.Clip(cap, r3.Vec{Z: rim}, r3.Vec{Z: -1}, solid.Hook{})
	return solid.Union(below, insert), nil
}

const (
	rings   = 8
	sectors = 16
)

// meridian samples the ellipse arc at azimuth phi from the pole on side
// sign (-1 lower, 1 upper) to the equator.
func meridian(a, c, phi, sign float64) []r3.Vec {
	pts := make([]r3.Vec, rings+1)
	for i := range pts {
		t := float64(i) / rings * math.Pi / 2
		pts[i] = r3.Vec{
			X: a * math.Sin(t) * math.Cos(phi),
			Y: a * math.Sin(t) * math.Sin(phi),
			Z: sign * c * math.Cos(t),
		}
	}
	return pts
}

// hemisphere samples the half ellipsoid on side sign.
func hemisphere(a, c, sign float64) []r3.Vec {
	var pts []r3.Vec
	for j := 0; j < sectors; j++ {
		phi := 2 * math.Pi * float64(j) / sectors
		pts = append(pts, meridian(a, c, phi, sign)[1:rings]...)
	}
	return append(pts, r3.Vec{Z: sign * c})
}

func circle(r, z float64) []r3.Vec {
	pts := make([]r3.Vec, sectors)
	for j := range pts {
		phi := 2 * math.Pi * float64(j) / sectors
		pts[j] = r3.Vec{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
	}
	return pts
}

func wall(r, z0, z1 float64) []r3.Vec {
	return skirt(r, r, z0, z1)
}

// skirt samples the conical surface between radius r0 at z0 and r1 at z1.
func skirt(r0, r1, z0, z1 float64) []r3.Vec {
	var pts []r3.Vec
	for i := 1; i < rings; i++ {
		t := float64(i) / rings
		pts = append(pts, circle(r0+(r1-r0)*t, z0+(z1-z0)*t)...)
	}
	return pts
}

func disk(r, z float64) []r3.Vec {
	var pts []r3.Vec
	for i := 1; i < rings; i++ {
		pts = append(pts, circle(r*float64(i)/rings, z)...)
	}
	return append(pts, r3.Vec{Z: z})
}
