package legend

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/form2/must2"
	"github.com/soypat/keycap/internal/d2"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyWall is returned when the wall to engrave cannot be measured.
var ErrEmptyWall = errors.New("legend wall not found")

// outside is how far the text prism reaches out of the wall so that it
// breaks the surface along the whole tilted wall.
const outside = 0.5

// Resolve returns the wall normal of side for a stem rotation in degrees.
func (s Side) Resolve(rotation float64) Side {
	if s != Auto {
		return s
	}
	switch r := int(math.Round(math.Mod(math.Mod(rotation, 360)+360, 360))); r {
	case 90:
		return Left
	case 180:
		return Front
	case 270:
		return Right
	}
	return Back
}

// Normal returns the outward direction of the wall.
func (s Side) Normal() r3.Vec {
	switch s {
	case Front:
		return r3.Vec{Y: -1}
	case Left:
		return r3.Vec{X: -1}
	case Right:
		return r3.Vec{X: 1}
	}
	return r3.Vec{Y: 1}
}

// Apply engraves the legend into cap on the wall measured on ref. It
// returns the engraved cap and the solid of the removed text. Empty text
// returns cap and a nil text solid.
func Apply(cap, ref solid.Solid, s Settings, rotation float64) (engraved solid.Solid, text *solid.Solid, err error) {
	if s.Text == "" {
		return cap, nil, nil
	}
	if s.Size <= 0 || s.Depth <= 0 {
		return solid.Solid{}, nil, fmt.Errorf("legend size %g depth %g must be positive", s.Size, s.Depth)
	}
	f, err := LoadFont(s.Font)
	if err != nil {
		return solid.Solid{}, nil, err
	}
	facets := s.Facets
	if facets < 1 {
		facets = 4
	}
	glyphs, err := form2.Text(f, s.Text, s.Size, facets)
	if err != nil {
		return solid.Solid{}, nil, err
	}
	tb := d2.Box(glyphs.Bounds())
	shift := r2.Vec{X: s.X, Y: s.Y}
	switch s.HAlign {
	case HLeft:
		shift.X -= tb.Min.X
	case HRight:
		shift.X -= tb.Max.X
	default:
		shift.X -= tb.Center().X
	}
	switch s.VAlign {
	case VBottom:
		shift.Y -= tb.Min.Y
	case VTop:
		shift.Y -= tb.Max.Y
	default:
		shift.Y -= tb.Center().Y
	}
	glyphs = sdf.Translate2D(glyphs, shift)

	m, err := wallFrame(ref, s.Side.Resolve(rotation))
	if err != nil {
		return solid.Solid{}, nil, err
	}
	prism := sdf.Extrude3D(glyphs, s.Depth+outside)
	prism = sdf.Translate3D(prism, r3.Vec{Z: (outside - s.Depth) / 2})
	prism = sdf.Transform3D(prism, m)

	b := solid.NewBuilder(prism)
	bb := glyphs.Bounds()
	var samples []r3.Vec
	const n = 8
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			p := r2.Vec{
				X: bb.Min.X + (bb.Max.X-bb.Min.X)*float64(i)/n,
				Y: bb.Min.Y + (bb.Max.Y-bb.Min.Y)*float64(j)/n,
			}
			if glyphs.Evaluate(p) < 0 {
				samples = append(samples, m.MulPosition(r3.Vec{X: p.X, Y: p.Y, Z: -s.Depth}))
			}
		}
	}
	if len(samples) > 0 {
		b.AddFace(solid.Planar, samples)
	}
	body := b.Solid()
	engraved = solid.Cut(cap, body, solid.Hook{})
	t := solid.Intersect(body, cap, solid.Hook{})
	return engraved, &t, nil
}

// wallFrame measures the wall of ref facing side and returns the frame
// whose X axis runs along the wall as read from outside, Y axis up the
// wall and Z axis out of it, centered on the wall at mid height.
func wallFrame(ref solid.Solid, side Side) (sdf.M44, error) {
	bb, err := ref.Bounds()
	if err != nil {
		return sdf.M44{}, err
	}
	h := bb.Max.Z - bb.Min.Z
	n := side.Normal()
	n2 := r2.Vec{X: n.X, Y: n.Y}
	z0, z1 := bb.Min.Z+0.2*h, bb.Min.Z+0.6*h
	e0, ok0 := sdf.MaxAlong2(ref.Section(z0), n2, solid.Tolerance)
	e1, ok1 := sdf.MaxAlong2(ref.Section(z1), n2, solid.Tolerance)
	if !ok0 || !ok1 {
		return sdf.M44{}, fmt.Errorf("%v wall: %w", side, ErrEmptyWall)
	}
	slope := (e1 - e0) / (z1 - z0)
	zc := bb.Min.Z + h/2
	ec := e0 + slope*(zc-z0)
	// lateral center of the wall.
	right := r3.Cross(r3.Vec{Z: 1}, n)
	r2d := r2.Vec{X: right.X, Y: right.Y}
	sec := ref.Section(zc)
	hiR, okR := sdf.MaxAlong2(sec, r2d, solid.Tolerance)
	hiL, okL := sdf.MaxAlong2(sec, r2.Scale(-1, r2d), solid.Tolerance)
	lateral := 0.0
	if okR && okL {
		lateral = (hiR - hiL) / 2
	}
	up := r3.Unit(r3.Add(r3.Vec{Z: 1}, r3.Scale(slope, n)))
	out := r3.Unit(r3.Sub(n, r3.Scale(slope, r3.Vec{Z: 1})))
	c := r3.Add(r3.Add(r3.Scale(ec, n), r3.Scale(lateral, right)), r3.Vec{Z: zc})
	return sdf.M44{
		right.X, up.X, out.X, c.X,
		right.Y, up.Y, out.Y, c.Y,
		right.Z, up.Z, out.Z, c.Z,
		0, 0, 0, 1,
	}, nil
}

// Contours returns the outlines of the legend text, for 2D exports.
func Contours(s Settings) ([][]r2.Vec, error) {
	f, err := LoadFont(s.Font)
	if err != nil {
		return nil, err
	}
	if s.Size <= 0 {
		return nil, fmt.Errorf("legend size %g must be positive", s.Size)
	}
	facets := s.Facets
	if facets < 1 {
		facets = 4
	}
	return must2.TextContours(f, s.Text, s.Size, facets), nil
}
