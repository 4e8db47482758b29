package stem

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/form3"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSupport is returned when the support wedge does not fit in the cap.
var ErrSupport = errors.New("support wedge does not fit")

const (
	// chamfer at the stem base.
	baseChamfer = 0.24
	// gap between the wedge top and the cap ceiling.
	wedgeGap = 0.3
	// wedge thickness and length overlap.
	wedgeWidth   = 0.5
	wedgeClosing = 0.5
	// tolerance of the section measurements of the wedge.
	wedgeTol = 0.05
)

// Parms holds the cap dimensions the stems are derived from. Lengths are
// millimetres.
type Parms struct {
	Height       float64
	TopThickness float64
	Wall         float64
	BottomFillet float64
	ISO          bool
	Width        float64
	Length       float64
	// Positions of stabilizer stems relative to the cap center, before the
	// stem rotation. The stem offset does not move them. When empty they
	// follow from the long side of the cap.
	Positions []r2.Vec
	// Shell, when set, is measured for the support wedge in place of the
	// cap. Its outer outline must match the cap's up to the wedge height.
	Shell *solid.Solid
}

// SupportError reports a wedge that does not fit: the length measured at
// the named section is not positive.
type SupportError struct {
	Section string
	Length  float64
}

func (e *SupportError) Error() string {
	return fmt.Sprintf("support length %g at %s section", e.Length, e.Section)
}

func (e *SupportError) Unwrap() error { return ErrSupport }

// Build returns the stem assembly for cap: the stem, its wedge when
// supported and the stabilizer stems, rotated by the stem rotation.
func Build(cap solid.Solid, s Settings, p Parms) (solid.Solid, error) {
	h := p.Height - p.TopThickness
	if h <= 0 {
		return solid.Solid{}, fmt.Errorf("stem height %g must be positive", h)
	}
	v := s.variant()
	profile, err := v.Profile(s)
	if err != nil {
		return solid.Solid{}, err
	}
	single := sdf.Extrude3D(profile, h)
	if c, ok := v.(Cherry); ok {
		single, err = form3.ChamferedCylinder(single, baseChamfer/c.R(), 0)
		if err != nil {
			return solid.Solid{}, err
		}
	}
	single = sdf.Translate3D(single, r3.Vec{Z: h / 2})
	one := body(single, h)
	if c, ok := v.(Cherry); ok && s.Support {
		w, err := wedge(cap, s, p, c.R())
		if err != nil {
			return solid.Solid{}, err
		}
		one = solid.Union(one, w)
	}

	assembly := solid.Translate(one, s.Offset)
	for _, pos := range positions(s, p) {
		stab := solid.Translate(one, r3.Vec{X: pos.X, Y: pos.Y})
		assembly = solid.Union(assembly, stab)
	}
	return solid.RotateZ(assembly, s.Rotation), nil
}

// Add unites the stem assembly with cap.
func Add(cap solid.Solid, s Settings, p Parms) (solid.Solid, error) {
	a, err := Build(cap, s, p)
	if err != nil {
		return solid.Solid{}, err
	}
	return solid.Union(cap, a), nil
}

// positions returns the stabilizer stem positions.
func positions(s Settings, p Parms) []r2.Vec {
	if len(p.Positions) > 0 {
		return p.Positions
	}
	long := p.Width
	if !alongY(s.Rotation) {
		long = p.Length
	}
	u := unit.MM(long).U()
	switch {
	case u >= 6:
		return []r2.Vec{{X: -50}, {X: 50}}
	case u >= 2:
		return []r2.Vec{{X: -12}, {X: 12}}
	}
	return nil
}

// alongY reports whether the stem cross is aligned with the cap Y axis.
func alongY(rotation float64) bool {
	r := math.Mod(math.Mod(rotation, 360)+360, 360)
	return math.Abs(r) < 1e-9 || math.Abs(r-180) < 1e-9
}

// wedge lofts a thin rib from the cap floor to just under the ceiling,
// joining the stem to the front wall.
func wedge(cap solid.Solid, s Settings, p Parms, r float64) (solid.Solid, error) {
	h := p.Height - p.TopThickness - wedgeGap
	if h <= 0 {
		return solid.Solid{}, &SupportError{Section: "height", Length: h}
	}
	if p.Shell != nil {
		cap = *p.Shell
	}
	dir := r2.Vec{X: 1}
	if alongY(s.Rotation) {
		dir = r2.Vec{Y: 1}
	}
	worl := func(z float64) (float64, error) {
		l, err := sectionLength(cap, z, dir)
		if p.ISO {
			l -= unit.U(0.25).MM().Get()
		}
		return l, err
	}
	bottom, err := worl(0.01)
	if err != nil {
		return solid.Solid{}, err
	}
	top, err := worl(h)
	if err != nil {
		return solid.Solid{}, err
	}
	bottom -= 2 * p.BottomFillet
	lenB := (bottom-p.Wall)/2 - r
	lenT := (top-p.Wall)/2 - r
	if lenB <= 0 {
		return solid.Solid{}, &SupportError{Section: "bottom", Length: lenB}
	}
	if lenT <= 0 {
		return solid.Solid{}, &SupportError{Section: "top", Length: lenT}
	}
	b, err := rectProfile(wedgeWidth, lenB+wedgeClosing, r2.Vec{})
	if err != nil {
		return solid.Solid{}, err
	}
	t, err := rectProfile(wedgeWidth, lenT+wedgeClosing, r2.Vec{Y: (lenB - lenT) / 2})
	if err != nil {
		return solid.Solid{}, err
	}
	rib, err := solid.Loft(solid.LoftParms{Tag: "support", Bottom: b, Top: t, Height: h})
	if err != nil {
		return solid.Solid{}, err
	}
	offset := (bottom-p.Wall)/4 + r - 1
	return solid.Translate(rib, r3.Vec{Y: -offset}), nil
}

// sectionLength returns the extent along dir of the section of s at z.
func sectionLength(s solid.Solid, z float64, dir r2.Vec) (float64, error) {
	sec := s.Section(z)
	hi, okHi := sdf.MaxAlong2(sec, dir, wedgeTol)
	lo, okLo := sdf.MaxAlong2(sec, r2.Scale(-1, dir), wedgeTol)
	if !okHi || !okLo {
		return 0, fmt.Errorf("section at z=%g: %w", z, solid.ErrEmpty)
	}
	return hi + lo, nil
}

// rectProfile returns a w by l rectangle centered at c.
func rectProfile(w, l float64, c r2.Vec) (solid.Profile, error) {
	box, err := form2.Box(r2.Vec{X: w, Y: l}, 0)
	if err != nil {
		return solid.Profile{}, err
	}
	corners := []r2.Vec{
		{X: c.X + w/2, Y: c.Y - l/2},
		{X: c.X + w/2, Y: c.Y + l/2},
		{X: c.X - w/2, Y: c.Y + l/2},
		{X: c.X - w/2, Y: c.Y - l/2},
	}
	edges := make([][]r2.Vec, 4)
	for i := range edges {
		edges[i] = []r2.Vec{corners[i], corners[(i+1)%4]}
	}
	return solid.Profile{SDF: sdf.Translate2D(box, c), Edges: edges}, nil
}

// body wraps a stem field of height h standing on z=0 with its faces: the
// foot, the end face and the mantle.
func body(s sdf.SDF3, h float64) solid.Solid {
	bb := s.Bounds()
	r := math.Max(bb.Max.X, bb.Max.Y)
	b := solid.NewBuilder(s)
	const n = 16
	ring := func(z float64) []r3.Vec {
		pts := make([]r3.Vec, n)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / n
			pts[i] = r3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
		}
		return pts
	}
	foot := b.AddEdge(ring(0))
	end := b.AddEdge(ring(h))
	b.AddFace(solid.Planar, ring(0), foot)
	b.AddFace(solid.Planar, ring(h), end)
	var mantle []r3.Vec
	for _, z := range []float64{h / 4, h / 2, 3 * h / 4} {
		mantle = append(mantle, ring(z)...)
	}
	b.AddFace(solid.Curved, mantle, foot, end)
	return b.Solid()
}
