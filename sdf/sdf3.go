package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/keycap/internal/d2"
	"github.com/soypat/keycap/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

type SDF3Union interface {
	SDF3
	SetMin(MinFunc)
}

type SDF3Diff interface {
	SDF3
	SetMax(MaxFunc)
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64
	bb     r3.Box
}

// Extrude3D does a linear extrude on an SDF2. The extrusion
// is centered on z=0.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	s := extrude3{}
	s.sdf = sdf
	s.height = height / 2
	// work out the bounding box
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height}, Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	// return the intersection
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// openLoft3 is the lateral surface of a loft between two SDF2s. It has
// no caps: below z=0 it continues as sdf0 and above height as sdf1.
type openLoft3 struct {
	sdf0, sdf1 SDF2
	height     float64
	bb         r3.Box
}

// OpenLoft3D returns the side walls of a loft from sdf0 at z=0 to sdf1 at z=height.
// The result is unbounded along Z in its distance field and should be
// closed with Cut3D. Its bounding box spans [-height, 2*height] in Z.
func OpenLoft3D(sdf0, sdf1 SDF2, height float64) SDF3 {
	switch {
	case sdf0 == nil || sdf1 == nil:
		panic("nil sdf argument")
	case height <= 0:
		panic("loft height must be positive")
	}
	bb := d2.Box(sdf0.Bounds()).Extend(d2.Box(sdf1.Bounds()))
	return &openLoft3{
		sdf0:   sdf0,
		sdf1:   sdf1,
		height: height,
		bb: r3.Box{
			Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -height},
			Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: 2 * height},
		},
	}
}

// Evaluate returns the minimum distance to the loft walls. The mixed
// distance is divided by the slope of the wall to keep it a lower bound.
func (s *openLoft3) Evaluate(p r3.Vec) float64 {
	q := r2.Vec{X: p.X, Y: p.Y}
	a0 := s.sdf0.Evaluate(q)
	a1 := s.sdf1.Evaluate(q)
	k := Clamp(p.Z/s.height, 0, 1)
	g := (a1 - a0) / s.height
	return Mix(a0, a1, k) / math.Sqrt(1+g*g)
}

// Bounds returns the bounding box of the loft walls.
func (s *openLoft3) Bounds() r3.Box {
	return s.bb
}

// Transform SDF3 (rotation, translation - distance preserving)

// transform3 is an SDF3 transformed with a 4x4 transformation matrix.
type transform3 struct {
	sdf     SDF3
	matrix  M44
	inverse M44
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
func Transform3D(sdf SDF3, matrix M44) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	s := transform3{}
	s.sdf = sdf
	s.matrix = matrix
	s.inverse = matrix.Inverse()
	s.bb = matrix.MulBox(sdf.Bounds())
	return &s
}

// Evaluate returns the minimum distance to a transformed SDF3.
// Distance is *not* preserved with scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// Translate3D moves an SDF3 by v.
func Translate3D(sdf SDF3, v r3.Vec) SDF3 {
	return Transform3D(sdf, Translate3d(v))
}

// Uniform XYZ Scaling of SDF3s (we can work out the distance)

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	m := Scale3d(r3.Vec{X: k, Y: k, Z: k})
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   m.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
// The distance is correct with scaling.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}

// scale3 is an SDF3 scaled by a different factor along each axis.
type scale3 struct {
	sdf  SDF3
	inv  r3.Vec
	kmin float64
	bb   r3.Box
}

// Scale3D scales an SDF3 by k.X, k.Y, k.Z along each axis. The resulting
// distance is multiplied by the smallest factor so it remains a lower bound
// of the true distance.
func Scale3D(sdf SDF3, k r3.Vec) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if k.X <= 0 || k.Y <= 0 || k.Z <= 0 {
		panic("scale factors must be positive")
	}
	return &scale3{
		sdf:  sdf,
		inv:  r3.Vec{X: 1 / k.X, Y: 1 / k.Y, Z: 1 / k.Z},
		kmin: d3.Min(k),
		bb:   Scale3d(k).MulBox(sdf.Bounds()),
	}
}

// Evaluate returns a lower bound of the distance to the scaled SDF3.
func (s *scale3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(d3.MulElem(p, s.inv)) * s.kmin
}

// Bounds returns the bounding box of a scaled SDF3.
func (s *scale3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	min MinFunc
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3Union {
	if len(sdf) < 2 {
		panic("union require at least 2 sdfs")
	}
	s := union3{
		sdf: sdf,
	}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	// work out the bounding box
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	s.min = math.Min
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	var d float64
	for i, x := range s.sdf {
		if i == 0 {
			d = x.Evaluate(p)
		} else {
			d = s.min(d, x.Evaluate(p))
		}
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union3) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3Diff {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	s := diff3{}
	s.s0 = s0
	s.s1 = s1
	s.max = math.Max
	s.bb = s0.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if any of the arguments are nil.
func Intersect3D(s0, s1 SDF3) SDF3Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	s := intersection3{}
	s.s0 = s0
	s.s1 = s1
	s.max = math.Max
	bb := d3.Box(s0.Bounds()).Intersect(d3.Box(s1.Bounds()))
	if bb.Empty() {
		// disjoint operands, keep a degenerate box at the first operand.
		c := d3.Box(s0.Bounds()).Center()
		bb = d3.Box{Min: c, Max: c}
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *intersection3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// cut3 makes a planar cut through an SDF3.
type cut3 struct {
	sdf SDF3
	a   r3.Vec // point on plane
	n   r3.Vec // normal to plane
	max MaxFunc
	bb  r3.Box // bounding box
}

// Cut3D cuts an SDF3 along a plane passing through a with normal n.
// The SDF3 on the same side as the normal remains. The edge formed by the
// cut can be blended with SetMax.
func Cut3D(sdf SDF3, a, n r3.Vec) SDF3Diff {
	if sdf == nil {
		panic("nil argument to Cut3D")
	}
	s := cut3{}
	s.sdf = sdf
	s.a = a
	s.n = r3.Scale(-1, r3.Unit(n))
	s.max = math.Max
	s.bb = cutBox(sdf.Bounds(), a, r3.Unit(n))
	return &s
}

// cutBox trims a bounding box by an axis aligned plane. Other planes
// leave the box untouched.
func cutBox(bb r3.Box, a, n r3.Vec) r3.Box {
	const axisTol = 1e-12
	switch {
	case math.Abs(n.X) < axisTol && math.Abs(n.Y) < axisTol:
		if n.Z > 0 {
			bb.Min.Z = math.Max(bb.Min.Z, a.Z)
		} else {
			bb.Max.Z = math.Min(bb.Max.Z, a.Z)
		}
	case math.Abs(n.X) < axisTol && math.Abs(n.Z) < axisTol:
		if n.Y > 0 {
			bb.Min.Y = math.Max(bb.Min.Y, a.Y)
		} else {
			bb.Max.Y = math.Min(bb.Max.Y, a.Y)
		}
	case math.Abs(n.Y) < axisTol && math.Abs(n.Z) < axisTol:
		if n.X > 0 {
			bb.Min.X = math.Max(bb.Min.X, a.X)
		} else {
			bb.Max.X = math.Min(bb.Max.X, a.X)
		}
	}
	// a cut that removes everything collapses the box onto the plane.
	bb.Max = d3.MaxElem(bb.Min, bb.Max)
	return bb
}

// Evaluate returns the minimum distance to the cut SDF3.
func (s *cut3) Evaluate(p r3.Vec) float64 {
	return s.max(p.Sub(s.a).Dot(s.n), s.sdf.Evaluate(p))
}

// SetMax sets the maximum function to control blending of the cut edge.
func (s *cut3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of the cut SDF3.
func (s *cut3) Bounds() r3.Box {
	return s.bb
}

// revolution3 solid of revolution, SDF2 to SDF3.
type revolution3 struct {
	sdf SDF2
	bb  r3.Box
}

// Revolve3D returns an SDF3 for a full solid of revolution of sdf about
// the Z axis. The SDF2 X axis maps to the radius and its Y axis to Z.
func Revolve3D(sdf SDF2) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	bb := sdf.Bounds()
	l := math.Max(math.Abs(bb.Min.X), math.Abs(bb.Max.X))
	return &revolution3{
		sdf: sdf,
		bb:  r3.Box{Min: r3.Vec{X: -l, Y: -l, Z: bb.Min.Y}, Max: r3.Vec{X: l, Y: l, Z: bb.Max.Y}},
	}
}

// Evaluate returns the minimum distance to a solid of revolution.
func (s *revolution3) Evaluate(p r3.Vec) float64 {
	x := math.Hypot(p.X, p.Y)
	return s.sdf.Evaluate(r2.Vec{X: x, Y: p.Z})
}

// Bounds returns the bounding box for a solid of revolution.
func (s *revolution3) Bounds() r3.Box {
	return s.bb
}
