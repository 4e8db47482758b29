package solid

import (
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// node is an element of the construction tree. Trees are compiled into a
// distance field with the blends active at compile time.
type node interface {
	compile(blends map[string]Blend) sdf.SDF3
}

type leaf struct {
	s sdf.SDF3
}

func (l leaf) compile(map[string]Blend) sdf.SDF3 { return l.s }

// clip keeps the half space of child on the side n points to.
type clip struct {
	child node
	a, n  r3.Vec
	hook  string
}

func (c clip) compile(blends map[string]Blend) sdf.SDF3 {
	s := sdf.Cut3D(c.child.compile(blends), c.a, c.n)
	if b, ok := blends[c.hook]; ok && c.hook != "" {
		s.SetMax(b.max())
	}
	return s
}

type op int

const (
	opUnion op = iota
	opCut
	opIntersect
)

type boolean struct {
	op   op
	a, b node
	hook string
}

func (n boolean) compile(blends map[string]Blend) sdf.SDF3 {
	a := n.a.compile(blends)
	b := n.b.compile(blends)
	blend, blended := blends[n.hook]
	blended = blended && n.hook != ""
	switch n.op {
	case opUnion:
		u := sdf.Union3D(a, b)
		if blended {
			u.SetMin(blend.min())
		}
		return u
	case opCut:
		d := sdf.Difference3D(a, b)
		if blended {
			d.SetMax(blend.max())
		}
		return d
	case opIntersect:
		d := sdf.Intersect3D(a, b)
		if blended {
			d.SetMax(blend.max())
		}
		return d
	}
	panic("unknown boolean operation")
}

type transform struct {
	child node
	m     sdf.M44
}

func (t transform) compile(blends map[string]Blend) sdf.SDF3 {
	return sdf.Transform3D(t.child.compile(blends), t.m)
}
