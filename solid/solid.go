// Package solid wraps SDF node trees with the boundary bookkeeping a
// staged modeling pipeline needs: named planar and curved faces, edge
// sets, directional face selection, blend hooks that round or bevel
// edges on demand and measurement queries.
//
// A Solid is an immutable value. Every operation returns a new Solid and
// leaves its operands untouched, so Solids may be shared between
// goroutines.
package solid

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/keycap/internal/d3"
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tolerance is the precision of measurement queries in millimetres.
const Tolerance = 1e-2

// eps is the depth below an operand surface at which a sample point is
// considered inside it.
const eps = 1e-4

var (
	// ErrFillet is returned when a fillet or chamfer cannot be built.
	ErrFillet = errors.New("fillet failed")
	// ErrNoConvergence is returned when a search exhausts its iterations.
	ErrNoConvergence = errors.New("search did not converge")
	// ErrEmpty is returned when a query finds no material.
	ErrEmpty = errors.New("empty solid")
	// ErrProfile is returned for degenerate or mismatched loft profiles.
	ErrProfile = errors.New("invalid profile")
)

// Kind tells planar faces from curved ones.
type Kind int

const (
	Planar Kind = iota
	Curved
)

func (k Kind) String() string {
	switch k {
	case Planar:
		return "planar"
	case Curved:
		return "curved"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Face is a boundary patch of a Solid.
type Face struct {
	Kind Kind
	// Normal is the outward normal for planar faces and the mean
	// outward normal for curved faces.
	Normal r3.Vec
	// Edges lists the ids of the edges bounding the face.
	Edges   []int
	samples []r3.Vec
}

// Samples returns points lying on the face.
func (f Face) Samples() []r3.Vec {
	return append([]r3.Vec(nil), f.samples...)
}

func (f Face) clone() Face {
	f.Edges = append([]int(nil), f.Edges...)
	f.samples = append([]r3.Vec(nil), f.samples...)
	return f
}

type edge struct {
	samples []r3.Vec
	hook    string // blend hook that rounds this edge, may be empty.
}

// Hook is a named blend site of a Solid: the place in the distance
// field where a fillet or chamfer of the given edges is built.
type Hook struct {
	Name string
	// Limit is the largest blend radius the hook accepts.
	Limit float64
}

// Solid is an SDF node tree plus its face and edge records.
type Solid struct {
	root   node
	sdf    sdf.SDF3
	faces  []Face
	edges  map[int]edge
	hooks  map[string]float64
	blends map[string]Blend
}

func newSolid(root node, faces []Face, edges map[int]edge, hooks map[string]float64, blends map[string]Blend) Solid {
	s := Solid{
		root:   root,
		faces:  faces,
		edges:  edges,
		hooks:  hooks,
		blends: blends,
	}
	s.sdf = root.compile(blends)
	return s
}

// SDF returns the distance field of the solid with all active blends.
func (s Solid) SDF() sdf.SDF3 { return s.sdf }

// IsZero reports whether s is the zero Solid.
func (s Solid) IsZero() bool { return s.root == nil }

// Faces returns a copy of the face records.
func (s Solid) Faces() []Face {
	out := make([]Face, len(s.faces))
	for i := range s.faces {
		out[i] = s.faces[i].clone()
	}
	return out
}

// Hooks returns the blend hooks reachable from the edges of the faces
// picked by sel.
func (s Solid) Hooks(sel Selector) []Hook {
	seen := make(map[string]bool)
	var hooks []Hook
	for _, fi := range sel(s.faces) {
		for _, id := range s.faces[fi].Edges {
			h := s.edges[id].hook
			if h == "" || seen[h] {
				continue
			}
			seen[h] = true
			hooks = append(hooks, Hook{Name: h, Limit: s.hooks[h]})
		}
	}
	return hooks
}

// Edges returns the number of distinct edges bounding faces of kind k.
func (s Solid) Edges(k Kind) int {
	seen := make(map[int]bool)
	for _, f := range s.faces {
		if f.Kind != k {
			continue
		}
		for _, id := range f.Edges {
			seen[id] = true
		}
	}
	return len(seen)
}

// Bounds returns the tight bounding box of the solid.
func (s Solid) Bounds() (r3.Box, error) {
	bb := sdf.Extent3(s.sdf, Tolerance)
	if d3.Box(bb).Empty() {
		return bb, ErrEmpty
	}
	return bb, nil
}

// FaceBounds returns the bounding box of the faces picked by sel.
func (s Solid) FaceBounds(sel Selector) (r3.Box, error) {
	idx := sel(s.faces)
	if len(idx) == 0 {
		return r3.Box{}, fmt.Errorf("no faces selected: %w", ErrEmpty)
	}
	bb := d3.EmptyBox()
	for _, i := range idx {
		for _, p := range s.faces[i].samples {
			bb = bb.Include(p)
		}
	}
	return r3.Box(bb), nil
}

// Section returns the planar section of the solid at height z. Section
// coordinates are the solid's X and Y.
func (s Solid) Section(z float64) sdf.SDF2 {
	return sdf.Slice2D(s.sdf, r3.Vec{Z: z}, r3.Vec{Z: 1})
}

// SectionBounds returns the tight bounding box of the section at z.
func (s Solid) SectionBounds(z float64) (r2.Box, error) {
	bb := sdf.Extent2(s.Section(z), Tolerance)
	if bb.Min.X > bb.Max.X {
		return bb, fmt.Errorf("section at z=%g: %w", z, ErrEmpty)
	}
	return bb, nil
}

// Contains reports whether p lies inside the solid.
func (s Solid) Contains(p r3.Vec) bool {
	return s.sdf.Evaluate(p) < 0
}

// Transform applies the rigid transformation m to the solid.
func Transform(s Solid, m sdf.M44) Solid {
	faces := make([]Face, len(s.faces))
	for i, f := range s.faces {
		f = f.clone()
		for j := range f.samples {
			f.samples[j] = m.MulPosition(f.samples[j])
		}
		f.Normal = r3.Unit(m.MulDirection(f.Normal))
		faces[i] = f
	}
	edges := make(map[int]edge, len(s.edges))
	for id, e := range s.edges {
		pts := make([]r3.Vec, len(e.samples))
		for j, p := range e.samples {
			pts[j] = m.MulPosition(p)
		}
		edges[id] = edge{samples: pts, hook: e.hook}
	}
	return newSolid(transform{child: s.root, m: m}, faces, edges, copyHooks(s.hooks), copyBlends(s.blends))
}

// Translate moves the solid by v.
func Translate(s Solid, v r3.Vec) Solid {
	return Transform(s, sdf.Translate3d(v))
}

// RotateZ rotates the solid about the Z axis by deg degrees.
func RotateZ(s Solid, deg float64) Solid {
	if deg == 0 {
		return s
	}
	return Transform(s, sdf.RotateZ(sdf.DtoR(deg)))
}

// RotateX rotates the solid about the X axis by deg degrees.
func RotateX(s Solid, deg float64) Solid {
	if deg == 0 {
		return s
	}
	return Transform(s, sdf.RotateX(sdf.DtoR(deg)))
}

func copyHooks(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBlends(m map[string]Blend) map[string]Blend {
	out := make(map[string]Blend, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func maxEdgeID(edges map[int]edge) int {
	m := -1
	for id := range edges {
		if id > m {
			m = id
		}
	}
	return m
}

// mergeHooks joins hook tables keeping the smaller limit on name clashes.
func mergeHooks(a, b map[string]float64) map[string]float64 {
	out := copyHooks(a)
	for k, v := range b {
		if old, ok := out[k]; ok {
			v = math.Min(old, v)
		}
		out[k] = v
	}
	return out
}

func mergeBlends(a, b map[string]Blend) map[string]Blend {
	out := copyBlends(a)
	for k, v := range b {
		out[k] = v
	}
	return out
}
