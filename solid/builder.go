package solid

import (
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder attaches face and edge records to a bare distance field.
type Builder struct {
	s     sdf.SDF3
	faces []Face
	edges map[int]edge
	next  int
}

// NewBuilder starts a Solid from the distance field s.
func NewBuilder(s sdf.SDF3) *Builder {
	return &Builder{s: s, edges: make(map[int]edge)}
}

// AddEdge records an edge through the sample points and returns its id.
func (b *Builder) AddEdge(samples []r3.Vec) int {
	id := b.next
	b.next++
	b.edges[id] = edge{samples: append([]r3.Vec(nil), samples...)}
	return id
}

// AddFace records a face through the sample points bounded by edges. The
// face normal is the mean gradient of the field over the samples.
func (b *Builder) AddFace(kind Kind, samples []r3.Vec, edges ...int) {
	b.faces = append(b.faces, Face{
		Kind:    kind,
		Normal:  meanNormal(b.s, samples),
		Edges:   append([]int(nil), edges...),
		samples: append([]r3.Vec(nil), samples...),
	})
}

// Solid returns the built Solid. The Builder may keep being used.
func (b *Builder) Solid() Solid {
	faces := make([]Face, len(b.faces))
	for i := range b.faces {
		faces[i] = b.faces[i].clone()
	}
	edges := make(map[int]edge, len(b.edges))
	for id, e := range b.edges {
		edges[id] = e
	}
	return newSolid(leaf{s: b.s}, faces, edges, map[string]float64{}, map[string]Blend{})
}
