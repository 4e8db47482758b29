package solid

import (
	"math"

	"github.com/soypat/keycap/internal/d3"
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Union joins a and b.
func Union(a, b Solid) Solid {
	return combine(opUnion, a, b, Hook{})
}

// Cut removes b from a. A non-empty hook names the blend site that rounds
// the new edges where b meets a.
func Cut(a, b Solid, h Hook) Solid {
	return combine(opCut, a, b, h)
}

// Intersect keeps the material common to a and b. A non-empty hook names
// the blend site of the new edges.
func Intersect(a, b Solid, h Hook) Solid {
	return combine(opIntersect, a, b, h)
}

// Face and edge records follow the sample points: a face of a is kept
// where its samples lie outside b for union and cut, inside b for
// intersection. Faces of b are kept where their samples lie outside a for
// union and inside a otherwise. A face of a only partly kept gains a new
// edge shared with the nearest kept face of b.
func combine(o op, a, b Solid, h Hook) Solid {
	sa, sb := a.sdf, b.sdf
	keepA := func(p r3.Vec) bool {
		in := sb.Evaluate(p) < -eps
		if o == opIntersect {
			return in
		}
		return !in
	}
	keepB := func(p r3.Vec) bool {
		in := sa.Evaluate(p) < -eps
		if o == opUnion {
			return !in
		}
		return in
	}

	offset := maxEdgeID(a.edges) + 1
	edges := make(map[int]edge)
	for id, e := range a.edges {
		if pts := filter(e.samples, keepA); len(pts) > 0 {
			edges[id] = edge{samples: pts, hook: e.hook}
		}
	}
	for id, e := range b.edges {
		if pts := filter(e.samples, keepB); len(pts) > 0 {
			edges[id+offset] = edge{samples: pts, hook: e.hook}
		}
	}
	next := offset + maxEdgeID(b.edges) + 1

	var faces []Face
	type pending struct {
		face    int
		samples []r3.Vec
	}
	var cuts []pending
	for _, f := range a.faces {
		kept := filter(f.samples, keepA)
		if len(kept) == 0 {
			continue
		}
		nf := Face{Kind: f.Kind, Normal: f.Normal, samples: kept}
		nf.Edges = liveEdges(f.Edges, 0, edges)
		if len(kept) < len(f.samples) {
			cuts = append(cuts, pending{face: len(faces), samples: boundary(f.samples, keepA, sb)})
		}
		faces = append(faces, nf)
	}
	firstB := len(faces)
	for _, f := range b.faces {
		kept := filter(f.samples, keepB)
		if len(kept) == 0 {
			continue
		}
		nf := Face{Kind: f.Kind, Normal: f.Normal, samples: kept}
		if o == opCut {
			nf.Normal = r3.Scale(-1, nf.Normal)
		}
		nf.Edges = liveEdges(f.Edges, offset, edges)
		faces = append(faces, nf)
	}
	for _, c := range cuts {
		if len(c.samples) == 0 {
			continue
		}
		id := next
		next++
		edges[id] = edge{samples: c.samples, hook: h.Name}
		faces[c.face].Edges = append(faces[c.face].Edges, id)
		if near := nearestFace(faces[firstB:], c.samples); near >= 0 {
			faces[firstB+near].Edges = append(faces[firstB+near].Edges, id)
		}
	}

	hooks := mergeHooks(a.hooks, b.hooks)
	if h.Name != "" {
		if old, ok := hooks[h.Name]; ok {
			h.Limit = math.Min(old, h.Limit)
		}
		hooks[h.Name] = h.Limit
	}
	root := boolean{op: o, a: a.root, b: b.root, hook: h.Name}
	return newSolid(root, faces, edges, hooks, mergeBlends(a.blends, b.blends))
}

func filter(pts []r3.Vec, keep func(r3.Vec) bool) []r3.Vec {
	var out []r3.Vec
	for _, p := range pts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func liveEdges(ids []int, offset int, edges map[int]edge) []int {
	var out []int
	for _, id := range ids {
		if _, ok := edges[id+offset]; ok {
			out = append(out, id+offset)
		}
	}
	return out
}

// boundary locates points of the curve where the kept and dropped parts of
// a face meet by bisecting between neighbouring samples on either side.
func boundary(samples []r3.Vec, keep func(r3.Vec) bool, other sdf.SDF3) []r3.Vec {
	const maxPoints = 12
	var kept, dropped []r3.Vec
	for _, p := range samples {
		if keep(p) {
			kept = append(kept, p)
		} else {
			dropped = append(dropped, p)
		}
	}
	if len(kept) == 0 || len(dropped) == 0 {
		return nil
	}
	step := 1
	if len(kept) > maxPoints {
		step = len(kept) / maxPoints
	}
	var out []r3.Vec
	for i := 0; i < len(kept); i += step {
		k := kept[i]
		d := nearest(dropped, k)
		out = append(out, bisect(other, k, d))
	}
	return out
}

func nearest(pts []r3.Vec, p r3.Vec) r3.Vec {
	best := pts[0]
	bestD := math.Inf(1)
	for _, q := range pts {
		if d := r3.Norm2(r3.Sub(q, p)); d < bestD {
			best, bestD = q, d
		}
	}
	return best
}

// bisect finds the zero crossing of s between p0 and p1.
func bisect(s sdf.SDF3, p0, p1 r3.Vec) r3.Vec {
	v0 := s.Evaluate(p0)
	for i := 0; i < 24; i++ {
		m := d3.Lerp(p0, p1, 0.5)
		vm := s.Evaluate(m)
		if math.Signbit(vm) == math.Signbit(v0) {
			p0, v0 = m, vm
		} else {
			p1 = m
		}
	}
	return d3.Lerp(p0, p1, 0.5)
}

func nearestFace(faces []Face, pts []r3.Vec) int {
	best := -1
	bestD := math.Inf(1)
	c := centroid(pts)
	for i, f := range faces {
		for _, p := range f.samples {
			if d := r3.Norm2(r3.Sub(p, c)); d < bestD {
				best, bestD = i, d
			}
		}
	}
	return best
}

func centroid(pts []r3.Vec) r3.Vec {
	var c r3.Vec
	for _, p := range pts {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(pts)), c)
}
