package sdf

import (
	"container/heap"
	"math"

	"github.com/soypat/keycap/internal/d2"
	"github.com/soypat/keycap/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// safety scales the cell half diagonal before a cell is discarded so that
// distance fields which slightly overestimate are still searched.
const safety = 1.25

// maxDepth limits the subdivision of the extent searches.
const maxDepth = 24

// Extent3 returns the bounding box of the interior of s to within tol.
// Unlike Bounds, which may be loose, Extent3 searches the distance field.
// If s has no interior inside its Bounds the returned box is empty
// (Min greater than Max on every axis).
func Extent3(s SDF3, tol float64) r3.Box {
	if tol <= 0 {
		panic("tolerance must be positive")
	}
	dirs := [6]r3.Vec{{X: -1}, {Y: -1}, {Z: -1}, {X: 1}, {Y: 1}, {Z: 1}}
	var vals [6]float64
	for i, d := range dirs {
		v, ok := MaxAlong3(s, d, tol)
		if !ok {
			inf := math.Inf(1)
			return r3.Box{Min: d3.Elem(inf), Max: d3.Elem(-inf)}
		}
		vals[i] = v
	}
	return r3.Box{
		Min: r3.Vec{X: -vals[0], Y: -vals[1], Z: -vals[2]},
		Max: r3.Vec{X: vals[3], Y: vals[4], Z: vals[5]},
	}
}

// Extent2 returns the bounding box of the interior of s to within tol.
// If s has no interior inside its Bounds the returned box is empty.
func Extent2(s SDF2, tol float64) r2.Box {
	if tol <= 0 {
		panic("tolerance must be positive")
	}
	dirs := [4]r2.Vec{{X: -1}, {Y: -1}, {X: 1}, {Y: 1}}
	var vals [4]float64
	for i, d := range dirs {
		v, ok := MaxAlong2(s, d, tol)
		if !ok {
			inf := math.Inf(1)
			return r2.Box{Min: d2.Elem(inf), Max: d2.Elem(-inf)}
		}
		vals[i] = v
	}
	return r2.Box{
		Min: r2.Vec{X: -vals[0], Y: -vals[1]},
		Max: r2.Vec{X: vals[2], Y: vals[3]},
	}
}

// MaxAlong3 returns the largest value of dot(p, dir) over the interior of s
// to within tol. dir must be a unit vector. ok is false if s has no interior.
// The search is best-first over an octree: cells are ordered by their largest
// projection onto dir so the first cell smaller than tol that may hold
// interior bounds the answer.
func MaxAlong3(s SDF3, dir r3.Vec, tol float64) (v float64, ok bool) {
	q := &cellQueue{}
	push := func(b r3.Box, depth int) {
		bb := d3.Box(b)
		size := bb.Size()
		d := s.Evaluate(bb.Center())
		if d > 0.5*r3.Norm(size)*safety {
			return // no interior in the cell.
		}
		heap.Push(q, cell{
			min: [3]float64{b.Min.X, b.Min.Y, b.Min.Z}, max: [3]float64{b.Max.X, b.Max.Y, b.Max.Z},
			key: maxDot3(b, dir), size: d3.Max(size), dist: d, depth: depth,
		})
	}
	push(s.Bounds(), 0)
	for q.Len() > 0 {
		c := heap.Pop(q).(cell)
		b := r3.Box{Min: r3.Vec{X: c.min[0], Y: c.min[1], Z: c.min[2]}, Max: r3.Vec{X: c.max[0], Y: c.max[1], Z: c.max[2]}}
		if c.size < tol || c.depth >= maxDepth {
			center := r3.Dot(d3.Box(b).Center(), dir)
			return Clamp(center-c.dist, c.key-c.size, c.key), true
		}
		for _, child := range octants(b) {
			push(child, c.depth+1)
		}
	}
	return 0, false
}

// MaxAlong2 returns the largest value of dot(p, dir) over the interior of s
// to within tol. It is the quadtree counterpart of MaxAlong3.
func MaxAlong2(s SDF2, dir r2.Vec, tol float64) (v float64, ok bool) {
	q := &cellQueue{}
	push := func(b r2.Box, depth int) {
		bb := d2.Box(b)
		size := bb.Size()
		d := s.Evaluate(bb.Center())
		if d > 0.5*r2.Norm(size)*safety {
			return
		}
		heap.Push(q, cell{
			min: [3]float64{b.Min.X, b.Min.Y}, max: [3]float64{b.Max.X, b.Max.Y},
			key: maxDot2(b, dir), size: d2.Max(size), dist: d, depth: depth,
		})
	}
	push(s.Bounds(), 0)
	for q.Len() > 0 {
		c := heap.Pop(q).(cell)
		b := r2.Box{Min: r2.Vec{X: c.min[0], Y: c.min[1]}, Max: r2.Vec{X: c.max[0], Y: c.max[1]}}
		if c.size < tol || c.depth >= maxDepth {
			center := r2.Dot(d2.Box(b).Center(), dir)
			return Clamp(center-c.dist, c.key-c.size, c.key), true
		}
		for _, child := range quadrants(b) {
			push(child, c.depth+1)
		}
	}
	return 0, false
}

func maxDot3(b r3.Box, dir r3.Vec) float64 {
	best := math.Inf(-1)
	for _, v := range d3.Box(b).Vertices() {
		best = math.Max(best, r3.Dot(v, dir))
	}
	return best
}

func maxDot2(b r2.Box, dir r2.Vec) float64 {
	best := math.Inf(-1)
	for _, v := range d2.Box(b).Vertices() {
		best = math.Max(best, r2.Dot(v, dir))
	}
	return best
}

func octants(b r3.Box) [8]r3.Box {
	c := d3.Box(b).Center()
	var out [8]r3.Box
	for i := 0; i < 8; i++ {
		lo, hi := b.Min, c
		if i&1 != 0 {
			lo.X, hi.X = c.X, b.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = c.Y, b.Max.Y
		}
		if i&4 != 0 {
			lo.Z, hi.Z = c.Z, b.Max.Z
		}
		out[i] = r3.Box{Min: lo, Max: hi}
	}
	return out
}

func quadrants(b r2.Box) [4]r2.Box {
	c := d2.Box(b).Center()
	var out [4]r2.Box
	for i := 0; i < 4; i++ {
		lo, hi := b.Min, c
		if i&1 != 0 {
			lo.X, hi.X = c.X, b.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = c.Y, b.Max.Y
		}
		out[i] = r2.Box{Min: lo, Max: hi}
	}
	return out
}

// cell is an octree or quadtree node pending search.
type cell struct {
	min, max [3]float64
	key      float64 // largest projection of the cell onto the search direction
	size     float64 // largest side
	dist     float64 // distance at the cell center
	depth    int
}

// cellQueue is a max-heap on key. Ties pop the smaller cell first so the
// search dives instead of widening along flat faces.
type cellQueue []cell

func (q cellQueue) Len() int { return len(q) }
func (q cellQueue) Less(i, j int) bool {
	if q[i].key != q[j].key {
		return q[i].key > q[j].key
	}
	return q[i].size < q[j].size
}
func (q cellQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *cellQueue) Push(x interface{}) { *q = append(*q, x.(cell)) }
func (q *cellQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}
