package solid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Selector picks faces from a face list and returns their indices.
type Selector func(faces []Face) []int

// levelTol groups faces whose extreme points differ by less than it.
const levelTol = 1e-2

// Top picks the up facing faces of the n-th highest level. Top(0) picks
// the highest faces.
func Top(n int) Selector {
	return func(faces []Face) []int { return level(faces, r3.Vec{Z: 1}, n) }
}

// Bottom picks the lowest down facing faces.
func Bottom() Selector {
	return func(faces []Face) []int { return level(faces, r3.Vec{Z: -1}, 0) }
}

// Facing picks every face whose normal points within 60 degrees of dir.
func Facing(dir r3.Vec) Selector {
	dir = r3.Unit(dir)
	return func(faces []Face) []int {
		var idx []int
		for i, f := range faces {
			if r3.Dot(f.Normal, dir) > 0.5 {
				idx = append(idx, i)
			}
		}
		return idx
	}
}

// Side picks the faces facing dir. It is Facing under the name used for
// the walls of a cap.
func Side(dir r3.Vec) Selector { return Facing(dir) }

// All picks every face.
func All() Selector {
	return func(faces []Face) []int {
		idx := make([]int, len(faces))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
}

// level groups faces facing dir by their furthest point along dir and
// returns the n-th group counting from the furthest.
func level(faces []Face, dir r3.Vec, n int) []int {
	type entry struct {
		face  int
		reach float64
	}
	var facing []entry
	for i, f := range faces {
		if r3.Dot(f.Normal, dir) <= 0.5 || len(f.samples) == 0 {
			continue
		}
		reach := math.Inf(-1)
		for _, p := range f.samples {
			reach = math.Max(reach, r3.Dot(p, dir))
		}
		facing = append(facing, entry{face: i, reach: reach})
	}
	sort.SliceStable(facing, func(i, j int) bool { return facing[i].reach > facing[j].reach })
	lvl := 0
	var idx []int
	for i, e := range facing {
		if i > 0 && facing[i-1].reach-e.reach > levelTol {
			lvl++
		}
		if lvl == n {
			idx = append(idx, e.face)
		} else if lvl > n {
			break
		}
	}
	sort.Ints(idx)
	return idx
}
