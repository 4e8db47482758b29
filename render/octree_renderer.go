package render

import (
	"io"
	"math"
	"sync"

	"github.com/soypat/keycap/internal/d3"
	"github.com/soypat/keycap/sdf"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// batchCubes is the number of cubes processed per concurrent batch.
const batchCubes = 256

// octree renders with marching tetrahedra over an octree space sampling.
type octree struct {
	dc        dc3
	todo      []cube
	unwritten triangle3Buffer
	// concurrent goroutine processing.
	concurrent int
}

type cube struct {
	sdf.V3i      // origin of cube as integers
	n       uint // level of cube, size = 1 << n
}

// NewOctreeRenderer returns a marching tetrahedra renderer of s that
// samples space with an octree. The long axis of the bounding box is
// split into meshCells cells.
func NewOctreeRenderer(s sdf.SDF3, meshCells int) *octree {
	if meshCells < 2 {
		panic("meshCells must be 2 or larger")
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb := d3.Box(s.Bounds())
	bb = bb.ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	// The smallest cube (side == resolution) is tested for emptiness so
	// the level 0 cube is at half resolution.
	resolution := 0.5 * longAxis / float64(meshCells)
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	divisions := r3.Scale(1/resolution, bb.Size())
	maxCubes := int(divisions.X) * int(divisions.Y) * int(divisions.Z)
	cubes := make([]cube, 1, max(1, maxCubes/64))
	cubes[0] = cube{sdf.V3i{0, 0, 0}, levels - 1}
	return &octree{
		dc:         *newDc3(s, bb.Min, resolution, levels),
		unwritten:  triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:       cubes,
		concurrent: 1,
	}
}

// NewCellRenderer returns an octree renderer of s whose mesh cells are
// about cell long.
func NewCellRenderer(s sdf.SDF3, cell float64) *octree {
	longAxis := d3.Max(d3.Box(s.Bounds()).Size())
	cells := int(math.Ceil(longAxis / cell))
	return NewOctreeRenderer(s, max(cells, 2))
}

// SetConcurrency sets the number of goroutines cubes are processed with.
func (oc *octree) SetConcurrency(n int) *octree {
	oc.concurrent = max(n, 1)
	return oc
}

// ReadTriangles writes triangles rendered from the model into dst and
// returns the number of triangles written. It returns io.EOF once the
// model is exhausted.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		return n, io.EOF
	}
	if oc.concurrent <= 1 {
		n += oc.readTriangles(dst[n:])
	} else {
		n += oc.readTrianglesConcurrent(dst[n:])
	}
	return n, nil
}

// readTriangles is the single threaded implementation of ReadTriangles.
func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	cubesProcessed := 0
	var newCubes []cube
	for _, cube := range oc.todo {
		if n == len(dst) {
			break
		}
		if n+cellMaxTriangles > len(dst) {
			// Not enough room in dst for a full cell.
			var tmp [cellMaxTriangles]Triangle3
			tri, cubes := oc.processCube(tmp[:], cube)
			oc.unwritten.Write(tmp[:tri])
			newCubes = append(newCubes, cubes...)
			cubesProcessed++
			break
		}
		tri, cubes := oc.processCube(dst[n:], cube)
		newCubes = append(newCubes, cubes...)
		cubesProcessed++
		n += tri
	}
	oc.todo = append(oc.todo, newCubes...)
	oc.todo = oc.todo[cubesProcessed:]
	return n
}

// readTrianglesConcurrent processes a batch of cubes over oc.concurrent
// goroutines. Output order follows the todo order.
func (oc *octree) readTrianglesConcurrent(dst []Triangle3) int {
	batch := oc.todo[:min(len(oc.todo), batchCubes)]
	tris := make([][]Triangle3, len(batch))
	subs := make([][]cube, len(batch))
	var g errgroup.Group
	g.SetLimit(oc.concurrent)
	for i, c := range batch {
		i, c := i, c
		g.Go(func() error {
			var tmp [cellMaxTriangles]Triangle3
			nt, cubes := oc.processCube(tmp[:], c)
			tris[i] = append([]Triangle3(nil), tmp[:nt]...)
			subs[i] = cubes
			return nil
		})
	}
	g.Wait()
	oc.todo = oc.todo[len(batch):]
	for i := range batch {
		oc.unwritten.Write(tris[i])
		oc.todo = append(oc.todo, subs[i]...)
	}
	return oc.unwritten.Read(dst)
}

// processCube generates the triangles of a cube at the mesh resolution or
// the non empty sub cubes of a larger cube.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		var corners [8]r3.Vec
		var values [8]float64
		for i, off := range cubeCorners {
			corners[i], values[i] = oc.dc.Evaluate(c.Add(sdf.V3i{2 * off[0], 2 * off[1], 2 * off[2]}))
		}
		return mtToTriangles(dst, corners, values), nil
	}
	n := c.n - 1
	s := 1 << n
	for _, off := range cubeCorners {
		candidate := cube{c.Add(sdf.V3i{s * off[0], s * off[1], s * off[2]}), n}
		if !oc.dc.IsEmpty(&candidate) {
			newCubes = append(newCubes, candidate)
		}
	}
	return 0, newCubes
}

// dc3 is a distance cache. Neighbouring cubes share corners so most
// evaluations are looked up.
type dc3 struct {
	mu         sync.Mutex
	cache      map[sdf.V3i]float64
	origin     r3.Vec    // origin of the overall bounding cube
	resolution float64   // size of smallest octree cube
	hdiag      []float64 // cube half diagonals per level
	s          sdf.SDF3
}

// Evaluate returns the position of the lattice point vi and the distance
// there.
func (dc *dc3) Evaluate(vi sdf.V3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))
	if dist, found := dc.read(vi); found {
		return v, dist
	}
	dist := dc.s.Evaluate(v)
	dc.write(vi, dist)
	return v, dist
}

// IsEmpty reports whether the cube contains no surface.
func (dc *dc3) IsEmpty(c *cube) bool {
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s sdf.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[sdf.V3i]float64),
	}
	for i := range dc.hdiag {
		side := float64(int(1)<<uint(i)) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*side*side)
	}
	return &dc
}

func (dc *dc3) read(vi sdf.V3i) (float64, bool) {
	dc.mu.Lock()
	dist, found := dc.cache[vi]
	dc.mu.Unlock()
	return dist, found
}

func (dc *dc3) write(vi sdf.V3i, dist float64) {
	dc.mu.Lock()
	dc.cache[vi] = dist
	dc.mu.Unlock()
}
