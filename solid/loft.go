package solid

import (
	"fmt"
	"math"

	"github.com/soypat/keycap/internal/d2"
	"github.com/soypat/keycap/internal/d3"
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Number of samples taken along an edge and across a face.
const (
	edgeSamples = 9
	gridSamples = 7
)

// Profile is a closed planar outline split into composite edges. Each
// edge is an open polyline and ends where the next one begins.
type Profile struct {
	SDF   sdf.SDF2
	Edges [][]r2.Vec
}

// Bounds returns the bounding box of the profile outline.
func (p Profile) Bounds() r2.Box {
	bb := d2.EmptyBox()
	for _, e := range p.Edges {
		for _, v := range e {
			bb = bb.Include(v)
		}
	}
	return r2.Box(bb)
}

func (p Profile) validate() error {
	if p.SDF == nil {
		return fmt.Errorf("nil profile distance field: %w", ErrProfile)
	}
	if len(p.Edges) < 3 {
		return fmt.Errorf("profile with %d edges: %w", len(p.Edges), ErrProfile)
	}
	for i, e := range p.Edges {
		if len(e) < 2 {
			return fmt.Errorf("profile edge %d has %d points: %w", i, len(e), ErrProfile)
		}
	}
	return nil
}

// LoftParms describes a ruled solid between two profiles.
type LoftParms struct {
	// Tag prefixes the hook names of the loft: Tag+".top" and Tag+".bottom".
	Tag    string
	Bottom Profile
	Top    Profile
	// Height of the top profile above z=0.
	Height float64
	// Floor extends the walls below z=0 down to z=-Floor.
	Floor float64
	// Clip, when in (0, Height), cuts the loft flat at that height.
	Clip float64
}

// Loft builds the ruled solid between the bottom profile at z=0 and the top
// profile at z=Height. Its top and bottom caps are flat and carry blend
// hooks for their rims. Below z=0 the walls are vertical.
func Loft(p LoftParms) (Solid, error) {
	if err := p.Bottom.validate(); err != nil {
		return Solid{}, err
	}
	if err := p.Top.validate(); err != nil {
		return Solid{}, err
	}
	if len(p.Bottom.Edges) != len(p.Top.Edges) {
		return Solid{}, fmt.Errorf("bottom has %d edges, top has %d: %w", len(p.Bottom.Edges), len(p.Top.Edges), ErrProfile)
	}
	if p.Height <= 0 || p.Floor < 0 {
		return Solid{}, fmt.Errorf("loft height %g floor %g: %w", p.Height, p.Floor, ErrProfile)
	}
	topHook := p.Tag + ".top"
	bottomHook := p.Tag + ".bottom"
	zb, zt := -p.Floor, p.Height
	if p.Clip > 0 && p.Clip < p.Height {
		zt = p.Clip
	}
	open := sdf.OpenLoft3D(p.Bottom.SDF, p.Top.SDF, p.Height)

	var root node = leaf{s: open}
	root = clip{child: root, a: r3.Vec{Z: zt}, n: r3.Vec{Z: -1}, hook: topHook}
	root = clip{child: root, a: r3.Vec{Z: zb}, n: r3.Vec{Z: 1}, hook: bottomHook}

	n := len(p.Bottom.Edges)
	edges := make(map[int]edge, 3*n)
	// ids: bottom edges [0,n), top edges [n,2n), seams [2n,3n).
	bottom := make([][]r3.Vec, n)
	top := make([][]r3.Vec, n)
	section := Profile{SDF: sdf.Slice2D(open, r3.Vec{Z: zt}, r3.Vec{Z: 1}), Edges: make([][]r2.Vec, n)}
	for i := 0; i < n; i++ {
		b := resample(p.Bottom.Edges[i], edgeSamples)
		t := resample(p.Top.Edges[i], edgeSamples)
		for j := range t {
			t[j] = d2.Lerp(b[j], t[j], zt/p.Height)
		}
		section.Edges[i] = t
		bottom[i] = lift(b, zb)
		top[i] = lift(t, zt)
		edges[i] = edge{samples: bottom[i], hook: bottomHook}
		edges[n+i] = edge{samples: top[i], hook: topHook}
		b0, t0 := bottom[i][0], top[i][0]
		seam := make([]r3.Vec, edgeSamples)
		for j := range seam {
			seam[j] = d3.Lerp(b0, t0, float64(j)/float64(edgeSamples-1))
		}
		edges[2*n+i] = edge{samples: seam}
	}

	faces := make([]Face, 0, n+2)
	bottomIDs := make([]int, n)
	topIDs := make([]int, n)
	for i := range bottomIDs {
		bottomIDs[i] = i
		topIDs[i] = n + i
	}
	faces = append(faces, Face{
		Kind:    Planar,
		Normal:  r3.Vec{Z: -1},
		Edges:   bottomIDs,
		samples: capSamples(p.Bottom, zb),
	})
	faces = append(faces, Face{
		Kind:    Planar,
		Normal:  r3.Vec{Z: 1},
		Edges:   topIDs,
		samples: capSamples(section, zt),
	})
	for i := 0; i < n; i++ {
		var samples []r3.Vec
		for j := 1; j < edgeSamples-1; j++ {
			t := float64(j) / float64(edgeSamples-1)
			for k := range bottom[i] {
				samples = append(samples, d3.Lerp(bottom[i][k], top[i][k], t))
			}
		}
		kind := Curved
		if straight(p.Bottom.Edges[i]) && straight(section.Edges[i]) {
			kind = Planar
		}
		faces = append(faces, Face{
			Kind:    kind,
			Normal:  meanNormal(open, samples),
			Edges:   []int{i, n + i, 2*n + i, 2*n + (i+1)%n},
			samples: samples,
		})
	}

	tb, bb := d2.Box(section.Bounds()).Size(), d2.Box(p.Bottom.Bounds()).Size()
	hooks := map[string]float64{
		topHook:    math.Min(math.Min(tb.X, tb.Y)/2, zt),
		bottomHook: math.Min(math.Min(bb.X, bb.Y)/2, zt),
	}
	return newSolid(root, faces, edges, hooks, map[string]Blend{}), nil
}

// capSamples returns points of the outline and of a grid over the profile
// interior at height z.
func capSamples(p Profile, z float64) []r3.Vec {
	var pts []r3.Vec
	for _, e := range p.Edges {
		pts = append(pts, lift(resample(e, edgeSamples), z)...)
	}
	bb := p.Bounds()
	size := r2.Sub(bb.Max, bb.Min)
	for i := 1; i < gridSamples; i++ {
		for j := 1; j < gridSamples; j++ {
			q := r2.Vec{
				X: bb.Min.X + size.X*float64(i)/gridSamples,
				Y: bb.Min.Y + size.Y*float64(j)/gridSamples,
			}
			if p.SDF.Evaluate(q) < 0 {
				pts = append(pts, r3.Vec{X: q.X, Y: q.Y, Z: z})
			}
		}
	}
	return pts
}

func lift(pts []r2.Vec, z float64) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = d3.FromR2(p, z)
	}
	return out
}

// resample returns n points evenly spaced by arc length along a polyline.
func resample(line []r2.Vec, n int) []r2.Vec {
	cum := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cum[i] = cum[i-1] + r2.Norm(r2.Sub(line[i], line[i-1]))
	}
	total := cum[len(cum)-1]
	out := make([]r2.Vec, n)
	seg := 1
	for i := range out {
		s := total * float64(i) / float64(n-1)
		for seg < len(line)-1 && cum[seg] < s {
			seg++
		}
		l := cum[seg] - cum[seg-1]
		t := 0.0
		if l > 0 {
			t = sdf.Clamp((s-cum[seg-1])/l, 0, 1)
		}
		out[i] = d2.Lerp(line[seg-1], line[seg], t)
	}
	return out
}

// straight reports whether all points of a polyline lie on one line.
func straight(line []r2.Vec) bool {
	a, b := line[0], line[len(line)-1]
	ab := r2.Sub(b, a)
	l := r2.Norm(ab)
	if l == 0 {
		return false
	}
	for _, p := range line[1 : len(line)-1] {
		if math.Abs(r2.Cross(ab, r2.Sub(p, a)))/l > 1e-6 {
			return false
		}
	}
	return true
}

func meanNormal(s sdf.SDF3, pts []r3.Vec) r3.Vec {
	var n r3.Vec
	for _, p := range pts {
		n = r3.Add(n, sdf.Normal3(s, p, 1e-4))
	}
	if r3.Norm(n) == 0 {
		return n
	}
	return r3.Unit(n)
}
