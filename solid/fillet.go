package solid

import (
	"fmt"

	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// BlendKind selects the edge treatment of a Blend.
type BlendKind int

const (
	// Round blends edges with a circular fillet.
	Round BlendKind = iota
	// Chamfer bevels edges with a flat cut.
	Chamfer
)

// Blend is an edge treatment of a given size.
type Blend struct {
	Kind   BlendKind
	Radius float64
}

func (b Blend) max() sdf.MaxFunc {
	if b.Kind == Chamfer {
		return sdf.ChamferMax(b.Radius)
	}
	return sdf.RoundMax(b.Radius)
}

func (b Blend) min() sdf.MinFunc {
	if b.Kind == Chamfer {
		return sdf.ChamferMin(b.Radius)
	}
	return sdf.RoundMin(b.Radius)
}

// Fillet rounds or bevels the edges of the faces picked by sel. It fails
// with ErrFillet when the selection has no blendable edge or when the
// radius exceeds what one of the involved hooks can build.
func Fillet(s Solid, sel Selector, b Blend) (Solid, error) {
	if b.Radius <= 0 {
		return Solid{}, fmt.Errorf("radius %g: %w", b.Radius, ErrFillet)
	}
	hooks := s.Hooks(sel)
	if len(hooks) == 0 {
		return Solid{}, fmt.Errorf("no blendable edges selected: %w", ErrFillet)
	}
	blends := copyBlends(s.blends)
	for _, h := range hooks {
		if b.Radius > h.Limit {
			return Solid{}, fmt.Errorf("radius %g exceeds %g at %q: %w", b.Radius, h.Limit, h.Name, ErrFillet)
		}
		blends[h.Name] = b
	}
	faces := make([]Face, len(s.faces))
	for i := range s.faces {
		faces[i] = s.faces[i].clone()
	}
	edges := make(map[int]edge, len(s.edges))
	for id, e := range s.edges {
		edges[id] = e
	}
	return newSolid(s.root, faces, edges, copyHooks(s.hooks), blends), nil
}

// MaxFillet searches for the largest round radius Fillet accepts on the
// faces picked by sel by bisecting [0, 2*diagonal] of the solid bounds. It
// returns ErrNoConvergence when the bracket is not narrower than tol after
// maxIter steps.
func MaxFillet(s Solid, sel Selector, tol float64, maxIter int) (float64, error) {
	if tol <= 0 {
		return 0, fmt.Errorf("tolerance %g: %w", tol, ErrNoConvergence)
	}
	bb, err := s.Bounds()
	if err != nil {
		return 0, err
	}
	hi := 2 * r3.Norm(r3.Sub(bb.Max, bb.Min))
	lo := 0.0
	if _, err := Fillet(s, sel, Blend{Radius: hi}); err == nil {
		return hi, nil
	}
	for i := 0; i < maxIter; i++ {
		if hi-lo < tol {
			return lo, nil
		}
		mid := (lo + hi) / 2
		if _, err := Fillet(s, sel, Blend{Radius: mid}); err == nil {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi-lo < tol {
		return lo, nil
	}
	return lo, fmt.Errorf("after %d iterations bracket is [%g, %g]: %w", maxIter, lo, hi, ErrNoConvergence)
}
