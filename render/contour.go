package render

import (
	"errors"
	"math"

	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrOpenContour is returned when a traced outline does not close.
var ErrOpenContour = errors.New("open contour")

// squareTriangles splits a grid square, corners counter clockwise from the
// origin, along the 0-2 diagonal into two counter clockwise triangles.
// Every square is split the same way so shared edges of neighbouring cells
// cross at the same point.
var squareTriangles = [2][3]int{{0, 1, 2}, {0, 2, 3}}

var squareCorners = [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// gridEdge identifies the grid edge between two corner indices, lowest
// first.
type gridEdge struct{ a, b int }

func newGridEdge(a, b int) gridEdge {
	if a > b {
		a, b = b, a
	}
	return gridEdge{a: a, b: b}
}

// Contours traces the closed outlines of s on a grid of the given cell
// size. Outlines have the material on their left: outer boundaries run
// counter clockwise and holes clockwise.
func Contours(s sdf.SDF2, cell float64) ([][]r2.Vec, error) {
	if cell <= 0 {
		return nil, errors.New("contour cell size must be positive")
	}
	bb := s.Bounds()
	min := r2.Sub(bb.Min, r2.Vec{X: cell, Y: cell})
	nx := int(math.Ceil((bb.Max.X-bb.Min.X)/cell)) + 3
	ny := int(math.Ceil((bb.Max.Y-bb.Min.Y)/cell)) + 3
	index := func(i, j int) int { return j*nx + i }
	at := func(k int) r2.Vec {
		return r2.Vec{X: min.X + float64(k%nx)*cell, Y: min.Y + float64(k/nx)*cell}
	}
	values := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			values[index(i, j)] = s.Evaluate(at(index(i, j)))
		}
	}
	crossing := func(e gridEdge) r2.Vec {
		return interpolate2(at(e.a), at(e.b), values[e.a], values[e.b])
	}

	next := make(map[gridEdge]gridEdge)
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			var k [4]int
			for c, off := range squareCorners {
				k[c] = index(i+off[0], j+off[1])
			}
			for _, t := range squareTriangles {
				from, to, ok := triangleSegment(k[t[0]], k[t[1]], k[t[2]], values)
				if ok {
					next[from] = to
				}
			}
		}
	}

	var contours [][]r2.Vec
	for len(next) > 0 {
		var start gridEdge
		for e := range next {
			start = e
			break
		}
		var contour []r2.Vec
		e := start
		for {
			to, ok := next[e]
			if !ok {
				return contours, ErrOpenContour
			}
			delete(next, e)
			// zero values on grid nodes give repeated crossings.
			if p := crossing(e); len(contour) == 0 || p != contour[len(contour)-1] {
				contour = append(contour, p)
			}
			e = to
			if e == start {
				break
			}
		}
		if len(contour) > 1 && contour[0] == contour[len(contour)-1] {
			contour = contour[:len(contour)-1]
		}
		if len(contour) >= 3 {
			contours = append(contours, contour)
		}
	}
	return contours, nil
}

// triangleSegment returns the two edges of the counter clockwise triangle
// abc crossed by the zero level, ordered so the material lies on the left
// of the segment. Values of exactly zero count as outside.
func triangleSegment(a, b, c int, v []float64) (from, to gridEdge, ok bool) {
	in := func(k int) bool { return v[k] < 0 }
	// x is the corner alone on its side, y and z follow it counter clockwise.
	var x, y, z int
	switch {
	case in(a) == in(b) && in(b) == in(c):
		return from, to, false
	case in(a) == in(b):
		x, y, z = c, a, b
	case in(b) == in(c):
		x, y, z = a, b, c
	default:
		x, y, z = b, c, a
	}
	if in(x) {
		return newGridEdge(x, y), newGridEdge(x, z), true
	}
	return newGridEdge(x, z), newGridEdge(x, y), true
}

func interpolate2(p1, p2 r2.Vec, v1, v2 float64) r2.Vec {
	if v1 == v2 {
		return r2.Scale(0.5, r2.Add(p1, p2))
	}
	t := v1 / (v1 - v2)
	return r2.Add(p1, r2.Scale(t, r2.Sub(p2, p1)))
}
