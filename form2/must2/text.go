package must2

import (
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// Glyph outline decoding.

// TextContours returns the outlines of a single line of text set in f at
// the given em size in millimetres. Quadratic segments are flattened into
// facets line segments. The baseline starts at the origin with +Y up.
// Newlines start a new line one em and a quarter below.
func TextContours(f *truetype.Font, text string, size float64, facets int) [][]r2.Vec {
	if f == nil {
		panic("nil font")
	}
	if size <= 0 {
		panic("size <= 0")
	}
	if facets < 1 {
		facets = 1
	}
	// glyphs are loaded at a fixed resolution and scaled down to size.
	const ppem = 1024
	scale := fixed.Int26_6(ppem * 64)
	k := size / ppem
	var (
		gb       truetype.GlyphBuf
		contours [][]r2.Vec
	)
	for line, txt := range strings.Split(text, "\n") {
		var x fixed.Int26_6
		y := -float64(line) * 1.25 * size
		prev, hasPrev := truetype.Index(0), false
		for _, r := range txt {
			idx := f.Index(r)
			if hasPrev {
				x += f.Kern(scale, prev, idx)
			}
			if err := gb.Load(f, scale, idx, font.HintingNone); err != nil {
				panic(err)
			}
			start := 0
			for _, end := range gb.Ends {
				c := glyphContour(gb.Points[start:end], facets)
				start = end
				if len(c) < 3 {
					continue
				}
				for i := range c {
					c[i] = r2.Vec{X: (c[i].X + fixed26(x)) * k, Y: c[i].Y*k + y}
				}
				contours = append(contours, c)
			}
			x += gb.AdvanceWidth
			prev, hasPrev = idx, true
		}
	}
	return contours
}

// Text returns the SDF2 of text set in f. See TextContours.
func Text(f *truetype.Font, text string, size float64, facets int) *polygons {
	contours := TextContours(f, text, size, facets)
	if len(contours) == 0 {
		panic("text has no outline")
	}
	return Polygons(contours)
}

func fixed26(v fixed.Int26_6) float64 { return float64(v) / 64 }

// glyphContour flattens one TrueType contour. Off-curve points are
// quadratic control points; two consecutive off-curve points imply an
// on-curve point at their midpoint.
func glyphContour(pts []truetype.Point, facets int) []r2.Vec {
	n := len(pts)
	if n == 0 {
		return nil
	}
	on := func(i int) bool { return pts[i%n].Flags&0x01 != 0 }
	at := func(i int) r2.Vec {
		p := pts[i%n]
		return r2.Vec{X: fixed26(p.X), Y: fixed26(p.Y)}
	}
	// find a starting point on the curve.
	first := -1
	for i := 0; i < n; i++ {
		if on(i) {
			first = i
			break
		}
	}
	var start r2.Vec
	if first < 0 {
		// all points are off-curve: start at an implied midpoint.
		start = r2.Scale(0.5, r2.Add(at(0), at(1)))
		first = 0
	} else {
		start = at(first)
	}
	out := []r2.Vec{start}
	cur := start
	var ctrl r2.Vec
	hasCtrl := false
	for j := 1; j <= n; j++ {
		i := first + j
		p := at(i)
		if on(i) {
			if hasCtrl {
				out = appendQuad(out, cur, ctrl, p, facets)
				hasCtrl = false
			} else {
				out = append(out, p)
			}
			cur = p
			continue
		}
		if hasCtrl {
			mid := r2.Scale(0.5, r2.Add(ctrl, p))
			out = appendQuad(out, cur, ctrl, mid, facets)
			cur = mid
		}
		ctrl, hasCtrl = p, true
	}
	if hasCtrl {
		out = appendQuad(out, cur, ctrl, start, facets)
	}
	// the contour is closed implicitly.
	if len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// appendQuad appends the flattened quadratic Bézier p0-p1-p2, excluding p0.
func appendQuad(dst []r2.Vec, p0, p1, p2 r2.Vec, facets int) []r2.Vec {
	for i := 1; i <= facets; i++ {
		t := float64(i) / float64(facets)
		mt := 1 - t
		p := r2.Add(r2.Add(r2.Scale(mt*mt, p0), r2.Scale(2*mt*t, p1)), r2.Scale(t*t, p2))
		dst = append(dst, p)
	}
	return dst
}
