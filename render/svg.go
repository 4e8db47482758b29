package render

import (
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/soypat/keycap/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// svgMargin is the border around drawings in pixels.
const svgMargin = 10

// WriteSVG draws closed contours to w scaled by pxPerMM. The drawing is
// flipped so +Y points up.
func WriteSVG(w io.Writer, contours [][]r2.Vec, pxPerMM float64) error {
	if len(contours) == 0 {
		return ErrNoContours
	}
	bb := contourBounds(contours)
	width := int(math.Ceil((bb.Max.X-bb.Min.X)*pxPerMM)) + 2*svgMargin
	height := int(math.Ceil((bb.Max.Y-bb.Min.Y)*pxPerMM)) + 2*svgMargin
	canvas := svg.New(w)
	canvas.Start(width, height)
	for _, c := range contours {
		xs := make([]int, len(c))
		ys := make([]int, len(c))
		for i, p := range c {
			xs[i] = svgMargin + int(math.Round((p.X-bb.Min.X)*pxPerMM))
			ys[i] = height - svgMargin - int(math.Round((p.Y-bb.Min.Y)*pxPerMM))
		}
		canvas.Polygon(xs, ys, "fill:none;stroke:black;stroke-width:1")
	}
	canvas.End()
	return nil
}

func contourBounds(contours [][]r2.Vec) r2.Box {
	bb := d2.EmptyBox()
	for _, c := range contours {
		for _, p := range c {
			bb = bb.Include(p)
		}
	}
	return r2.Box(bb)
}
