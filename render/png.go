package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"gonum.org/v1/gonum/spatial/r2"
)

// CreatePNG2D renders closed contours filled with the even-odd rule to a
// PNG file at path, scaled by pxPerMM.
func CreatePNG2D(path string, contours [][]r2.Vec, pxPerMM float64) error {
	img, err := RasterizeContours(contours, pxPerMM)
	if err != nil {
		return err
	}
	return draw2dimg.SaveToPngFile(path, img)
}

// RasterizeContours returns the image CreatePNG2D writes.
func RasterizeContours(contours [][]r2.Vec, pxPerMM float64) (*image.RGBA, error) {
	if len(contours) == 0 {
		return nil, ErrNoContours
	}
	const margin = svgMargin
	bb := contourBounds(contours)
	width := int(math.Ceil((bb.Max.X-bb.Min.X)*pxPerMM)) + 2*margin
	height := int(math.Ceil((bb.Max.Y-bb.Min.Y)*pxPerMM)) + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	gc.SetFillColor(color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff})
	gc.SetStrokeColor(color.Black)
	gc.SetLineWidth(1)
	gc.BeginPath()
	for _, c := range contours {
		for i, p := range c {
			x := margin + (p.X-bb.Min.X)*pxPerMM
			y := float64(height) - margin - (p.Y-bb.Min.Y)*pxPerMM
			if i == 0 {
				gc.MoveTo(x, y)
			} else {
				gc.LineTo(x, y)
			}
		}
		gc.Close()
	}
	gc.FillStroke()
	return img, nil
}
