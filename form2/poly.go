package form2

import (
	"runtime/debug"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/keycap/form2/must2"
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Polygon(vertex), err
}

// Polygons returns an SDF2 made from closed contours filled with the
// even-odd rule.
func Polygons(contours [][]r2.Vec) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Polygons(contours), err
}

// Text returns the SDF2 for a line of text set in font f with em size
// size. Glyph curves are flattened into facets segments.
func Text(f *truetype.Font, text string, size float64, facets int) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Text(f, text, size, facets), err
}
