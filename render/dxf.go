package render

import (
	"errors"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrNoContours is returned when a drawing has nothing to draw.
var ErrNoContours = errors.New("no contours to draw")

// CreateDXF writes closed contours as line segments to a DXF file.
func CreateDXF(path string, contours [][]r2.Vec) error {
	if len(contours) == 0 {
		return ErrNoContours
	}
	d := dxf.NewDrawing()
	d.AddLayer("Profile", color.Red, table.LT_CONTINUOUS, true)
	d.ChangeLayer("Profile")
	for _, c := range contours {
		for i := range c {
			p0, p1 := c[i], c[(i+1)%len(c)]
			if _, err := d.Line(p0.X, p0.Y, 0, p1.X, p1.Y, 0); err != nil {
				return err
			}
		}
	}
	return d.SaveAs(path)
}
