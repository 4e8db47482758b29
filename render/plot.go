package render

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Section is a named set of closed contours, for example the cut of a
// solid at some height.
type Section struct {
	Name     string
	Contours [][]r2.Vec
}

// CreatePlot draws sections over each other on equal axes and saves the
// plot to path. The image format follows the path extension.
func CreatePlot(path, title string, sections []Section) error {
	if len(sections) == 0 {
		return ErrNoContours
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x [mm]"
	p.Y.Label.Text = "y [mm]"
	p.Add(plotter.NewGrid())
	for i, s := range sections {
		for j, c := range s.Contours {
			xys := make(plotter.XYs, len(c)+1)
			for k, v := range c {
				xys[k] = plotter.XY{X: v.X, Y: v.Y}
			}
			xys[len(c)] = xys[0]
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("section %q: %w", s.Name, err)
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			if j == 0 {
				p.Legend.Add(s.Name, line)
			}
		}
	}
	// equal axes.
	span := max(p.X.Max-p.X.Min, p.Y.Max-p.Y.Min)
	cx, cy := (p.X.Max+p.X.Min)/2, (p.Y.Max+p.Y.Min)/2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}
