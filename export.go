package keycap

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/keycap/helpers/matter"
	"github.com/soypat/keycap/render"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/spatial/r2"
)

// printTilt is the rotation about X that lays a cap on its side for
// printing.
const printTilt = 250

// ExportOptions control mesh export.
type ExportOptions struct {
	// Tolerance is the mesh cell size in millimetres.
	Tolerance float64
	// AngularTolerance in degrees sets how finely arcs and glyph curves
	// are flattened.
	AngularTolerance float64
	// ASCII writes ASCII STL instead of binary.
	ASCII bool
	// Simplify decimates the mesh to this fraction of its triangles. Zero
	// keeps every triangle.
	Simplify float64
	// Material compensates for shrinkage. The zero value is matter.Exact.
	Material matter.ViscousMaterial
	// Concurrency is the number of meshing goroutines.
	Concurrency int
}

// DefaultExportOptions are the options of ExportSTL and CreateSTL.
func DefaultExportOptions(tol, angTol float64) ExportOptions {
	return ExportOptions{
		Tolerance:        tol,
		AngularTolerance: angTol,
		Material:         matter.PLA,
		Concurrency:      1,
	}
}

// Name returns the file name stem of the cap, for example
// "qsc_row3_1x1_stepped".
func (c *Cap) Name() string {
	var b strings.Builder
	b.WriteString("qsc_row" + strconv.Itoa(c.row))
	if c.iso {
		b.WriteString("_isoEnter")
	} else {
		fmt.Fprintf(&b, "_%gx%g", float64(c.width.U()), float64(c.length.U()))
	}
	if c.inverted {
		b.WriteString("_i")
	}
	if c.step != nil {
		b.WriteString("_stepped")
	}
	if c.legend.Text != "" {
		b.WriteString("_" + c.legend.Text)
	}
	return b.String()
}

// ExportSTL builds the cap and writes it to w as binary STL in print
// orientation. tol is the mesh cell size and angTol the angular
// tolerance of curves in degrees.
func (c *Cap) ExportSTL(w io.Writer, tol, angTol float64) error {
	return c.Export(w, nil, DefaultExportOptions(tol, angTol))
}

// CreateSTL builds the cap and writes it to path. When the cap has a
// legend, the legend body is written next to it with a "_LEGEND" suffix.
func (c *Cap) CreateSTL(path string, tol, angTol float64) error {
	return c.CreateFiles(path, DefaultExportOptions(tol, angTol))
}

// CreateFiles is CreateSTL with explicit options.
func (c *Cap) CreateFiles(path string, opt ExportOptions) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	var legend io.Writer
	if c.legend.Text != "" && c.runs(StageLegend) {
		lp, err := os.Create(strings.TrimSuffix(path, ".stl") + "_LEGEND.stl")
		if err != nil {
			return err
		}
		defer lp.Close()
		legend = lp
	}
	if err := c.Export(fp, legend, opt); err != nil {
		return err
	}
	return fp.Close()
}

// Export builds the cap and writes its mesh to w and, when both legend
// and a legend body exist, the legend mesh to legend.
func (c *Cap) Export(w, legend io.Writer, opt ExportOptions) error {
	if opt.Tolerance <= 0 {
		return fmt.Errorf("export tolerance %g must be positive: %w", opt.Tolerance, ErrConfig)
	}
	b := c
	if opt.AngularTolerance > 0 {
		// the facet count applies to this export only.
		b = c.Clone()
		b.facets = int(math.Ceil(90 / opt.AngularTolerance))
	}
	cap, text, err := b.Build()
	if err != nil {
		return err
	}
	if err := c.writeMesh(w, "cap", cap, opt); err != nil {
		return err
	}
	if legend != nil && text != nil {
		return c.writeMesh(legend, "legend", *text, opt)
	}
	return nil
}

// PrintTransform returns the transform from model to print orientation.
func (c *Cap) PrintTransform() sdf.M44 {
	return sdf.RotateX(sdf.DtoR(printTilt)).Mul(sdf.RotateZ(sdf.DtoR(-c.stem.Rotation)))
}

func (c *Cap) writeMesh(w io.Writer, part string, s solid.Solid, opt ExportOptions) error {
	shape := opt.Material.Scale(sdf.Transform3D(s.SDF(), c.PrintTransform()))
	r := render.NewCellRenderer(shape, opt.Tolerance).SetConcurrency(opt.Concurrency)
	model, err := render.RenderAll(r)
	if err != nil {
		return fmt.Errorf("meshing %s: %w", part, err)
	}
	model = render.Simplify(model, opt.Simplify)
	c.logf("%s %s: %d triangles", c.Name(), part, len(model))
	if opt.ASCII {
		return render.WriteSTLASCII(w, c.Name()+"_"+part, model)
	}
	return render.WriteSTL(w, model)
}

// Section builds the cap and traces its cross section at height z on a
// grid of the given cell size, in model coordinates.
func (c *Cap) Section(z, cell float64) ([][]r2.Vec, error) {
	cap, _, err := c.Build()
	if err != nil {
		return nil, err
	}
	contours, err := render.Contours(cap.Section(z), cell)
	if err != nil {
		return nil, fmt.Errorf("section at z=%g: %w", z, err)
	}
	return contours, nil
}

// Preview builds and meshes the cap in model orientation with cell size tol
// and renders a shaded image of it.
func (c *Cap) Preview(tol float64, view render.View) (image.Image, error) {
	cap, _, err := c.Build()
	if err != nil {
		return nil, err
	}
	model, err := render.RenderAll(render.NewCellRenderer(cap.SDF(), tol))
	if err != nil {
		return nil, err
	}
	return render.Preview(model, view)
}
