// Command keycap builds keycaps and writes them as STL files.
//
// A single cap is configured with a JSON file (-config) and the command
// line flags, which take precedence. -sweep builds every row and width
// combination in parallel instead.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soypat/keycap"
	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/config"
	"github.com/soypat/keycap/homing"
	"github.com/soypat/keycap/render"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/unit"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = flag.String("config", "", "JSON configuration `file`")
	outDir     = flag.String("o", ".", "output directory")
	tol        = flag.Float64("tol", config.DefaultTolerance, "mesh cell size in mm")
	angTol     = flag.Float64("angtol", config.DefaultAngularTolerance, "angular tolerance of curves in degrees")
	rowFlag    = flag.Int("row", 3, "keyboard row, 1 to 4")
	width      = flag.Float64("width", 1, "width in U")
	length     = flag.Float64("length", 1, "length in U")
	legendText = flag.String("legend", "", "legend text")
	homingKind = flag.String("homing", "none", "homing feature: none, bar, scooped or dot")
	stepKind   = flag.String("step", "", "stepped cap raised part: center, left, right, up or down")
	iso        = flag.Bool("iso", false, "ISO enter key")
	inverted   = flag.Bool("inverted", false, "dome instead of dish")
	probe      = flag.Bool("probe", false, "log the largest feasible fillets instead of filleting")
	stages     = flag.Int("stages", keycap.AllStages, "number of build stages to run")
	jobs       = flag.Int("j", 4, "parallel builds in sweep mode")
	sweep      = flag.Bool("sweep", false, "build every row and width")
	widths     = flag.String("widths", "1,1.25,1.5,1.75,2,2.25,2.75,6.25,7", "comma separated widths in U of the sweep")
	preview    = flag.Bool("preview", false, "write a shaded PNG preview")
	profile    = flag.Float64("profile", 0, "write DXF, SVG and PNG drawings of the section at this height in mm")
	plotFlag   = flag.Bool("plot", false, "write a plot of sections through the cap")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}
	opt := keycap.DefaultExportOptions(*tol, *angTol)
	var cfg *config.File
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		if opt, err = cfg.ExportOptions(); err != nil {
			log.Fatal(err)
		}
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["tol"] {
		opt.Tolerance = *tol
	}
	if set["angtol"] {
		opt.AngularTolerance = *angTol
	}

	if *sweep {
		ws, err := parseWidths(*widths)
		if err != nil {
			log.Fatal(err)
		}
		if err := runSweep(ws, opt); err != nil {
			log.Fatal(err)
		}
		return
	}

	c := keycap.New().Logger(log.Default())
	if cfg != nil {
		if err := cfg.Apply(c); err != nil {
			log.Fatal(err)
		}
	}
	if err := applyFlags(c, set); err != nil {
		log.Fatal(err)
	}
	if err := export(c, opt); err != nil {
		log.Fatal(err)
	}
}

// applyFlags configures c with the flags given on the command line.
func applyFlags(c *keycap.Cap, set map[string]bool) error {
	if set["iso"] && *iso {
		c.ISOEnter()
	}
	if set["width"] {
		c.Width(unit.U(*width))
	}
	if set["length"] {
		c.Length(unit.U(*length))
	}
	if set["inverted"] && *inverted {
		c.Inverted()
	}
	if set["homing"] {
		k, ok := homing.Parse(*homingKind)
		if !ok {
			return fmt.Errorf("unknown homing %q", *homingKind)
		}
		c.Homing(k)
	}
	if set["step"] {
		k, ok := base.ParseStepKind(*stepKind)
		if !ok {
			return fmt.Errorf("unknown step kind %q", *stepKind)
		}
		c.Stepped(k)
	}
	if set["legend"] {
		c.Legend(*legendText)
	}
	if set["probe"] {
		c.ProbeFillets(*probe)
	}
	if set["stages"] {
		c.Step(*stages)
	}
	if set["row"] {
		c.Row(*rowFlag)
	}
	return nil
}

func export(c *keycap.Cap, opt keycap.ExportOptions) error {
	path := filepath.Join(*outDir, c.Name()+".stl")
	if err := c.CreateFiles(path, opt); err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}
	log.Printf("wrote %s", path)
	if *preview {
		img, err := c.Preview(opt.Tolerance, render.DefaultView)
		if err != nil {
			return err
		}
		if err := savePNG(filepath.Join(*outDir, c.Name()+"_preview.png"), img); err != nil {
			return err
		}
	}
	if *profile > 0 {
		if err := writeProfile(c, *profile, opt.Tolerance); err != nil {
			return err
		}
	}
	if *plotFlag {
		if err := writePlot(c, opt.Tolerance); err != nil {
			return err
		}
	}
	return nil
}

func writeProfile(c *keycap.Cap, z, cell float64) error {
	contours, err := c.Section(z, cell)
	if err != nil {
		return err
	}
	stem := filepath.Join(*outDir, fmt.Sprintf("%s_z%g", c.Name(), z))
	if err := render.CreateDXF(stem+".dxf", contours); err != nil {
		return err
	}
	fp, err := os.Create(stem + ".svg")
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := render.WriteSVG(fp, contours, 10); err != nil {
		return err
	}
	if err := fp.Close(); err != nil {
		return err
	}
	return render.CreatePNG2D(stem+".png", contours, 10)
}

// writePlot plots sections at a fifth, half and four fifths of the cap
// height.
func writePlot(c *keycap.Cap, cell float64) error {
	cap, _, err := c.Build()
	if err != nil {
		return err
	}
	bb, err := cap.Bounds()
	if err != nil {
		return err
	}
	var sections []render.Section
	for _, f := range []float64{0.2, 0.5, 0.8} {
		z := bb.Min.Z + f*(bb.Max.Z-bb.Min.Z)
		contours, err := render.Contours(cap.Section(z), cell)
		if err != nil {
			return err
		}
		sections = append(sections, render.Section{Name: fmt.Sprintf("z=%.1f", z), Contours: contours})
	}
	return render.CreatePlot(filepath.Join(*outDir, c.Name()+"_sections.png"), c.Name(), sections)
}

func savePNG(path string, img image.Image) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := png.Encode(fp, img); err != nil {
		return err
	}
	return fp.Close()
}

func parseWidths(s string) ([]unit.U, error) {
	var ws []unit.U
	for _, f := range strings.Split(s, ",") {
		w, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("width %q: %w", f, err)
		}
		ws = append(ws, unit.U(w))
	}
	return ws, nil
}

// runSweep exports every row, width and dish direction. The first error
// stops the sweep.
func runSweep(ws []unit.U, opt keycap.ExportOptions) error {
	var g errgroup.Group
	g.SetLimit(*jobs)
	for r := row.First; r <= row.Last; r++ {
		for _, w := range ws {
			for _, inv := range []bool{false, true} {
				r, w, inv := r, w, inv
				g.Go(func() error {
					c := keycap.New().Row(r).Width(w).Logger(log.Default())
					if inv {
						c.Inverted()
					}
					return export(c, opt)
				})
			}
		}
	}
	return g.Wait()
}
