package render_test

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdfxrender "github.com/deadsy/sdfx/render"
	sdfx "github.com/deadsy/sdfx/sdf"
	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/form3"
	"github.com/soypat/keycap/render"
	"github.com/soypat/keycap/sdf"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

const benchQuality = 200

func sphere(t testing.TB, r float64, cells int) []render.Triangle3 {
	t.Helper()
	s, err := form3.Sphere(r)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(s, cells))
	if err != nil {
		t.Fatal(err)
	}
	return model
}

func TestSphereMesh(t *testing.T) {
	const r = 5
	model := sphere(t, r, 40)
	var area float64
	for _, tri := range model {
		area += tri.Area()
	}
	if want := 4 * math.Pi * r * r; !scalar.EqualWithinRel(area, want, 0.03) {
		t.Errorf("sphere area %g, want %g", area, want)
	}
	bb := render.Bounds(model)
	for _, v := range []float64{bb.Max.X, bb.Max.Y, bb.Max.Z, -bb.Min.X, -bb.Min.Y, -bb.Min.Z} {
		if !scalar.EqualWithinAbs(v, r, 0.1) {
			t.Errorf("sphere bounds %+v, want radius %g", bb, float64(r))
			break
		}
	}
	mesh := render.Weld(model, 1e-9)
	if err := mesh.Check(); err != nil {
		t.Error(err)
	}
	// closed genus 0 surface.
	if chi := len(mesh.Vertices) - len(mesh.Faces)/2; chi != 2 {
		t.Errorf("Euler characteristic %d, want 2", chi)
	}
}

func TestCreateSTLMatchesWriteSTL(t *testing.T) {
	const quality = 20
	box, err := form3.Box(r3.Vec{X: 3, Y: 2, Z: 1}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := render.CreateSTL(path, render.NewOctreeRenderer(box, quality)); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(box, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("empty model written")
	}
}

func TestASCIISTL(t *testing.T) {
	model := sphere(t, 1, 10)
	var b bytes.Buffer
	if err := render.WriteSTLASCII(&b, "ball", model); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "solid ball") {
		t.Errorf("ASCII STL starts with %q", b.String()[:20])
	}
	name, got, err := render.ReadSTLAny(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if name != "ball" || len(got) != len(model) {
		t.Errorf("read %q with %d triangles, want %q with %d", name, len(got), "ball", len(model))
	}
}

func TestSimplify(t *testing.T) {
	model := sphere(t, 5, 30)
	got := render.Simplify(model, 0.25)
	if len(got) == 0 || len(got) > len(model)/2 {
		t.Errorf("simplified %d triangles to %d", len(model), len(got))
	}
	if len(render.Simplify(model, 1)) != len(model) {
		t.Error("factor 1 changed the model")
	}
}

// frame is a 10x10 square with a 4x4 hole.
var frame = [][]r2.Vec{
	{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	{{X: 3, Y: 3}, {X: 3, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 3}},
}

func TestProfileWriters(t *testing.T) {
	dir := t.TempDir()
	if err := render.CreateDXF(filepath.Join(dir, "frame.dxf"), frame); err != nil {
		t.Fatal(err)
	}
	if err := render.CreateDXF(filepath.Join(dir, "none.dxf"), nil); err == nil {
		t.Error("empty DXF written")
	}
	var svg bytes.Buffer
	if err := render.WriteSVG(&svg, frame, 10); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(svg.String(), "<polygon"); n != 2 {
		t.Errorf("SVG has %d polygons, want 2", n)
	}
	if err := render.CreatePNG2D(filepath.Join(dir, "frame.png"), frame, 10); err != nil {
		t.Fatal(err)
	}
	img, err := render.RasterizeContours(frame, 10)
	if err != nil {
		t.Fatal(err)
	}
	// margin of 10 pixels, y flipped.
	hole := img.RGBAAt(10+50, img.Bounds().Dy()-10-50)
	wall := img.RGBAAt(10+15, img.Bounds().Dy()-10-15)
	if hole.R != 0xff || hole.G != 0xff || hole.B != 0xff {
		t.Errorf("hole is filled: %v", hole)
	}
	if wall.R == 0xff && wall.G == 0xff && wall.B == 0xff {
		t.Errorf("material is not filled: %v", wall)
	}
}

func signedArea(c []r2.Vec) float64 {
	var a float64
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func TestContours(t *testing.T) {
	outer, err := form2.Box(r2.Vec{X: 10, Y: 10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	hole, err := form2.Circle(2)
	if err != nil {
		t.Fatal(err)
	}
	contours, err := render.Contours(sdf.Difference2D(outer, hole), 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}
	var ccw, cw float64
	for _, c := range contours {
		if a := signedArea(c); a > 0 {
			ccw += a
		} else {
			cw += a
		}
	}
	if !scalar.EqualWithinAbs(ccw, 100, 0.5) {
		t.Errorf("outer area %g, want 100", ccw)
	}
	if !scalar.EqualWithinRel(-cw, 4*math.Pi, 0.02) {
		t.Errorf("hole area %g, want %g", -cw, 4*math.Pi)
	}
	if _, err := render.Contours(outer, 0); err == nil {
		t.Error("zero cell size accepted")
	}
}

func TestContoursThroughGridNodes(t *testing.T) {
	// the outlines of both shapes pass exactly through grid nodes.
	square, err := form2.Box(r2.Vec{X: 2, Y: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	disk, err := form2.Circle(1)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		s    sdf.SDF2
		area float64
		tol  float64
	}{
		{"square", square, 4, 1e-9},
		{"disk", disk, math.Pi, 0.6},
	} {
		t.Run(test.name, func(t *testing.T) {
			contours, err := render.Contours(test.s, 0.5)
			if err != nil {
				t.Fatal(err)
			}
			if len(contours) != 1 {
				t.Fatalf("got %d contours, want 1", len(contours))
			}
			if a := signedArea(contours[0]); !scalar.EqualWithinAbs(a, test.area, test.tol) {
				t.Errorf("area %g, want %g", a, test.area)
			}
		})
	}
}

func TestCreatePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sections.png")
	err := render.CreatePlot(path, "frame", []render.Section{{Name: "outer", Contours: frame[:1]}, {Name: "inner", Contours: frame[1:]}})
	if err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
}

func TestPreviewDeterministic(t *testing.T) {
	model := sphere(t, 1, 20)
	view := render.DefaultView
	view.Width, view.Height = 160, 120
	var pngs [2][]byte
	for i := range pngs {
		img, err := render.Preview(model, view)
		if err != nil {
			t.Fatal(err)
		}
		var b bytes.Buffer
		if err := png.Encode(&b, img); err != nil {
			t.Fatal(err)
		}
		pngs[i] = b.Bytes()
	}
	equal, err := cmpimg.EqualApprox("png", pngs[0], pngs[1], 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("preview not deterministic")
	}
}

func BenchmarkSDFXSphere(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	output := filepath.Join(b.TempDir(), "sdfx_sphere.stl")
	object, _ := sdfx.Sphere3D(10)
	for i := 0; i < b.N; i++ {
		sdfxrender.ToSTL(object, benchQuality, output, &sdfxrender.MarchingCubesOctree{})
	}
}

func BenchmarkSphere(b *testing.B) {
	output := filepath.Join(b.TempDir(), "sphere.stl")
	object, _ := form3.Sphere(10)
	for i := 0; i < b.N; i++ {
		render.CreateSTL(output, render.NewOctreeRenderer(object, benchQuality))
	}
}
