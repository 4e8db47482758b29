package keycap

import (
	"bytes"
	"errors"
	"log"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/homing"
	"github.com/soypat/keycap/render"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// exportAll lets cmp look into the unexported fields of Cap.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func TestFootprintInvariance(t *testing.T) {
	const tol = 2 * solid.Tolerance
	footprint := func(c *Cap) r2.Box {
		t.Helper()
		cap, _, err := c.Step(StageBase).Build()
		if err != nil {
			t.Fatal(err)
		}
		bb, err := cap.SectionBounds(0.01)
		if err != nil {
			t.Fatal(err)
		}
		return bb
	}
	for _, w := range []unit.U{1, 1.25, 1.75, 2.25} {
		want := footprint(New().Width(w))
		for _, kind := range []base.StepKind{base.Center, base.Left, base.Right, base.Up, base.Down} {
			got := footprint(New().Width(w).Stepped(kind))
			if !scalar.EqualWithinAbs(got.Min.X, want.Min.X, tol) || !scalar.EqualWithinAbs(got.Max.X, want.Max.X, tol) ||
				!scalar.EqualWithinAbs(got.Min.Y, want.Min.Y, tol) || !scalar.EqualWithinAbs(got.Max.Y, want.Max.Y, tol) {
				t.Errorf("%gU %v: stepped footprint %+v, basic %+v", float64(w), kind, got, want)
			}
		}
	}
}

// sweepWidths are the widths built by TestSweep, the last two only outside
// short mode.
var sweepWidths = []unit.U{1, 1.25, 1.5, 1.75, 2, 2.25, 2.75, 6.25, 7}

// extentXY is the X/Y bounding box of the fully built cap, taken over the
// section through the bottom and the section through the stems.
func extentXY(t *testing.T, c *Cap) r2.Box {
	t.Helper()
	cap, _, err := c.Build()
	if err != nil {
		t.Fatalf("%s: %v", c.Name(), err)
	}
	var bb r2.Box
	for i, z := range []float64{0.01, 2} {
		sec, err := cap.SectionBounds(z)
		if err != nil {
			t.Fatalf("%s: %v", c.Name(), err)
		}
		if i == 0 {
			bb = sec
			continue
		}
		bb.Min = r2.Vec{X: math.Min(bb.Min.X, sec.Min.X), Y: math.Min(bb.Min.Y, sec.Min.Y)}
		bb.Max = r2.Vec{X: math.Max(bb.Max.X, sec.Max.X), Y: math.Max(bb.Max.Y, sec.Max.Y)}
	}
	return bb
}

func TestSweep(t *testing.T) {
	const tol = 4 * solid.Tolerance
	for r := row.First; r <= row.Last; r++ {
		for _, w := range sweepWidths {
			if testing.Short() && w > 3 {
				continue
			}
			normal := New().Row(r).Width(w)
			want := extentXY(t, normal)
			wantX, wantY := want.Max.X-want.Min.X, want.Max.Y-want.Min.Y
			if wmm, lmm := normal.width.MM().Get(), normal.length.MM().Get(); wantX > wmm+tol || wantY > lmm+tol {
				t.Errorf("%s: extent %gx%g exceeds footprint %gx%g", normal.Name(), wantX, wantY, wmm, lmm)
			}
			for _, c := range []*Cap{
				normal.Clone().Inverted(),
				normal.Clone().Stepped(base.Right),
				normal.Clone().Stepped(base.Left),
			} {
				got := extentXY(t, c)
				if gotX := got.Max.X - got.Min.X; !scalar.EqualWithinAbs(gotX, wantX, tol) {
					t.Errorf("%s: X extent %g, normal cap %g", c.Name(), gotX, wantX)
				}
				if gotY := got.Max.Y - got.Min.Y; !scalar.EqualWithinAbs(gotY, wantY, tol) {
					t.Errorf("%s: Y extent %g, normal cap %g", c.Name(), gotY, wantY)
				}
			}
		}
	}
}

func TestHomingBarAddsMaterial(t *testing.T) {
	plain, _, err := New().Step(StageHoming).Build()
	if err != nil {
		t.Fatal(err)
	}
	barred, _, err := New().Homing(homing.Bar).Step(StageHoming).Build()
	if err != nil {
		t.Fatal(err)
	}
	gained := 0
	for x := -4.0; x <= 4; x += 1 {
		for y := -9.0; y <= 9; y += 0.5 {
			for z := 4.0; z <= 8.5; z += 0.25 {
				p := r3.Vec{X: x, Y: y, Z: z}
				if plain.Contains(p) && !barred.Contains(p) {
					t.Fatalf("bar removed material at %v", p)
				}
				if barred.Contains(p) && !plain.Contains(p) {
					gained++
				}
			}
		}
	}
	if gained == 0 {
		t.Error("bar added no material above the dish")
	}
}

func TestFullBuild(t *testing.T) {
	for _, c := range []*Cap{
		New(),
		New().Homing(homing.Bar).Legend("A"),
		New().Width(unit.U(1.75)).Stepped(base.Left),
	} {
		cap, text, err := c.Build()
		if err != nil {
			t.Fatalf("%s: %v", c.Name(), err)
		}
		bb, err := cap.Bounds()
		if err != nil {
			t.Fatal(err)
		}
		if w := c.width.MM().Get(); bb.Max.X-bb.Min.X > w+solid.Tolerance {
			t.Errorf("%s: width %g exceeds footprint %g", c.Name(), bb.Max.X-bb.Min.X, w)
		}
		if (c.legend.Text != "") != (text != nil) {
			t.Errorf("%s: legend body %v for legend %q", c.Name(), text != nil, c.legend.Text)
		}
	}
}

func TestHollow(t *testing.T) {
	c := New()
	cap, _, err := c.Step(StageHollow).Build()
	if err != nil {
		t.Fatal(err)
	}
	// under the ceiling and inside the walls.
	for _, p := range []struct{ x, y, z float64 }{{0, 0, 1}, {5, 5, 2}, {-5, 0, 4}} {
		if cap.Contains(r3Vec(p.x, p.y, p.z)) {
			t.Errorf("material at %v in the hollow", p)
		}
	}
	if !cap.Contains(r3Vec(unit.UInMM/2-0.75, 0, 0.5)) {
		t.Error("wall missing")
	}
}

func TestFilletTooBig(t *testing.T) {
	_, _, err := New().Row(1).TopFillet(30).Step(StageFillet).Build()
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("got %v, want GeometryError", err)
	}
	if gerr.Param != "top fillet" || gerr.Row != 1 || gerr.Value != 30 {
		t.Errorf("error context %+v", gerr)
	}
	if !strings.HasPrefix(err.Error(), "top fillet too big") {
		t.Errorf("message %q", err)
	}
	if !errors.Is(err, solid.ErrFillet) {
		t.Error("cause is not ErrFillet")
	}
}

func TestProbeFillets(t *testing.T) {
	var logs bytes.Buffer
	c := New().ProbeFillets(true).Logger(log.New(&logs, "", 0)).Step(StageFillet)
	before := c.Clone()
	if _, _, err := c.Build(); err != nil {
		t.Fatal(err)
	}
	after := c.Clone()
	before.log, after.log = nil, nil
	if diff := cmp.Diff(before, after, exportAll); diff != "" {
		t.Errorf("Build changed the configuration: %s", diff)
	}
	if !strings.Contains(logs.String(), "largest feasible radius") {
		t.Errorf("fillet limit not logged: %q", logs.String())
	}
	probes, err := c.Probes()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"top fillet", "bottom fillet"} {
		if probes[name] <= 0 {
			t.Errorf("%s probe %g", name, probes[name])
		}
	}
	// negative values are measured without the flag.
	probes, err = New().TopFillet(-1).BottomFillet(0).Probes()
	if err != nil {
		t.Fatal(err)
	}
	if len(probes) != 1 || probes["top fillet"] <= 0 {
		t.Errorf("probes %v", probes)
	}
	// nothing is measured by default.
	if probes, err = New().Probes(); err != nil || len(probes) != 0 {
		t.Errorf("default probes %v, %v", probes, err)
	}
}

func TestIsValid(t *testing.T) {
	valid, err := New().IsValid()
	if err != nil {
		t.Fatal(err)
	}
	if !valid {
		t.Error("default cap is not valid")
	}
	r, err := New().MaxPossibleFillet(solid.Top(0), 1e-2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if r <= 0.6 {
		t.Errorf("max top fillet %g does not allow the default", r)
	}
}

func TestConfigErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		c    *Cap
		want error
	}{
		{"row", New().Row(5), row.ErrRow},
		{"wall", New().Wall(10), ErrConfig},
		{"top", New().TopThickness(9), ErrConfig},
		{"dish", New().DishThickness(0), ErrConfig},
	} {
		if _, _, err := test.c.Build(); !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

func TestRowAdjusts(t *testing.T) {
	c := New().Row(1)
	if c.height != 13 || c.topThickness != 6 {
		t.Errorf("row 1 height %g top %g", c.height, c.topThickness)
	}
	c.Row(1)
	if c.height != 18 {
		t.Errorf("repeated row adjustment height %g", c.height)
	}
}

func TestClone(t *testing.T) {
	c := New().Stepped(base.Left).StabPositions([]r2.Vec{{X: 12}})
	d := c.Clone().Width(unit.U(2)).StepHeight(unit.Abs(unit.MM(3))).StabPositions(nil)
	d.stabs = append(d.stabs, r2.Vec{X: 1})
	if c.width != unit.U(1) {
		t.Error("clone shares width")
	}
	if !c.step.Height.IsZero() {
		t.Error("clone shares step settings")
	}
	if len(c.stabs) != 1 || c.stabs[0].X != 12 {
		t.Errorf("clone shares stabilizer positions: %v", c.stabs)
	}
	if c.Name() == d.Name() {
		t.Errorf("clone name %q equals original", d.Name())
	}
}

func TestName(t *testing.T) {
	for _, test := range []struct {
		c    *Cap
		want string
	}{
		{New(), "qsc_row3_1x1"},
		{New().Row(1).Width(unit.U(1.25)).Inverted(), "qsc_row1_1.25x1_i"},
		{New().ISOEnter().Stepped(base.Center), "qsc_row3_isoEnter_stepped"},
		{New().Width(unit.MM(unit.UInMM * 2)).Legend("Esc"), "qsc_row3_2x1_Esc"},
	} {
		if got := test.c.Name(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestExportSTL(t *testing.T) {
	var b bytes.Buffer
	c := New().Step(StageHollow)
	if err := c.ExportSTL(&b, 0.8, 15); err != nil {
		t.Fatal(err)
	}
	model, err := render.ReadSTL(&b)
	if err != nil && len(model) == 0 {
		t.Fatal(err)
	}
	bb := render.Bounds(model)
	// lying on its side: the cap height runs along Y.
	if size := bb.Max.Z - bb.Min.Z; size < 0.8*unit.UInMM {
		t.Errorf("printed cap spans %g in Z", size)
	}
	// 250 degrees about X: the cap top points down and forward.
	tilt := 250 * math.Pi / 180
	m := c.PrintTransform()
	if got := m.MulDirection(r3.Vec{Y: 1}).Z; !scalar.EqualWithinAbs(got, math.Sin(tilt), 1e-9) {
		t.Errorf("back of the cap at Z %g, want %g", got, math.Sin(tilt))
	}
	if got := m.MulDirection(r3.Vec{Z: 1}).Z; !scalar.EqualWithinAbs(got, math.Cos(tilt), 1e-9) {
		t.Errorf("cap top at Z %g, want %g", got, math.Cos(tilt))
	}
}

func r3Vec(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

func TestSection(t *testing.T) {
	contours, err := New().Step(StageHollow).Section(0.5, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	// outer wall and hollow.
	if len(contours) != 2 {
		t.Errorf("got %d contours, want 2", len(contours))
	}
}
