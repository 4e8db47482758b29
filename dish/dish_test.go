package dish

import (
	"errors"
	"testing"

	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

func shell(t *testing.T) solid.Solid {
	t.Helper()
	cap, err := base.Build(base.Settings{
		Width:          unit.UInMM,
		Length:         unit.UInMM,
		Height:         8,
		Diff:           -7,
		BottomRounding: 1,
		BottomKind:     base.Fillet,
		TopRounding:    2,
		TopKind:        base.Fillet,
	})
	if err != nil {
		t.Fatal(err)
	}
	return cap
}

func settings(r int) Settings {
	return Settings{Height: 8, Width: unit.UInMM, Length: unit.UInMM, Thickness: 1.8, Row: r, TopDiff: -7}
}

func TestDishTopology(t *testing.T) {
	dished, err := Apply(shell(t), settings(3))
	if err != nil {
		t.Fatal(err)
	}
	if got := dished.Edges(solid.Planar); got != 4 {
		t.Errorf("planar edges %d, want 4", got)
	}
	if got := dished.Edges(solid.Curved); got != 14 {
		t.Errorf("curved edges %d, want 14", got)
	}
}

func TestDishDepth(t *testing.T) {
	cap := shell(t)
	dished, err := Apply(cap, settings(3))
	if err != nil {
		t.Fatal(err)
	}
	center := r3.Vec{Z: 7.5}
	if !cap.Contains(center) {
		t.Fatal("shell does not contain its top center")
	}
	if dished.Contains(center) {
		t.Error("dish did not remove material at the top center")
	}
	if !dished.Contains(r3.Vec{Z: 4}) {
		t.Error("dish cut too deep")
	}
	hooks := dished.Hooks(solid.Top(0))
	if len(hooks) != 1 || hooks[0].Name != Hook {
		t.Errorf("top hooks %+v, want the dish rim", hooks)
	}
}

func TestDishRows(t *testing.T) {
	for r := row.First; r <= row.Last; r++ {
		for _, inverted := range []bool{false, true} {
			s := settings(r)
			s.Inverted = inverted
			dished, err := Apply(shell(t), s)
			if err != nil {
				t.Fatalf("row %d inverted=%v: %v", r, inverted, err)
			}
			if _, err := dished.Bounds(); err != nil {
				t.Errorf("row %d inverted=%v: %v", r, inverted, err)
			}
		}
	}
	if _, err := Apply(shell(t), settings(5)); !errors.Is(err, row.ErrRow) {
		t.Errorf("row 5: got %v, want ErrRow", err)
	}
}

func TestFilletTooBig(t *testing.T) {
	dished, err := Apply(shell(t), settings(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := solid.Fillet(dished, solid.Top(0), solid.Blend{Radius: 30}); !errors.Is(err, solid.ErrFillet) {
		t.Errorf("fillet 30: got %v, want ErrFillet", err)
	}
	if _, err := solid.Fillet(dished, solid.Top(0), solid.Blend{Radius: 0.6}); err != nil {
		t.Errorf("fillet 0.6: %v", err)
	}
}

func TestInvertedDome(t *testing.T) {
	s := settings(3)
	s.Inverted = true
	domed, err := Apply(shell(t), s)
	if err != nil {
		t.Fatal(err)
	}
	if !domed.Contains(r3.Vec{Z: 7.5}) {
		t.Error("inverted dish removed the center of the top")
	}
}
