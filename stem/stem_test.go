package stem

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// hollow returns a w by l shell with 1.5 mm walls and a 3 mm top.
func hollow(t *testing.T, w, l float64) solid.Solid {
	t.Helper()
	top := math.Min(2, (math.Min(w, l)-7)/2-0.1)
	outer, err := base.Build(base.Settings{
		Width: w, Length: l, Height: 8, Diff: -7,
		BottomRounding: 1, BottomKind: base.Fillet,
		TopRounding: top, TopKind: base.Fillet,
	})
	if err != nil {
		t.Fatal(err)
	}
	inner, err := base.Build(base.Settings{
		Width: w - 3, Length: l - 3, Height: 5, Diff: -7 * 5 / 8.0, Floor: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return solid.Cut(outer, inner, solid.Hook{})
}

func TestCherryProfile(t *testing.T) {
	p, err := Cherry{}.Profile(Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Evaluate(r2.Vec{}) <= 0 {
		t.Error("cross not cut at the stem center")
	}
	if p.Evaluate(r2.Vec{X: 1.8, Y: 1.8}) >= 0 {
		t.Error("no material between the cross arms")
	}
	if p.Evaluate(r2.Vec{X: 2.9}) <= 0 {
		t.Error("material outside the stem radius")
	}
	slop, err := Cherry{}.Profile(Settings{HSlop: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if q := (r2.Vec{X: 0.8, Y: 1.5}); p.Evaluate(q) >= 0 || slop.Evaluate(q) <= 0 {
		t.Error("horizontal slop did not widen the cross")
	}
}

func TestUnsupported(t *testing.T) {
	cap := hollow(t, unit.UInMM, unit.UInMM)
	p := Parms{Height: 8, TopThickness: 3, Wall: 1.5, BottomFillet: 0.6, Width: unit.UInMM, Length: unit.UInMM}
	for _, v := range []Variant{Alps{}, Choc{}} {
		if _, err := Build(cap, Settings{Variant: v}, p); !errors.Is(err, ErrUnsupportedStem) {
			t.Errorf("%v: got %v, want ErrUnsupportedStem", v.Kind(), err)
		}
	}
	if _, err := Build(cap, Settings{Variant: Placeholder{}}, p); err != nil {
		t.Errorf("placeholder: %v", err)
	}
	if _, err := ParseVariant("topre"); !errors.Is(err, ErrUnsupportedStem) {
		t.Errorf("topre: got %v", err)
	}
}

func TestPositions(t *testing.T) {
	tests := []struct {
		w, l float64
		rot  float64
		want []r2.Vec
	}{
		{unit.UInMM, unit.UInMM, 0, nil},
		{2 * unit.UInMM, unit.UInMM, 0, []r2.Vec{{X: -12}, {X: 12}}},
		{2 * unit.UInMM, unit.UInMM, 90, nil},
		{unit.UInMM, 2 * unit.UInMM, 90, []r2.Vec{{X: -12}, {X: 12}}},
		{6.25 * unit.UInMM, unit.UInMM, 180, []r2.Vec{{X: -50}, {X: 50}}},
	}
	for _, test := range tests {
		got := positions(Settings{Rotation: test.rot}, Parms{Width: test.w, Length: test.l})
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%gx%g rot %g: (-want +got)\n%s", test.w, test.l, test.rot, diff)
		}
	}
	explicit := []r2.Vec{{X: -5}, {X: 7}}
	got := positions(Settings{}, Parms{Width: 7 * unit.UInMM, Positions: explicit})
	if diff := cmp.Diff(explicit, got); diff != "" {
		t.Errorf("explicit positions: %s", diff)
	}
}

func TestStabsIgnoreOffset(t *testing.T) {
	cap := hollow(t, 2*unit.UInMM, unit.UInMM)
	p := Parms{Height: 8, TopThickness: 3, Wall: 1.5, Width: 2 * unit.UInMM, Length: unit.UInMM, Positions: []r2.Vec{{X: 12}}}
	a, err := Build(cap, Settings{Offset: r3.Vec{X: 3}}, p)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		x    float64
		want bool
	}{
		{3 + 1.8, true},   // offset center stem
		{12 + 1.8, true},  // stabilizer at its own position
		{15 + 1.8, false}, // stabilizer moved by the offset
	} {
		if got := a.Contains(r3.Vec{X: test.x, Y: 1.8, Z: 2}); got != test.want {
			t.Errorf("material at x=%g: got %v, want %v", test.x, got, test.want)
		}
	}
}

func TestStemWithSupport(t *testing.T) {
	cap := hollow(t, unit.UInMM, unit.UInMM)
	p := Parms{Height: 8, TopThickness: 3, Wall: 1.5, BottomFillet: 0.6, Width: unit.UInMM, Length: unit.UInMM}
	withStem, err := Add(cap, Settings{Support: true}, p)
	if err != nil {
		t.Fatal(err)
	}
	// material in the stem ring and none in the cross.
	if !withStem.Contains(r3.Vec{X: 1.8, Y: 1.8, Z: 2}) {
		t.Error("no stem material")
	}
	if withStem.Contains(r3.Vec{Z: 2}) {
		t.Error("stem cross is filled")
	}
	// the wedge joins the stem toward -Y.
	var found bool
	for y := -3.0; y > -8 && !found; y -= 0.1 {
		found = withStem.Contains(r3.Vec{Y: y, Z: 1}) && !cap.Contains(r3.Vec{Y: y, Z: 1})
	}
	if !found {
		t.Error("no support wedge in front of the stem")
	}
}

func TestSupportTooNarrow(t *testing.T) {
	cap := hollow(t, 10, 10)
	p := Parms{Height: 8, TopThickness: 3, Wall: 1.5, BottomFillet: 0.6, Width: 10, Length: 10}
	_, err := Build(cap, Settings{Support: true}, p)
	var se *SupportError
	if !errors.As(err, &se) || !errors.Is(err, ErrSupport) {
		t.Fatalf("got %v, want SupportError", err)
	}
}
