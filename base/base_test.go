package base

import (
	"errors"
	"testing"

	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

func defaultSettings() Settings {
	return Settings{
		Width:          unit.U(1).MM().Get(),
		Length:         unit.U(1).MM().Get(),
		Height:         8,
		Diff:           -7,
		BottomRounding: 1,
		BottomKind:     Fillet,
		TopRounding:    2,
		TopKind:        Fillet,
	}
}

func equalBox2(a, b r2.Box, tol float64) bool {
	return scalar.EqualWithinAbs(a.Min.X, b.Min.X, tol) && scalar.EqualWithinAbs(a.Min.Y, b.Min.Y, tol) &&
		scalar.EqualWithinAbs(a.Max.X, b.Max.X, tol) && scalar.EqualWithinAbs(a.Max.Y, b.Max.Y, tol)
}

func TestBasicBounds(t *testing.T) {
	s := defaultSettings()
	cap, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := cap.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	const tol = 5 * solid.Tolerance
	if !scalar.EqualWithinAbs(bb.Max.X-bb.Min.X, s.Width, tol) ||
		!scalar.EqualWithinAbs(bb.Max.Y-bb.Min.Y, s.Length, tol) ||
		!scalar.EqualWithinAbs(bb.Max.Z-bb.Min.Z, s.Height, tol) {
		t.Errorf("bounds %+v for %gx%gx%g", bb, s.Width, s.Length, s.Height)
	}
	top, err := cap.SectionBounds(s.Height - 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if got := top.Max.X - top.Min.X; !scalar.EqualWithinAbs(got, s.Width+s.Diff, 0.1) {
		t.Errorf("top width %g, want %g", got, s.Width+s.Diff)
	}
}

func TestSteppedFootprint(t *testing.T) {
	for _, kind := range []StepKind{Center, Left, Right, Up, Down} {
		t.Run(kind.String(), func(t *testing.T) {
			s := defaultSettings()
			s.Width = unit.U(1.75).MM().Get()
			ref, err := Build(s)
			if err != nil {
				t.Fatal(err)
			}
			want, err := ref.SectionBounds(0.01)
			if err != nil {
				t.Fatal(err)
			}
			s.Step = &StepSettings{Kind: kind}
			stepped, err := Build(s)
			if err != nil {
				t.Fatal(err)
			}
			got, err := stepped.SectionBounds(0.01)
			if err != nil {
				t.Fatal(err)
			}
			if !equalBox2(got, want, 2*solid.Tolerance) {
				t.Errorf("stepped footprint %+v, basic %+v", got, want)
			}
			if len(stepped.Hooks(solid.Top(1))) == 0 {
				t.Error("step face has no blend hook")
			}
		})
	}
}

func TestRaisedSize(t *testing.T) {
	w, l := 2*unit.UInMM, unit.UInMM
	tests := []struct {
		kind   StepKind
		rw, rl float64
	}{
		{Center, unit.UInMM, l},
		{Left, w * 5 / 7, l},
		{Right, w * 5 / 7, l},
		{Up, w, l * 5 / 7},
		{Down, w, l * 5 / 7},
	}
	for _, test := range tests {
		rw, rl := StepSettings{Kind: test.kind}.RaisedSize(w, l)
		if !scalar.EqualWithinAbs(rw, test.rw, 1e-9) || !scalar.EqualWithinAbs(rl, test.rl, 1e-9) {
			t.Errorf("%v: raised %gx%g, want %gx%g", test.kind, rw, rl, test.rw, test.rl)
		}
	}
	if h := (StepSettings{}).StepHeight(8); h != 4 {
		t.Errorf("default step height %g, want 4", h)
	}
}

func TestISOEnter(t *testing.T) {
	s := defaultSettings()
	s.Width = unit.U(1.5).MM().Get()
	s.Length = unit.U(2).MM().Get()
	s.ISOEnter = true
	cap, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := cap.SectionBounds(0.01)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(bb.Max.X-bb.Min.X, s.Width, 0.05) || !scalar.EqualWithinAbs(bb.Max.Y-bb.Min.Y, s.Length, 0.05) {
		t.Errorf("iso footprint %+v", bb)
	}
	// lower left is the notch of the L.
	notch := r2.Vec{X: bb.Min.X + 1, Y: bb.Min.Y + 1}
	if cap.Section(0.01).Evaluate(notch) <= 0 {
		t.Error("material in the ISO notch")
	}
	walls := len(cap.Faces()) - 2
	if walls != 6 {
		t.Errorf("iso enter has %d walls, want 6", walls)
	}
	s.Step = &StepSettings{Kind: Left}
	if _, err := Build(s); err != nil {
		t.Fatal(err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []func(*Settings){
		func(s *Settings) { s.Width = 0 },
		func(s *Settings) { s.Height = -1 },
		func(s *Settings) { s.Step = &StepSettings{Height: unit.Abs(unit.MM(9))} },
		func(s *Settings) { s.Step = &StepSettings{RaisedWidth: unit.Abs(unit.U(2))} },
		func(s *Settings) { s.BottomRounding = 20 },
	}
	for i, mod := range tests {
		s := defaultSettings()
		mod(&s)
		if _, err := Build(s); !errors.Is(err, ErrSettings) {
			t.Errorf("case %d: got %v, want ErrSettings", i, err)
		}
	}
}

func TestCloneStep(t *testing.T) {
	s := defaultSettings()
	s.Step = &StepSettings{Kind: Left}
	c := s.Clone()
	c.Step.Kind = Right
	if s.Step.Kind != Left {
		t.Error("clone shares step settings")
	}
}
