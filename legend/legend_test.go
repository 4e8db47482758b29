package legend

import (
	"testing"

	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
)

func shell(t *testing.T) solid.Solid {
	t.Helper()
	cap, err := base.Build(base.Settings{
		Width: unit.UInMM, Length: unit.UInMM, Height: 8, Diff: -7,
		BottomRounding: 1, BottomKind: base.Fillet,
		TopRounding: 2, TopKind: base.Fillet,
	})
	if err != nil {
		t.Fatal(err)
	}
	return cap
}

func TestEmptyLegend(t *testing.T) {
	cap := shell(t)
	got, text, err := Apply(cap, cap, Settings{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if text != nil {
		t.Error("text solid for empty legend")
	}
	if len(got.Faces()) != len(cap.Faces()) {
		t.Error("empty legend changed the cap")
	}
}

func TestEngrave(t *testing.T) {
	cap := shell(t)
	capBB, err := cap.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	s := Settings{Text: "Q", Size: 4, Depth: 1.2}
	for _, test := range []struct {
		rot  float64
		side Side
	}{
		{0, Back}, {90, Left}, {180, Front}, {270, Right},
	} {
		if got := s.Side.Resolve(test.rot); got != test.side {
			t.Errorf("rotation %g resolves to %v, want %v", test.rot, got, test.side)
		}
	}
	engraved, text, err := Apply(cap, cap, s, 0)
	if err != nil {
		t.Fatal(err)
	}
	if text == nil {
		t.Fatal("no text solid")
	}
	tb, err := text.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	// the text sits in the back wall.
	if tb.Max.Y < capBB.Max.Y-4 || tb.Min.Y < 0 {
		t.Errorf("text bounds %+v not in the back wall of %+v", tb, capBB)
	}
	if tb.Max.Z > capBB.Max.Z || tb.Min.Z < capBB.Min.Z {
		t.Errorf("text bounds %+v outside the cap %+v", tb, capBB)
	}
	if _, err := engraved.Bounds(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFont(t *testing.T) {
	for _, name := range []string{"", "Go", "Go Bold", "Go Mono"} {
		if _, err := LoadFont(name); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
	if _, err := LoadFont("/nonexistent/font.ttf"); err == nil {
		t.Error("loaded a missing font file")
	}
}

func TestContours(t *testing.T) {
	c, err := Contours(Settings{Text: "o", Size: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(c) != 2 {
		t.Errorf("letter o has %d contours, want 2", len(c))
	}
}
