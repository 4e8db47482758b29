package homing

import (
	"testing"

	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/dish"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

func dished(t *testing.T) solid.Solid {
	t.Helper()
	cap, err := base.Build(base.Settings{
		Width: unit.UInMM, Length: unit.UInMM, Height: 8, Diff: -7,
		BottomRounding: 1, BottomKind: base.Fillet,
		TopRounding: 2, TopKind: base.Fillet,
	})
	if err != nil {
		t.Fatal(err)
	}
	cap, err = dish.Apply(cap, dish.Settings{Height: 8, Thickness: 1.8, Row: 3, TopDiff: -7})
	if err != nil {
		t.Fatal(err)
	}
	return cap
}

func TestPassThrough(t *testing.T) {
	cap := dished(t)
	for _, k := range []Kind{None, Scooped} {
		got, err := Add(cap, k)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Faces()) != len(cap.Faces()) {
			t.Errorf("%v changed the cap", k)
		}
	}
}

func TestMarkers(t *testing.T) {
	cap := dished(t)
	ref, err := cap.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []Kind{Bar, Dot} {
		t.Run(k.String(), func(t *testing.T) {
			got, err := Add(cap, k)
			if err != nil {
				t.Fatal(err)
			}
			bb, err := got.Bounds()
			if err != nil {
				t.Fatal(err)
			}
			if bb.Max.Z > ref.Max.Z+2*solid.Tolerance {
				t.Errorf("marker rises above the rim: %+v", bb)
			}
			// the marker sits in the dish, in front of the center.
			var found bool
			for y := -8.0; y < 0 && !found; y += 0.1 {
				for z := 3.0; z < 8; z += 0.1 {
					p := r3.Vec{Y: y, Z: z}
					if got.Contains(p) && !cap.Contains(p) {
						found = true
						break
					}
				}
			}
			if !found {
				t.Error("no marker material found in the front of the dish")
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, k := range []Kind{None, Bar, Scooped, Dot} {
		got, ok := Parse(k.String())
		if !ok || got != k {
			t.Errorf("Parse(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := Parse("star"); ok {
		t.Error("parsed unknown kind")
	}
}
