package row

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	for n := First; n <= Last; n++ {
		adj, err := Lookup(n)
		if err != nil {
			t.Fatal(err)
		}
		if adj.TranslateZ != -1 {
			t.Errorf("row %d: normal dish offset %g, want -1", n, adj.TranslateZ)
		}
		if adj.Scoop <= 0 {
			t.Errorf("row %d: scoop %g", n, adj.Scoop)
		}
	}
	adj, _ := Lookup(1)
	if adj.Angle != 15 || adj.Height != 5 || adj.TopThickness != 3 {
		t.Errorf("row 1 = %+v", adj)
	}
	adj, _ = Lookup(4)
	if adj.ExtraDiagonalInverted != 1.55 || adj.Angle != -10 {
		t.Errorf("row 4 = %+v", adj)
	}
	for _, n := range []int{-1, 0, 5} {
		if _, err := Lookup(n); !errors.Is(err, ErrRow) {
			t.Errorf("row %d: got %v, want ErrRow", n, err)
		}
	}
}
