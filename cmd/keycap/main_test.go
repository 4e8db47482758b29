package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/keycap/unit"
)

func TestParseWidths(t *testing.T) {
	got, err := parseWidths("1, 1.25,2")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]unit.U{1, 1.25, 2}, got); diff != "" {
		t.Errorf("widths mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseWidths("1,wide"); err == nil {
		t.Error("bad width accepted")
	}
}
