package base

import (
	"errors"
	"fmt"

	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSettings is returned for settings no shell can be built from.
var ErrSettings = errors.New("invalid base settings")

// Hook tags of the lofts built here. The hook names are the tags with a
// ".top" or ".bottom" suffix.
const (
	TagBase   = "base"
	TagStep   = "step"
	TagRaised = "raised"
)

// Build returns the shell described by s.
func Build(s Settings) (solid.Solid, error) {
	if s.Width <= 0 || s.Length <= 0 || s.Height <= 0 {
		return solid.Solid{}, fmt.Errorf("size %gx%gx%g: %w", s.Width, s.Length, s.Height, ErrSettings)
	}
	if s.Width+s.Diff <= 0 || s.Length+s.Diff <= 0 {
		return solid.Solid{}, fmt.Errorf("top outline vanishes with diff %g: %w", s.Diff, ErrSettings)
	}
	switch {
	case s.ISOEnter && s.Step != nil:
		return steppedISO(s)
	case s.ISOEnter:
		return isoEnter(s)
	case s.Step != nil:
		return stepped(s)
	}
	return basic(s)
}

// box lofts a w by l footprint to its top outline over the full height.
func box(tag string, s Settings, w, l, clip float64) (solid.Solid, error) {
	bottom, err := rect(w, l, s.BottomRounding, s.BottomKind, s.facets())
	if err != nil {
		return solid.Solid{}, fmt.Errorf("%s bottom: %w", tag, err)
	}
	top, err := rect(w+s.Diff, l+s.Diff, s.TopRounding, s.TopKind, s.facets())
	if err != nil {
		return solid.Solid{}, fmt.Errorf("%s top: %w", tag, err)
	}
	return solid.Loft(solid.LoftParms{
		Tag:    tag,
		Bottom: bottom,
		Top:    top,
		Height: s.Height,
		Floor:  s.Floor,
		Clip:   clip,
	})
}

func basic(s Settings) (solid.Solid, error) {
	return box(TagBase, s, s.Width, s.Length, 0)
}

func stepHeight(s Settings) (float64, error) {
	sh := s.Step.StepHeight(s.Height)
	if sh <= 0 || sh >= s.Height {
		return 0, fmt.Errorf("step height %g not in (0, %g): %w", sh, s.Height, ErrSettings)
	}
	return sh, nil
}

// stepped unites the full footprint cut at the step height with the raised
// part at full height.
func stepped(s Settings) (solid.Solid, error) {
	sh, err := stepHeight(s)
	if err != nil {
		return solid.Solid{}, err
	}
	rw, rl := s.Step.RaisedSize(s.Width, s.Length)
	if rw <= 0 || rl <= 0 || rw > s.Width || rl > s.Length {
		return solid.Solid{}, fmt.Errorf("raised %gx%g does not fit %gx%g: %w", rw, rl, s.Width, s.Length, ErrSettings)
	}
	step, err := box(TagStep, s, s.Width, s.Length, sh)
	if err != nil {
		return solid.Solid{}, err
	}
	raised, err := box(TagRaised, s, rw, rl, 0)
	if err != nil {
		return solid.Solid{}, err
	}
	pos := s.Step.Kind.Position()
	raised = solid.Translate(raised, r3.Vec{
		X: pos.X.Apply((s.Width - rw) / 2),
		Y: pos.Y.Apply((s.Length - rl) / 2),
	})
	return solid.Union(step, raised), nil
}

func isoLoft(tag string, s Settings, clip float64) (solid.Solid, error) {
	bf, sh := float64(s.baseFraction()), float64(s.shoulder())
	if bf <= 0 || bf >= 1 || sh <= 0 || sh >= 1 {
		return solid.Solid{}, fmt.Errorf("iso fractions %g, %g: %w", bf, sh, ErrSettings)
	}
	bottom, err := outline(isoVertices(s.Width, s.Length, 0, bf, sh), s.BottomRounding, s.BottomKind, s.facets())
	if err != nil {
		return solid.Solid{}, fmt.Errorf("%s bottom: %w", tag, err)
	}
	top, err := outline(isoVertices(s.Width, s.Length, s.Diff, bf, sh), s.TopRounding, s.TopKind, s.facets())
	if err != nil {
		return solid.Solid{}, fmt.Errorf("%s top: %w", tag, err)
	}
	return solid.Loft(solid.LoftParms{
		Tag:    tag,
		Bottom: bottom,
		Top:    top,
		Height: s.Height,
		Floor:  s.Floor,
		Clip:   clip,
	})
}

func isoEnter(s Settings) (solid.Solid, error) {
	return isoLoft(TagBase, s, 0)
}

// steppedISO raises the lower part of the L over an L shaped step.
func steppedISO(s Settings) (solid.Solid, error) {
	sh, err := stepHeight(s)
	if err != nil {
		return solid.Solid{}, err
	}
	step, err := isoLoft(TagStep, s, sh)
	if err != nil {
		return solid.Solid{}, err
	}
	raised, err := box(TagRaised, s, s.baseFraction().Apply(s.Width), s.Length, 0)
	if err != nil {
		return solid.Solid{}, err
	}
	return solid.Union(step, raised), nil
}
