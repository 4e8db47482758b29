// Package base builds the outer shell of a keycap: a loft from the
// footprint outline up to the smaller top outline, optionally stepped or
// shaped as an ISO enter key.
package base

import (
	"github.com/soypat/keycap/unit"
)

// Rounding selects how profile corners are treated.
type Rounding int

const (
	None Rounding = iota
	Fillet
	Chamfer
)

func (r Rounding) String() string {
	switch r {
	case Fillet:
		return "fillet"
	case Chamfer:
		return "chamfer"
	}
	return "none"
}

// Default ISO enter proportions.
const (
	ISOBaseFraction unit.Percentage = 1.25 / 1.5
	ISOShoulder     unit.Percentage = 0.5
)

// Settings describes the shell. Lengths are millimetres.
type Settings struct {
	Width, Length, Height float64
	// Diff is the top outline size minus the bottom outline size.
	// Usually negative.
	Diff           float64
	BottomRounding float64
	BottomKind     Rounding
	TopRounding    float64
	TopKind        Rounding
	ISOEnter       bool
	// Shoulder is the length fraction of the ISO enter shoulder.
	Shoulder unit.Percentage
	// BaseFraction is the width fraction of the ISO enter lower part.
	BaseFraction unit.Percentage
	Step         *StepSettings
	// Floor extends the walls below z=0 so the shell can cut through
	// a floor.
	Floor float64
	// Facets per quarter turn of profile arcs.
	Facets int
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	if s.Step != nil {
		step := *s.Step
		s.Step = &step
	}
	return s
}

// SetTopRounding sets the rounding of the top outline corners.
func (s *Settings) SetTopRounding(amount float64, kind Rounding) *Settings {
	s.TopRounding, s.TopKind = amount, kind
	return s
}

// SetBottomRounding sets the rounding of the footprint corners.
func (s *Settings) SetBottomRounding(amount float64, kind Rounding) *Settings {
	s.BottomRounding, s.BottomKind = amount, kind
	return s
}

// SetISOEnter switches the footprint to the ISO enter L shape.
func (s *Settings) SetISOEnter(iso bool, shoulder unit.Percentage) *Settings {
	s.ISOEnter, s.Shoulder = iso, shoulder
	return s
}

// SetStep makes the shell stepped. A nil step removes the step.
func (s *Settings) SetStep(step *StepSettings) *Settings {
	s.Step = step
	return s
}

func (s Settings) facets() int {
	if s.Facets < 1 {
		return 8
	}
	return s.Facets
}

func (s Settings) shoulder() unit.Percentage {
	if s.Shoulder == 0 {
		return ISOShoulder
	}
	return s.Shoulder
}

func (s Settings) baseFraction() unit.Percentage {
	if s.BaseFraction == 0 {
		return ISOBaseFraction
	}
	return s.BaseFraction
}

// StepKind places the raised part of a stepped cap.
type StepKind int

const (
	Center StepKind = iota
	Left
	Right
	Up
	Down
)

var stepNames = [...]string{"center", "left", "right", "up", "down"}

func (k StepKind) String() string {
	if k < 0 || int(k) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[k]
}

// ParseStepKind returns the StepKind named s.
func ParseStepKind(s string) (StepKind, bool) {
	for i, name := range stepNames {
		if name == s {
			return StepKind(i), true
		}
	}
	return 0, false
}

// RaisedPosition locates the raised part within the footprint: -1 flushes
// it with the left (bottom) edge, 1 with the right (top) edge.
type RaisedPosition struct {
	X, Y unit.Percentage
}

// Position returns the raised position of the step kind.
func (k StepKind) Position() RaisedPosition {
	switch k {
	case Left:
		return RaisedPosition{X: -1}
	case Right:
		return RaisedPosition{X: 1}
	case Up:
		return RaisedPosition{Y: 1}
	case Down:
		return RaisedPosition{Y: -1}
	}
	return RaisedPosition{}
}

// StepSettings describes a stepped cap: a low step over the whole
// footprint and a raised part at full height.
type StepSettings struct {
	Kind StepKind
	// Height of the step. Relative to the cap height, default 50%.
	Height unit.Measure
	// RaisedWidth and RaisedLength size the raised part. Relative
	// measures apply to the footprint.
	RaisedWidth  unit.Measure
	RaisedLength unit.Measure
}

// StepHeight returns the step height for a cap of height h.
func (s StepSettings) StepHeight(h float64) float64 {
	return s.Height.Or(unit.Rel(0.5)).Resolve(h)
}

// RaisedSize returns the raised part size for a w by l footprint.
func (s StepSettings) RaisedSize(w, l float64) (rw, rl float64) {
	defW, defL := unit.Rel(1), unit.Rel(1)
	switch s.Kind {
	case Left, Right:
		defW = unit.Rel(5.0 / 7)
	case Center:
		defW = unit.Abs(unit.U(1))
	case Up, Down:
		defL = unit.Rel(5.0 / 7)
	}
	return s.RaisedWidth.Or(defW).Resolve(w), s.RaisedLength.Or(defL).Resolve(l)
}
