// Package keycap generates parametric keycap solids. A Cap is configured
// through chained setters and built in stages: shell, dish, fillets,
// homing feature, hollow, stems and legend.
package keycap

import (
	"log"

	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/homing"
	"github.com/soypat/keycap/legend"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/stem"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stages of Build. A cap built with Step(n) runs the first n stages; the
// base always runs.
const (
	StageBase = iota + 1
	StageDish
	StageFillet
	StageHoming
	StageHollow
	StageStem
	StageLegend
	// AllStages runs every stage.
	AllStages = 10
)

// ISO enter preset values.
const (
	isoWidth      unit.U = 1.5
	isoLength     unit.U = 2
	isoStepFillet        = 0.221
)

// Cap is a keycap configuration. The zero value is not usable, use New.
type Cap struct {
	width, length unit.Length
	height        float64
	wall          float64
	topThickness  float64
	dishThickness float64
	topDiff       float64
	row           int
	inverted      bool
	homing        homing.Kind
	iso           bool
	step          *base.StepSettings

	bottomRounding, topRounding float64
	bottomKind, topKind         base.Rounding

	topFillet, bottomFillet, stepFillet float64
	probe                               bool

	stem      stem.Settings
	offsetSet bool
	stabs     []r2.Vec

	legend legend.Settings

	stages int
	facets int
	log    *log.Logger
}

// New returns a 1x1 U row 3 Cherry keycap with supported stem.
func New() *Cap {
	return &Cap{
		width:          unit.U(1),
		length:         unit.U(1),
		height:         8,
		wall:           1.5,
		topThickness:   3,
		dishThickness:  1.8,
		topDiff:        -7,
		row:            3,
		bottomRounding: 1,
		bottomKind:     base.Fillet,
		topRounding:    2,
		topKind:        base.Fillet,
		topFillet:      0.6,
		bottomFillet:   0.6,
		stepFillet:     0.6,
		stem:           stem.Settings{Support: true, Variant: stem.Cherry{}},
		legend:         legend.Settings{Depth: 1.2},
		stages:         AllStages,
	}
}

// Width sets the footprint width.
func (c *Cap) Width(w unit.Length) *Cap { c.width = w; return c }

// Length sets the footprint length.
func (c *Cap) Length(l unit.Length) *Cap { c.length = l; return c }

// Height sets the cap height in millimetres.
func (c *Cap) Height(h float64) *Cap { c.height = h; return c }

// Wall sets the wall thickness in millimetres.
func (c *Cap) Wall(t float64) *Cap { c.wall = t; return c }

// TopThickness sets the thickness of the cap ceiling in millimetres.
func (c *Cap) TopThickness(t float64) *Cap { c.topThickness = t; return c }

// DishThickness sets the dish depth in millimetres.
func (c *Cap) DishThickness(t float64) *Cap { c.dishThickness = t; return c }

// TopDiff sets the top outline size minus the footprint size.
func (c *Cap) TopDiff(d float64) *Cap { c.topDiff = d; return c }

// Row sets the keyboard row and adds the row's height and top thickness
// adjustments. Calling Row again adds them again. Rows outside the table
// are reported by Build.
func (c *Cap) Row(n int) *Cap {
	c.row = n
	if adj, err := row.Lookup(n); err == nil {
		c.height += adj.Height
		c.topThickness += adj.TopThickness
	}
	return c
}

// Inverted replaces the dish with a dome.
func (c *Cap) Inverted() *Cap { c.inverted = true; return c }

// Homing sets the homing feature.
func (c *Cap) Homing(k homing.Kind) *Cap { c.homing = k; return c }

// Stepped makes a stepped cap with the raised part placed by kind.
func (c *Cap) Stepped(kind base.StepKind) *Cap {
	if c.step == nil {
		c.step = &base.StepSettings{}
	}
	c.step.Kind = kind
	return c
}

// StepHeight sets the step height of a stepped cap.
func (c *Cap) StepHeight(m unit.Measure) *Cap {
	c.Stepped(c.stepKind()).step.Height = m
	return c
}

// RaisedWidth sets the width of the raised part of a stepped cap.
func (c *Cap) RaisedWidth(m unit.Measure) *Cap {
	c.Stepped(c.stepKind()).step.RaisedWidth = m
	return c
}

// RaisedLength sets the length of the raised part of a stepped cap.
func (c *Cap) RaisedLength(m unit.Measure) *Cap {
	c.Stepped(c.stepKind()).step.RaisedLength = m
	return c
}

func (c *Cap) stepKind() base.StepKind {
	if c.step == nil {
		return base.Center
	}
	return c.step.Kind
}

// ISOEnter shapes the cap as an ISO enter key: 1.5x2 U, stem rotated 90
// degrees at the origin.
func (c *Cap) ISOEnter() *Cap {
	c.iso = true
	c.width, c.length = isoWidth, isoLength
	c.stepFillet = isoStepFillet
	c.stem.Rotation = 90
	return c.StemOffset(r3.Vec{})
}

// Legend sets the legend text.
func (c *Cap) Legend(text string) *Cap { c.legend.Text = text; return c }

// LegendSettings replaces the legend settings.
func (c *Cap) LegendSettings(s legend.Settings) *Cap { c.legend = s.Clone(); return c }

// Stem sets the stem variant.
func (c *Cap) Stem(v stem.Variant) *Cap { c.stem.Variant = v; return c }

// StemRotation sets the stem rotation about Z in degrees.
func (c *Cap) StemRotation(deg float64) *Cap { c.stem.Rotation = deg; return c }

// StemOffset moves the stem away from the cap center.
func (c *Cap) StemOffset(v r3.Vec) *Cap {
	c.stem.Offset = v
	c.offsetSet = true
	return c
}

// StemSlop widens the stem cross for printing clearance.
func (c *Cap) StemSlop(h, v unit.MM) *Cap {
	c.stem.HSlop, c.stem.VSlop = h, v
	return c
}

// Support enables the wedge bracing Cherry stems.
func (c *Cap) Support(b bool) *Cap { c.stem.Support = b; return c }

// StabPositions places the stabilizer stems relative to the cap center.
// StemOffset moves only the center stem.
func (c *Cap) StabPositions(pos []r2.Vec) *Cap {
	c.stabs = append([]r2.Vec(nil), pos...)
	return c
}

// TopFillet sets the radius of the top edge fillet. Negative values probe
// the largest feasible radius instead of filleting.
func (c *Cap) TopFillet(v float64) *Cap { c.topFillet = v; return c }

// BottomFillet sets the radius of the footprint edge fillet. Negative
// values probe the largest feasible radius instead of filleting.
func (c *Cap) BottomFillet(v float64) *Cap { c.bottomFillet = v; return c }

// StepFillet sets the radius of the step edge fillet of stepped caps.
// Negative values probe the largest feasible radius instead of filleting.
func (c *Cap) StepFillet(v float64) *Cap { c.stepFillet = v; return c }

// TopRounding sets the corner rounding of the top outline.
func (c *Cap) TopRounding(amount float64, kind base.Rounding) *Cap {
	c.topRounding, c.topKind = amount, kind
	return c
}

// BottomRounding sets the corner rounding of the footprint.
func (c *Cap) BottomRounding(amount float64, kind base.Rounding) *Cap {
	c.bottomRounding, c.bottomKind = amount, kind
	return c
}

// ProbeFillets makes the fillet stage search and record the largest
// feasible radius of every fillet instead of applying it.
func (c *Cap) ProbeFillets(b bool) *Cap { c.probe = b; return c }

// Step limits Build to the first n stages.
func (c *Cap) Step(n int) *Cap { c.stages = n; return c }

// Logger sets the logger of probe results and validity reports. A nil
// logger discards.
func (c *Cap) Logger(l *log.Logger) *Cap { c.log = l; return c }

// Clone returns an independent copy of c.
func (c *Cap) Clone() *Cap {
	d := *c
	if c.step != nil {
		step := *c.step
		d.step = &step
	}
	d.stabs = append([]r2.Vec(nil), c.stabs...)
	d.stem = c.stem.Clone()
	d.legend = c.legend.Clone()
	return &d
}

func (c *Cap) logf(format string, args ...any) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}
