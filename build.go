package keycap

import (
	"fmt"
	"math"

	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/dish"
	"github.com/soypat/keycap/homing"
	"github.com/soypat/keycap/legend"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/solid"
	"github.com/soypat/keycap/stem"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// hollowFloor extends the hollow below the footprint so it opens the
	// bottom of the cap.
	hollowFloor = 1
	// search parameters of probed fillets.
	probeTol  = 1e-2
	probeIter = 100
)

// dims are the cap dimensions in millimetres after the homing and row
// adjustments.
type dims struct {
	w, l, h, tt float64
}

func (c *Cap) dims() (dims, error) {
	adj, err := row.Lookup(c.row)
	if err != nil {
		return dims{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	d := dims{
		w:  c.width.MM().Get(),
		l:  c.length.MM().Get(),
		h:  c.height,
		tt: c.topThickness,
	}
	if c.homing == homing.Scooped {
		d.h += adj.Scoop
		d.tt++
	}
	switch {
	case d.w <= 0 || d.l <= 0 || d.h <= 0:
		return d, fmt.Errorf("size %gx%gx%g must be positive: %w", d.w, d.l, d.h, ErrConfig)
	case d.tt <= 0 || d.tt >= d.h:
		return d, fmt.Errorf("top thickness %g not in (0, %g): %w", d.tt, d.h, ErrConfig)
	case c.wall <= 0 || c.wall >= d.w/2 || c.wall >= d.l/2:
		return d, fmt.Errorf("wall %g does not fit %gx%g: %w", c.wall, d.w, d.l, ErrConfig)
	case c.dishThickness <= 0:
		return d, fmt.Errorf("dish thickness %g must be positive: %w", c.dishThickness, ErrConfig)
	}
	return d, nil
}

// Build returns the keycap solid and, when a legend is set and the legend
// stage runs, the legend text body.
func (c *Cap) Build() (solid.Solid, *solid.Solid, error) {
	d, err := c.dims()
	if err != nil {
		return solid.Solid{}, nil, err
	}
	cap, err := c.shell(d, c.runs(StageDish))
	if err != nil {
		return solid.Solid{}, nil, err
	}
	if c.runs(StageFillet) {
		if cap, _, err = c.fillet(cap); err != nil {
			return solid.Solid{}, nil, err
		}
	}
	outer := cap
	if c.runs(StageHoming) {
		if cap, err = homing.Add(cap, c.homing); err != nil {
			return solid.Solid{}, nil, fmt.Errorf("homing: %w", err)
		}
	}
	if c.runs(StageHollow) {
		inner, err := c.hollow(d)
		if err != nil {
			return solid.Solid{}, nil, fmt.Errorf("hollow: %w", err)
		}
		cap = solid.Cut(cap, inner, solid.Hook{})
	}
	if c.runs(StageStem) {
		// the support wedge is measured on the plain base, whose outer
		// outline matches the cap below the ceiling.
		outline, err := base.Build(c.baseSettings(d))
		if err != nil {
			return solid.Solid{}, nil, fmt.Errorf("base: %w", err)
		}
		p := c.stemParms(d)
		p.Shell = &outline
		if cap, err = stem.Add(cap, c.stemSettings(d), p); err != nil {
			return solid.Solid{}, nil, fmt.Errorf("stem: %w", err)
		}
	}
	var text *solid.Solid
	if c.runs(StageLegend) {
		cap, text, err = legend.Apply(cap, outer, c.legendSettings(d), c.stem.Rotation)
		if err != nil {
			return solid.Solid{}, nil, fmt.Errorf("legend: %w", err)
		}
	}
	return cap, text, nil
}

func (c *Cap) runs(stage int) bool { return c.stages >= stage }

// shell builds the base and optionally cuts the dish.
func (c *Cap) shell(d dims, withDish bool) (solid.Solid, error) {
	cap, err := base.Build(c.baseSettings(d))
	if err != nil {
		return solid.Solid{}, fmt.Errorf("base: %w", err)
	}
	if !withDish {
		return cap, nil
	}
	cap, err = dish.Apply(cap, dish.Settings{
		Height:    d.h,
		Width:     d.w,
		Length:    d.l,
		Thickness: c.dishThickness,
		Row:       c.row,
		Inverted:  c.inverted,
		Thick:     c.homing == homing.Scooped,
		ISO:       c.iso,
		TopDiff:   c.topDiff,
	})
	if err != nil {
		return solid.Solid{}, fmt.Errorf("dish: %w", err)
	}
	return cap, nil
}

func (c *Cap) baseSettings(d dims) base.Settings {
	s := base.Settings{
		Width:          d.w,
		Length:         d.l,
		Height:         d.h,
		Diff:           c.topDiff,
		BottomRounding: c.bottomRounding,
		BottomKind:     c.bottomKind,
		TopRounding:    c.topRounding,
		TopKind:        c.topKind,
		ISOEnter:       c.iso,
		Facets:         c.facets,
	}
	if c.step != nil {
		step := *c.step
		s.Step = &step
	}
	return s
}

// fillet rounds the step, top and footprint edges in that order. Probed
// fillets are measured instead and returned keyed by fillet name.
func (c *Cap) fillet(cap solid.Solid) (solid.Solid, map[string]float64, error) {
	type edgeFillet struct {
		param string
		value float64
		sel   solid.Selector
	}
	fillets := []edgeFillet{
		{"top fillet", c.topFillet, solid.Top(0)},
		{"bottom fillet", c.bottomFillet, solid.Bottom()},
	}
	if c.step != nil {
		fillets = append([]edgeFillet{{"step fillet", c.stepFillet, solid.Top(1)}}, fillets...)
	}
	probes := make(map[string]float64)
	for _, f := range fillets {
		if f.value < 0 || (c.probe && f.value > 0) {
			r, err := solid.MaxFillet(cap, f.sel, probeTol, probeIter)
			if err != nil {
				return solid.Solid{}, nil, c.geometryError(f.param, f.value, err)
			}
			probes[f.param] = r
			c.logf("%s: largest feasible radius %.3f (r%d)", f.param, r, c.row)
			continue
		}
		if f.value == 0 {
			continue
		}
		filleted, err := solid.Fillet(cap, f.sel, solid.Blend{Kind: solid.Round, Radius: f.value})
		if err != nil {
			c.logf("%s %g failed on %s", f.param, f.value, c.Name())
			return solid.Solid{}, nil, c.geometryError(f.param, f.value, err)
		}
		cap = filleted
	}
	return cap, probes, nil
}

// Probes builds the cap through the fillet stage and returns the largest
// feasible radius of every probed fillet, keyed by fillet name. Fillets are
// probed when their value is negative, or positive with ProbeFillets set.
func (c *Cap) Probes() (map[string]float64, error) {
	d, err := c.dims()
	if err != nil {
		return nil, err
	}
	cap, err := c.shell(d, true)
	if err != nil {
		return nil, err
	}
	_, probes, err := c.fillet(cap)
	return probes, err
}

// hollow returns the interior cut from the cap: the shell shrunk by the
// wall thickness and lowered by the top thickness.
func (c *Cap) hollow(d dims) (solid.Solid, error) {
	wall := c.wall
	ih := d.h - d.tt
	s := base.Settings{
		Width:          d.w - 2*wall,
		Length:         d.l - 2*wall,
		Height:         ih,
		Diff:           c.topDiff * ih / d.h,
		BottomRounding: math.Max(c.bottomRounding-wall, 0),
		BottomKind:     c.bottomKind,
		TopRounding:    math.Max(c.topRounding-wall, 0),
		TopKind:        c.topKind,
		ISOEnter:       c.iso,
		Floor:          hollowFloor,
		Facets:         c.facets,
	}
	if c.iso {
		shoulder := base.ISOShoulder.Apply(d.l)
		lower := base.ISOBaseFraction.Apply(d.w)
		s.Shoulder = unit.Percentage((shoulder - 2*wall) / s.Length)
		s.BaseFraction = unit.Percentage((lower - 2*wall) / s.Width)
	}
	if c.step != nil {
		sh := c.step.StepHeight(d.h) - d.tt
		if sh <= 0 {
			return solid.Solid{}, fmt.Errorf("step height leaves no room under top thickness %g: %w", d.tt, ErrConfig)
		}
		rw, rl := c.step.RaisedSize(d.w, d.l)
		s.Step = &base.StepSettings{
			Kind:         c.step.Kind,
			Height:       unit.Abs(unit.MM(sh)),
			RaisedWidth:  unit.Abs(unit.MM(rw - 2*wall)),
			RaisedLength: unit.Abs(unit.MM(rl - 2*wall)),
		}
	}
	return base.Build(s)
}

func (c *Cap) stemSettings(d dims) stem.Settings {
	s := c.stem.Clone()
	if !c.offsetSet && c.step != nil && !c.iso {
		// stems go under the raised part.
		rw, rl := c.step.RaisedSize(d.w, d.l)
		pos := c.step.Kind.Position()
		s.Offset = r3.Vec{
			X: pos.X.Apply((d.w - rw) / 2),
			Y: pos.Y.Apply((d.l - rl) / 2),
		}
	}
	return s
}

func (c *Cap) stemParms(d dims) stem.Parms {
	return stem.Parms{
		Height:       d.h,
		TopThickness: d.tt,
		Wall:         c.wall,
		BottomFillet: math.Max(c.bottomFillet, 0),
		ISO:          c.iso,
		Width:        d.w,
		Length:       d.l,
		Positions:    c.stabs,
	}
}

func (c *Cap) legendSettings(d dims) legend.Settings {
	s := c.legend.Clone()
	if s.Size == 0 {
		s.Size = d.h
	}
	if s.Facets == 0 {
		s.Facets = c.facets
	}
	return s
}

// IsValid builds the shell and dish and checks the edge structure of a
// well formed cap: 4 edges on planar faces and 14 on curved faces. A
// mismatch is logged and reported as invalid, not as an error.
func (c *Cap) IsValid() (bool, error) {
	d, err := c.dims()
	if err != nil {
		return false, err
	}
	cap, err := c.shell(d, true)
	if err != nil {
		return false, err
	}
	planar, curved := cap.Edges(solid.Planar), cap.Edges(solid.Curved)
	valid := planar == 4 && curved == 14
	if !valid {
		c.logf("%s: %d planar and %d curved face edges, want 4 and 14", c.Name(), planar, curved)
	}
	return valid, nil
}

// MaxPossibleFillet returns the largest round fillet the faces picked by
// sel take on the shell and dish.
func (c *Cap) MaxPossibleFillet(sel solid.Selector, tol float64, maxIter int) (float64, error) {
	d, err := c.dims()
	if err != nil {
		return 0, err
	}
	cap, err := c.shell(d, true)
	if err != nil {
		return 0, err
	}
	return solid.MaxFillet(cap, sel, tol, maxIter)
}
