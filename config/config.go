// Package config loads keycap configurations from JSON files. Fields
// omitted from a file keep the defaults of keycap.New, so partial files
// are safe.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/keycap"
	"github.com/soypat/keycap/base"
	"github.com/soypat/keycap/helpers/matter"
	"github.com/soypat/keycap/homing"
	"github.com/soypat/keycap/legend"
	"github.com/soypat/keycap/row"
	"github.com/soypat/keycap/stem"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxFileSize = 1 << 20

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// File is the root of a keycap configuration file.
type File struct {
	Row             *int     `json:"row,omitempty"`
	WidthU          *float64 `json:"width_u,omitempty"`
	LengthU         *float64 `json:"length_u,omitempty"`
	HeightMM        *float64 `json:"height_mm,omitempty"`
	WallMM          *float64 `json:"wall_mm,omitempty"`
	TopThicknessMM  *float64 `json:"top_thickness_mm,omitempty"`
	DishThicknessMM *float64 `json:"dish_thickness_mm,omitempty"`
	TopDiffMM       *float64 `json:"top_diff_mm,omitempty"`
	Inverted        *bool    `json:"inverted,omitempty"`
	Homing          *string  `json:"homing,omitempty"` // none, bar, scooped or dot
	ISOEnter        *bool    `json:"iso_enter,omitempty"`

	Step    *Step    `json:"step,omitempty"`
	Fillets *Fillets `json:"fillets,omitempty"`
	Stem    *Stem    `json:"stem,omitempty"`
	Legend  *Legend  `json:"legend,omitempty"`
	Export  *Export  `json:"export,omitempty"`
}

// Step makes the cap stepped. Heights and raised sizes are given either
// absolute or as a fraction, not both.
type Step struct {
	Kind            string   `json:"kind"` // center, left, right, up or down
	HeightPct       *float64 `json:"height_pct,omitempty"`
	HeightMM        *float64 `json:"height_mm,omitempty"`
	RaisedWidthU    *float64 `json:"raised_width_u,omitempty"`
	RaisedWidthPct  *float64 `json:"raised_width_pct,omitempty"`
	RaisedLengthU   *float64 `json:"raised_length_u,omitempty"`
	RaisedLengthPct *float64 `json:"raised_length_pct,omitempty"`
}

// Fillets sets the edge fillet radii in millimetres. Negative radii probe.
type Fillets struct {
	Top    *float64 `json:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Step   *float64 `json:"step,omitempty"`
	Probe  *bool    `json:"probe,omitempty"`
}

// Stem configures the switch stems.
type Stem struct {
	Kind      *string      `json:"kind,omitempty"`
	Rotation  *float64     `json:"rotation,omitempty"`
	Offset    *[2]float64  `json:"offset,omitempty"`
	Support   *bool        `json:"support,omitempty"`
	HSlop     *float64     `json:"hslop,omitempty"`
	VSlop     *float64     `json:"vslop,omitempty"`
	Radius    *float64     `json:"radius,omitempty"` // Cherry only
	Positions [][2]float64 `json:"positions,omitempty"`
}

// Legend configures the engraved text.
type Legend struct {
	Text   string   `json:"text"`
	Font   string   `json:"font,omitempty"`
	Size   *float64 `json:"size,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
	Side   string   `json:"side,omitempty"`
	HAlign string   `json:"halign,omitempty"`
	VAlign string   `json:"valign,omitempty"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
}

// Export holds the mesh export options.
type Export struct {
	Tolerance        *float64 `json:"tolerance,omitempty"`
	AngularTolerance *float64 `json:"angular_tolerance,omitempty"`
	ASCII            bool     `json:"ascii,omitempty"`
	Simplify         float64  `json:"simplify,omitempty"`
	Material         *string  `json:"material,omitempty"`
}

// Default export tolerances.
const (
	DefaultTolerance        = 0.05
	DefaultAngularTolerance = 5
)

// Load reads and validates the configuration file at path. It must have a
// .json extension and be smaller than 1 MiB.
func Load(path string) (*File, error) {
	path = filepath.Clean(path)
	if ext := filepath.Ext(path); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if fi.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fi.Size(), maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a JSON configuration. Unknown keys are
// rejected.
func Parse(data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	f := &File{}
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func positive(name string, v *float64) error {
	if v != nil && *v <= 0 {
		return invalid("%s must be positive, got %g", name, *v)
	}
	return nil
}

func oneOf(name string, abs, rel *float64) error {
	if abs != nil && rel != nil {
		return invalid("%s set both absolute and relative", name)
	}
	if rel != nil && (*rel <= 0 || *rel > 1) {
		return invalid("%s fraction must be in (0, 1], got %g", name, *rel)
	}
	return positive(name, abs)
}

// Validate checks the values that can be checked without building.
func (f *File) Validate() error {
	if f.Row != nil && (*f.Row < row.First || *f.Row > row.Last) {
		return invalid("row must be between %d and %d, got %d", row.First, row.Last, *f.Row)
	}
	for _, p := range []struct {
		name string
		v    *float64
	}{
		{"width_u", f.WidthU}, {"length_u", f.LengthU}, {"height_mm", f.HeightMM},
		{"wall_mm", f.WallMM}, {"top_thickness_mm", f.TopThicknessMM},
		{"dish_thickness_mm", f.DishThicknessMM},
	} {
		if err := positive(p.name, p.v); err != nil {
			return err
		}
	}
	if f.Homing != nil {
		if _, ok := homing.Parse(*f.Homing); !ok {
			return invalid("unknown homing %q", *f.Homing)
		}
	}
	if s := f.Step; s != nil {
		if _, ok := base.ParseStepKind(s.Kind); !ok {
			return invalid("unknown step kind %q", s.Kind)
		}
		if err := oneOf("step height", s.HeightMM, s.HeightPct); err != nil {
			return err
		}
		if err := oneOf("raised width", s.RaisedWidthU, s.RaisedWidthPct); err != nil {
			return err
		}
		if err := oneOf("raised length", s.RaisedLengthU, s.RaisedLengthPct); err != nil {
			return err
		}
	}
	if s := f.Stem; s != nil {
		if s.Kind != nil {
			if _, err := stem.ParseVariant(*s.Kind); err != nil {
				return invalid("%v", err)
			}
		}
		if s.Rotation != nil {
			switch *s.Rotation {
			case 0, 90, 180, 270:
			default:
				return invalid("stem rotation must be 0, 90, 180 or 270, got %g", *s.Rotation)
			}
		}
		if err := positive("stem radius", s.Radius); err != nil {
			return err
		}
	}
	if l := f.Legend; l != nil {
		if _, ok := legend.ParseSide(l.Side); l.Side != "" && !ok {
			return invalid("unknown legend side %q", l.Side)
		}
		if _, ok := legend.ParseHAlign(l.HAlign); l.HAlign != "" && !ok {
			return invalid("unknown legend halign %q", l.HAlign)
		}
		if _, ok := legend.ParseVAlign(l.VAlign); l.VAlign != "" && !ok {
			return invalid("unknown legend valign %q", l.VAlign)
		}
		if err := positive("legend size", l.Size); err != nil {
			return err
		}
		if err := positive("legend depth", l.Depth); err != nil {
			return err
		}
	}
	if e := f.Export; e != nil {
		if err := positive("tolerance", e.Tolerance); err != nil {
			return err
		}
		if err := positive("angular_tolerance", e.AngularTolerance); err != nil {
			return err
		}
		if e.Simplify < 0 || e.Simplify > 1 {
			return invalid("simplify must be in [0, 1], got %g", e.Simplify)
		}
		if e.Material != nil {
			if _, err := matter.Lookup(*e.Material); err != nil {
				return invalid("%v", err)
			}
		}
	}
	return nil
}

// Apply configures c. Row adjustments are applied last so they add to
// the configured height and top thickness.
func (f *File) Apply(c *keycap.Cap) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.ISOEnter != nil && *f.ISOEnter {
		c.ISOEnter()
	}
	if f.WidthU != nil {
		c.Width(unit.U(*f.WidthU))
	}
	if f.LengthU != nil {
		c.Length(unit.U(*f.LengthU))
	}
	if f.HeightMM != nil {
		c.Height(*f.HeightMM)
	}
	if f.WallMM != nil {
		c.Wall(*f.WallMM)
	}
	if f.TopThicknessMM != nil {
		c.TopThickness(*f.TopThicknessMM)
	}
	if f.DishThicknessMM != nil {
		c.DishThickness(*f.DishThicknessMM)
	}
	if f.TopDiffMM != nil {
		c.TopDiff(*f.TopDiffMM)
	}
	if f.Inverted != nil && *f.Inverted {
		c.Inverted()
	}
	if f.Homing != nil {
		k, _ := homing.Parse(*f.Homing)
		c.Homing(k)
	}
	if s := f.Step; s != nil {
		kind, _ := base.ParseStepKind(s.Kind)
		c.Stepped(kind)
		if m, ok := measure(s.HeightMM, s.HeightPct, func(v float64) unit.Length { return unit.MM(v) }); ok {
			c.StepHeight(m)
		}
		if m, ok := measure(s.RaisedWidthU, s.RaisedWidthPct, func(v float64) unit.Length { return unit.U(v) }); ok {
			c.RaisedWidth(m)
		}
		if m, ok := measure(s.RaisedLengthU, s.RaisedLengthPct, func(v float64) unit.Length { return unit.U(v) }); ok {
			c.RaisedLength(m)
		}
	}
	if fl := f.Fillets; fl != nil {
		if fl.Top != nil {
			c.TopFillet(*fl.Top)
		}
		if fl.Bottom != nil {
			c.BottomFillet(*fl.Bottom)
		}
		if fl.Step != nil {
			c.StepFillet(*fl.Step)
		}
		if fl.Probe != nil {
			c.ProbeFillets(*fl.Probe)
		}
	}
	if s := f.Stem; s != nil {
		if err := applyStem(c, s); err != nil {
			return err
		}
	}
	if l := f.Legend; l != nil {
		ls := legend.Settings{Text: l.Text, Font: l.Font, Depth: 1.2, X: l.X, Y: l.Y}
		if l.Size != nil {
			ls.Size = *l.Size
		}
		if l.Depth != nil {
			ls.Depth = *l.Depth
		}
		ls.Side, _ = legend.ParseSide(l.Side)
		ls.HAlign, _ = legend.ParseHAlign(l.HAlign)
		ls.VAlign, _ = legend.ParseVAlign(l.VAlign)
		c.LegendSettings(ls)
	}
	if f.Row != nil {
		c.Row(*f.Row)
	}
	return nil
}

func applyStem(c *keycap.Cap, s *Stem) error {
	if s.Kind != nil || s.Radius != nil {
		name := "cherry"
		if s.Kind != nil {
			name = *s.Kind
		}
		v, err := stem.ParseVariant(name)
		if err != nil {
			return err
		}
		if cherry, ok := v.(stem.Cherry); ok && s.Radius != nil {
			cherry.Radius = unit.MM(*s.Radius)
			v = cherry
		}
		c.Stem(v)
	}
	if s.Rotation != nil {
		c.StemRotation(*s.Rotation)
	}
	if s.Offset != nil {
		c.StemOffset(r3.Vec{X: s.Offset[0], Y: s.Offset[1]})
	}
	if s.Support != nil {
		c.Support(*s.Support)
	}
	if s.HSlop != nil || s.VSlop != nil {
		var h, v float64
		if s.HSlop != nil {
			h = *s.HSlop
		}
		if s.VSlop != nil {
			v = *s.VSlop
		}
		c.StemSlop(unit.MM(h), unit.MM(v))
	}
	if s.Positions != nil {
		pos := make([]r2.Vec, len(s.Positions))
		for i, p := range s.Positions {
			pos[i] = r2.Vec{X: p[0], Y: p[1]}
		}
		c.StabPositions(pos)
	}
	return nil
}

func measure(abs, rel *float64, length func(float64) unit.Length) (unit.Measure, bool) {
	switch {
	case abs != nil:
		return unit.Abs(length(*abs)), true
	case rel != nil:
		return unit.Rel(unit.Percentage(*rel)), true
	}
	return unit.Measure{}, false
}

// ExportOptions returns the export options of the file with the defaults
// filled in.
func (f *File) ExportOptions() (keycap.ExportOptions, error) {
	opt := keycap.DefaultExportOptions(DefaultTolerance, DefaultAngularTolerance)
	e := f.Export
	if e == nil {
		return opt, nil
	}
	if e.Tolerance != nil {
		opt.Tolerance = *e.Tolerance
	}
	if e.AngularTolerance != nil {
		opt.AngularTolerance = *e.AngularTolerance
	}
	opt.ASCII = e.ASCII
	opt.Simplify = e.Simplify
	if e.Material != nil {
		m, err := matter.Lookup(*e.Material)
		if err != nil {
			return opt, err
		}
		opt.Material = m
	}
	return opt, nil
}
