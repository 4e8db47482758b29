// Package stem builds the switch engagement stems of a keycap and the
// wedges that brace them against the cap walls.
package stem

import (
	"errors"
	"fmt"

	"github.com/soypat/keycap/form2"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/unit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnsupportedStem is returned by stem variants that cannot be built.
var ErrUnsupportedStem = errors.New("unsupported stem")

// Kind identifies a switch family.
type Kind int

const (
	CherryKind Kind = iota
	AlpsKind
	ChocKind
	PlaceholderKind
)

var kindNames = [...]string{"cherry", "alps", "choc", "placeholder"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Variant is a stem family able to draw its cross section.
type Variant interface {
	Kind() Kind
	// Profile returns the cross section of the stem.
	Profile(s Settings) (sdf.SDF2, error)
}

// ParseVariant returns the default variant of the named family.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "", "cherry":
		return Cherry{}, nil
	case "alps":
		return Alps{}, nil
	case "choc":
		return Choc{}, nil
	case "placeholder":
		return Placeholder{}, nil
	}
	return nil, fmt.Errorf("stem %q: %w", name, ErrUnsupportedStem)
}

// DefaultCherryRadius is the radius of a Cherry MX stem in millimetres.
const DefaultCherryRadius = 2.8

// Cherry is the cross stem of Cherry MX compatible switches.
type Cherry struct {
	// Radius of the stem, DefaultCherryRadius when zero.
	Radius unit.MM
}

func (Cherry) Kind() Kind { return CherryKind }

// R returns the stem radius in millimetres.
func (c Cherry) R() float64 {
	if c.Radius <= 0 {
		return DefaultCherryRadius
	}
	return c.Radius.Get()
}

// Cross arm sizes of the Cherry cross in millimetres.
const (
	crossWidth  = 1.5
	crossLength = 4.2
)

// Profile returns the stem circle minus the cross, widened by the slop.
func (c Cherry) Profile(s Settings) (sdf.SDF2, error) {
	circle, err := form2.Circle(c.R())
	if err != nil {
		return nil, err
	}
	a := crossWidth + s.HSlop.Get()
	b := crossLength + s.VSlop.Get()
	vertical, err := form2.Box(r2.Vec{X: a, Y: b}, 0)
	if err != nil {
		return nil, err
	}
	horizontal, err := form2.Box(r2.Vec{X: b, Y: a}, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Difference2D(circle, sdf.Union2D(vertical, horizontal)), nil
}

// Alps stems are not implemented.
type Alps struct{}

func (Alps) Kind() Kind { return AlpsKind }

func (Alps) Profile(Settings) (sdf.SDF2, error) {
	return nil, fmt.Errorf("alps: %w", ErrUnsupportedStem)
}

// Choc stems are not implemented.
type Choc struct{}

func (Choc) Kind() Kind { return ChocKind }

func (Choc) Profile(Settings) (sdf.SDF2, error) {
	return nil, fmt.Errorf("choc: %w", ErrUnsupportedStem)
}

// Placeholder is a plain 10x10 mm block standing in for a stem.
type Placeholder struct{}

func (Placeholder) Kind() Kind { return PlaceholderKind }

func (Placeholder) Profile(Settings) (sdf.SDF2, error) {
	return form2.Box(r2.Vec{X: 10, Y: 10}, 0)
}

// Settings places and sizes the stems.
type Settings struct {
	Offset r3.Vec
	// Rotation about Z in degrees, one of 0, 90, 180 or 270.
	Rotation float64
	// Support braces Cherry stems with a wedge.
	Support bool
	// HSlop and VSlop widen the cross for printing clearance.
	HSlop, VSlop unit.MM
	Variant      Variant
}

// Clone returns a copy of s. Variants are values and are shared.
func (s Settings) Clone() Settings { return s }

func (s Settings) variant() Variant {
	if s.Variant == nil {
		return Cherry{}
	}
	return s.Variant
}
