// Package matter compensates printed parts for material shrinkage.
package matter

import (
	"fmt"
	"strings"

	"github.com/soypat/keycap/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "pla", shrink: 0.2e-2} // 0.2% shrinkage
	// ABS shrinks more than PLA on cooling.
	ABS = ViscousMaterial{name: "abs", shrink: 0.7e-2}
	// Exact applies no compensation.
	Exact = ViscousMaterial{name: "none"}
)

// ViscousMaterial is a printing material that shrinks as it cools.
type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
}

// Lookup returns the material named name: "pla", "abs" or "none".
func Lookup(name string) (ViscousMaterial, error) {
	for _, m := range []ViscousMaterial{PLA, ABS, Exact} {
		if strings.EqualFold(m.name, name) {
			return m, nil
		}
	}
	return ViscousMaterial{}, fmt.Errorf("unknown material %q", name)
}

func (m ViscousMaterial) String() string { return m.name }

// Scale enlarges s so it shrinks to its design size once printed.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	if m.shrink == 0 {
		return s
	}
	return sdf.ScaleUniform3D(s, m.ScaleFactor())
}

// ScaleFactor is the uniform scale Scale applies.
func (m ViscousMaterial) ScaleFactor() float64 {
	return 1 / (1 - m.shrink)
}
