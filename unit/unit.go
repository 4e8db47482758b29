// Package unit implements the length units of keycap design: millimetres
// and key units (U), plus relative percentages.
package unit

import (
	"strconv"
)

// UInMM is the pitch of one key unit in millimetres.
const UInMM = 19.05

// Length is a distance expressed in some unit.
type Length interface {
	// Get returns the value in the length's own unit.
	Get() float64
	MM() MM
	U() U
}

// MM is a length in millimetres.
type MM float64

func (m MM) Get() float64 { return float64(m) }
func (m MM) MM() MM       { return m }

// U converts to key units.
func (m MM) U() U { return U(float64(m) / UInMM) }

func (m MM) String() string { return strconv.FormatFloat(float64(m), 'g', -1, 64) + "mm" }

// U is a length in key units. 1U is the pitch of a standard key.
type U float64

func (u U) Get() float64 { return float64(u) }
func (u U) U() U         { return u }

// MM converts to millimetres.
func (u U) MM() MM { return MM(float64(u) * UInMM) }

func (u U) String() string { return strconv.FormatFloat(float64(u), 'g', -1, 64) + "u" }

// Percentage is a fraction of some reference value: 1 is the whole.
type Percentage float64

// Apply scales x by the fraction.
func (p Percentage) Apply(x float64) float64 { return x * float64(p) }

func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p)*100, 'g', -1, 64) + "%"
}

// Measure is a dimension that is either an absolute length or a fraction
// of a reference dimension. The zero Measure is unset.
type Measure struct {
	abs Length
	rel Percentage
	set bool
}

// Abs returns a Measure of the absolute length l.
func Abs(l Length) Measure { return Measure{abs: l, set: true} }

// Rel returns a Measure relative to a reference dimension.
func Rel(p Percentage) Measure { return Measure{rel: p, set: true} }

// IsZero reports whether the Measure is unset.
func (m Measure) IsZero() bool { return !m.set }

// IsRelative reports whether the Measure is a percentage.
func (m Measure) IsRelative() bool { return m.set && m.abs == nil }

// Resolve returns the dimension in millimetres; relative measures are
// applied to of, given in millimetres.
func (m Measure) Resolve(of float64) float64 {
	if m.abs != nil {
		return m.abs.MM().Get()
	}
	return m.rel.Apply(of)
}

// Or returns m when set, else def.
func (m Measure) Or(def Measure) Measure {
	if m.set {
		return m
	}
	return def
}

func (m Measure) String() string {
	switch {
	case !m.set:
		return "unset"
	case m.abs != nil:
		if s, ok := m.abs.(interface{ String() string }); ok {
			return s.String()
		}
		return m.abs.MM().String()
	}
	return m.rel.String()
}
