// Package homing adds the tactile markers of home row keys.
package homing

import (
	"errors"
	"fmt"

	"github.com/soypat/keycap/form3"
	"github.com/soypat/keycap/sdf"
	"github.com/soypat/keycap/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the homing marker type.
type Kind int

const (
	None Kind = iota
	// Bar is a short raised bar near the front of the dish.
	Bar
	// Scooped deepens the dish; the marker itself is built by the dish.
	Scooped
	// Dot is a small bump near the front of the dish.
	Dot
)

var names = [...]string{"none", "bar", "scooped", "dot"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Parse returns the Kind named s.
func Parse(s string) (Kind, bool) {
	for i, name := range names {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// ErrMiss is returned when the probe finds no cap surface.
var ErrMiss = errors.New("homing probe missed the cap")

const (
	barSize = 1.0
	// edge rounding of the bar.
	barRound = 0.3
	dotSize  = 1.0
	// probe width and depth of the slab measuring the surface height.
	probeWidth = 0.1
	slab       = 0.1
)

// Add places the marker of kind k on the top surface of cap. None and
// Scooped return cap unchanged.
func Add(cap solid.Solid, k Kind) (solid.Solid, error) {
	if k == None || k == Scooped {
		return cap, nil
	}
	bb, err := cap.Bounds()
	if err != nil {
		return solid.Solid{}, err
	}
	length := dotSize
	if k == Bar {
		length = (bb.Max.Y - bb.Min.Y) / 2
	}
	// probe column through the full cap height at x=0.
	height := bb.Max.Z - bb.Min.Z
	column, err := form3.Box(r3.Vec{X: probeWidth, Y: length, Z: height}, 0)
	if err != nil {
		return solid.Solid{}, err
	}
	column = sdf.Translate3D(column, r3.Vec{Z: bb.Min.Z + height/2})
	probe := solid.Intersect(cap, solid.NewBuilder(column).Solid(), solid.Hook{})
	pb, err := probe.Bounds()
	if err != nil {
		return solid.Solid{}, fmt.Errorf("%v: %w", err, ErrMiss)
	}
	ymin := pb.Min.Y
	front := solid.Clip(probe, r3.Vec{Y: ymin + slab}, r3.Vec{Y: -1}, solid.Hook{})
	fb, err := front.Bounds()
	if err != nil {
		return solid.Solid{}, fmt.Errorf("%v: %w", err, ErrMiss)
	}
	zfront := fb.Max.Z

	var marker sdf.SDF3
	switch k {
	case Bar:
		bar, err := form3.Box(r3.Vec{X: (bb.Max.X - bb.Min.X) / 3, Y: barSize, Z: barSize}, barRound)
		if err != nil {
			return solid.Solid{}, err
		}
		// the bar is sunk two thirds of its height into the surface.
		marker = sdf.Translate3D(bar, r3.Vec{Y: ymin, Z: zfront - barSize/1.5 + barSize/2})
	case Dot:
		ball, err := form3.Sphere(dotSize)
		if err != nil {
			return solid.Solid{}, err
		}
		marker = sdf.Translate3D(ball, r3.Vec{Y: ymin, Z: zfront - dotSize/2})
	default:
		return solid.Solid{}, fmt.Errorf("unknown homing kind %d", int(k))
	}
	return solid.Union(cap, solid.NewBuilder(marker).Solid()), nil
}
