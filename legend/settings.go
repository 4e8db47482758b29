// Package legend engraves text into the side wall of a keycap.
package legend

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Side selects the wall carrying the legend.
type Side int

const (
	// Auto picks the wall from the stem rotation.
	Auto Side = iota
	Front
	Back
	Left
	Right
)

var sideNames = [...]string{"auto", "front", "back", "left", "right"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "unknown"
	}
	return sideNames[s]
}

// ParseSide returns the Side named s.
func ParseSide(s string) (Side, bool) {
	for i, name := range sideNames {
		if name == s {
			return Side(i), true
		}
	}
	return 0, false
}

// HAlign is the horizontal text alignment about the placement point.
type HAlign int

const (
	HCenter HAlign = iota
	HLeft
	HRight
)

// VAlign is the vertical text alignment about the placement point.
type VAlign int

const (
	VCenter VAlign = iota
	VTop
	VBottom
)

// ParseHAlign returns the alignment named s: center, left or right.
func ParseHAlign(s string) (HAlign, bool) {
	switch s {
	case "", "center":
		return HCenter, true
	case "left":
		return HLeft, true
	case "right":
		return HRight, true
	}
	return 0, false
}

// ParseVAlign returns the alignment named s: center, top or bottom.
func ParseVAlign(s string) (VAlign, bool) {
	switch s {
	case "", "center":
		return VCenter, true
	case "top":
		return VTop, true
	case "bottom":
		return VBottom, true
	}
	return 0, false
}

// DefaultFont is the font used when Settings.Font is empty.
const DefaultFont = "Go"

// Settings describes a legend. Lengths are millimetres.
type Settings struct {
	Text string
	// Font is one of "Go", "Go Bold", "Go Mono" or the path of a TrueType file.
	Font string
	// Size is the em size of the text.
	Size float64
	// Depth of the engraving.
	Depth  float64
	Side   Side
	HAlign HAlign
	VAlign VAlign
	// X and Y offset the text on the wall.
	X, Y float64
	// Facets per glyph curve segment.
	Facets int
}

// Clone returns a copy of s.
func (s Settings) Clone() Settings { return s }

// LoadFont returns the named built in font or parses the TrueType file
// at the given path.
func LoadFont(name string) (*truetype.Font, error) {
	var ttf []byte
	switch strings.ToLower(name) {
	case "", "go", "go regular":
		ttf = goregular.TTF
	case "go bold":
		ttf = gobold.TTF
	case "go mono":
		ttf = gomono.TTF
	default:
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("loading font: %w", err)
		}
		ttf = b
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing font %q: %w", name, err)
	}
	return f, nil
}
