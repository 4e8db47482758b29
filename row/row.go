// Package row holds the per-row adjustments of the QSC profile: the dish
// geometry and the height changes that sculpt keyboard rows.
package row

import (
	"errors"
	"fmt"
)

// ErrRow is returned for rows outside the table.
var ErrRow = errors.New("row out of range")

// First and Last are the valid row numbers.
const (
	First = 1
	Last  = 4
)

// Adjust holds the adjustments of one row. Lengths are millimetres and
// angles degrees.
type Adjust struct {
	// ExtraDiagonal is added to the dish diameter.
	ExtraDiagonal float64
	// ExtraDiagonalInverted replaces ExtraDiagonal for inverted dishes.
	ExtraDiagonalInverted float64
	TranslateY            float64
	// TranslateZ offsets the normal dish.
	TranslateZ float64
	// TranslateZInverted offsets the inverted dish.
	TranslateZInverted float64
	// Angle tilts the dish about X.
	Angle float64
	// Height is added to the cap height.
	Height float64
	// TopThickness is added to the top thickness.
	TopThickness float64
	// Scoop is the extra dish depth of scooped homing keys.
	Scoop float64
}

var table = [Last]Adjust{
	{
		ExtraDiagonal:         2,
		ExtraDiagonalInverted: 2,
		TranslateY:            -1,
		TranslateZ:            -1,
		TranslateZInverted:    -4.1,
		Angle:                 15,
		Height:                5,
		TopThickness:          3,
		Scoop:                 .6035380213915218,
	},
	{
		ExtraDiagonal:         2,
		ExtraDiagonalInverted: 2,
		TranslateY:            -1.2,
		TranslateZ:            -1,
		TranslateZInverted:    -3.1,
		Angle:                 5,
		Height:                1.5,
		TopThickness:          .5,
		Scoop:                 .3804040372053077,
	},
	{
		TranslateZ:         -1,
		TranslateZInverted: -1.8,
		Scoop:              .2755496042382024,
	},
	{
		ExtraDiagonal:         .4,
		ExtraDiagonalInverted: 1.55,
		TranslateY:            1.2,
		TranslateZ:            -1,
		TranslateZInverted:    -3.1,
		Angle:                 -10,
		Height:                2,
		TopThickness:          1,
		Scoop:                 .0490026944352374,
	},
}

// Lookup returns the adjustments of row n.
func Lookup(n int) (Adjust, error) {
	if n < First || n > Last {
		return Adjust{}, fmt.Errorf("row %d not in [%d, %d]: %w", n, First, Last, ErrRow)
	}
	return table[n-1], nil
}
