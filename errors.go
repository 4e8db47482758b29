package keycap

import (
	"errors"
	"fmt"
)

// ErrConfig is returned by Build for configurations no cap can be built
// from.
var ErrConfig = errors.New("invalid keycap configuration")

// GeometryError reports a fillet the cap shape cannot take, together with
// the cap parameters it failed on.
type GeometryError struct {
	// Param names the failing setting, for example "top fillet".
	Param string
	Value float64
	Row   int
	// Width and Length in U.
	Width, Length float64
	Err           error
}

func (e *GeometryError) Error() string {
	msg := fmt.Sprintf("%s too big: %g for the current shape (r%d, %gx%g), try reducing it", e.Param, e.Value, e.Row, e.Width, e.Length)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GeometryError) Unwrap() error { return e.Err }

func (c *Cap) geometryError(param string, value float64, err error) error {
	return &GeometryError{
		Param:  param,
		Value:  value,
		Row:    c.row,
		Width:  float64(c.width.U()),
		Length: float64(c.length.U()),
		Err:    err,
	}
}
