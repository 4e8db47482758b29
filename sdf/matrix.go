package sdf

import (
	"math"

	"github.com/soypat/keycap/internal/d2"
	"github.com/soypat/keycap/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// M44 is a 4x4 affine transformation matrix stored in row-major order.
type M44 [16]float64

// M33 is a 3x3 affine transformation matrix stored in row-major order.
type M33 [9]float64

// Identity3d returns the 4x4 identity matrix.
func Identity3d() M44 {
	return M44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate3d returns a 4x4 translation matrix.
func Translate3d(v r3.Vec) M44 {
	return M44{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Translate2d returns a 3x3 translation matrix.
func Translate2d(v r2.Vec) M33 {
	return M33{
		1, 0, v.X,
		0, 1, v.Y,
		0, 0, 1,
	}
}

// Scale3d returns a 4x4 scaling matrix.
// Scaling does not preserve distance. See: ScaleUniform3D() and Scale3D().
func Scale3d(v r3.Vec) M44 {
	return M44{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// Rotate3d returns an orthographic 4x4 rotation matrix (right hand rule).
// Rotation is of angle a in radians about axis v.
func Rotate3d(v r3.Vec, a float64) M44 {
	v = r3.Unit(v)
	s := math.Sin(a)
	c := math.Cos(a)
	m := 1 - c
	return M44{
		m*v.X*v.X + c, m*v.X*v.Y - v.Z*s, m*v.Z*v.X + v.Y*s, 0,
		m*v.X*v.Y + v.Z*s, m*v.Y*v.Y + c, m*v.Y*v.Z - v.X*s, 0,
		m*v.Z*v.X - v.Y*s, m*v.Y*v.Z + v.X*s, m*v.Z*v.Z + c, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a 4x4 matrix with rotation about the X axis.
func RotateX(a float64) M44 {
	return Rotate3d(r3.Vec{X: 1}, a)
}

// RotateZ returns a 4x4 matrix with rotation about the Z axis.
func RotateZ(a float64) M44 {
	return Rotate3d(r3.Vec{Z: 1}, a)
}

// Rotate returns an orthographic 3x3 rotation matrix (right hand rule).
func Rotate(a float64) M33 {
	s := math.Sin(a)
	c := math.Cos(a)
	return M33{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Mul multiplies two 4x4 matrices. a.Mul(b) applies b first.
func (a M44) Mul(b M44) M44 {
	var m M44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[4*i+k] * b[4*k+j]
			}
			m[4*i+j] = sum
		}
	}
	return m
}

// Mul multiplies two 3x3 matrices. a.Mul(b) applies b first.
func (a M33) Mul(b M33) M33 {
	var m M33
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[3*i+k] * b[3*k+j]
			}
			m[3*i+j] = sum
		}
	}
	return m
}

// MulPosition multiplies a r3.Vec position with a rotate/translate matrix.
func (a M44) MulPosition(b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a[0]*b.X + a[1]*b.Y + a[2]*b.Z + a[3],
		Y: a[4]*b.X + a[5]*b.Y + a[6]*b.Z + a[7],
		Z: a[8]*b.X + a[9]*b.Y + a[10]*b.Z + a[11],
	}
}

// MulDirection multiplies a direction by the linear part of the matrix,
// ignoring translation.
func (a M44) MulDirection(b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a[0]*b.X + a[1]*b.Y + a[2]*b.Z,
		Y: a[4]*b.X + a[5]*b.Y + a[6]*b.Z,
		Z: a[8]*b.X + a[9]*b.Y + a[10]*b.Z,
	}
}

// MulPosition multiplies a r2.Vec position with a rotate/translate matrix.
func (a M33) MulPosition(b r2.Vec) r2.Vec {
	return r2.Vec{
		X: a[0]*b.X + a[1]*b.Y + a[2],
		Y: a[3]*b.X + a[4]*b.Y + a[5],
	}
}

// MulBox rotates/translates a 3d bounding box and resizes for axis-alignment.
func (a M44) MulBox(box r3.Box) r3.Box {
	v := d3.Box(box).Vertices()
	mulVertices3(v, a)
	return r3.Box{Min: v.Min(), Max: v.Max()}
}

// MulBox rotates/translates a 2d bounding box and resizes for axis-alignment.
func (a M33) MulBox(box r2.Box) r2.Box {
	v := d2.Box(box).Vertices()
	mulVertices2(v, a)
	return r2.Box{Min: v.Min(), Max: v.Max()}
}

// Inverse returns the inverse of a 4x4 matrix.
// It panics if the matrix is singular.
func (a M44) Inverse() M44 {
	s0 := a[0]*a[5] - a[4]*a[1]
	s1 := a[0]*a[6] - a[4]*a[2]
	s2 := a[0]*a[7] - a[4]*a[3]
	s3 := a[1]*a[6] - a[5]*a[2]
	s4 := a[1]*a[7] - a[5]*a[3]
	s5 := a[2]*a[7] - a[6]*a[3]
	c5 := a[10]*a[15] - a[14]*a[11]
	c4 := a[9]*a[15] - a[13]*a[11]
	c3 := a[9]*a[14] - a[13]*a[10]
	c2 := a[8]*a[15] - a[12]*a[11]
	c1 := a[8]*a[14] - a[12]*a[10]
	c0 := a[8]*a[13] - a[12]*a[9]
	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if math.Abs(det) < tolerance {
		panic("singular 4x4 matrix")
	}
	k := 1 / det
	return M44{
		(a[5]*c5 - a[6]*c4 + a[7]*c3) * k,
		(-a[1]*c5 + a[2]*c4 - a[3]*c3) * k,
		(a[13]*s5 - a[14]*s4 + a[15]*s3) * k,
		(-a[9]*s5 + a[10]*s4 - a[11]*s3) * k,

		(-a[4]*c5 + a[6]*c2 - a[7]*c1) * k,
		(a[0]*c5 - a[2]*c2 + a[3]*c1) * k,
		(-a[12]*s5 + a[14]*s2 - a[15]*s1) * k,
		(a[8]*s5 - a[10]*s2 + a[11]*s1) * k,

		(a[4]*c4 - a[5]*c2 + a[7]*c0) * k,
		(-a[0]*c4 + a[1]*c2 - a[3]*c0) * k,
		(a[12]*s4 - a[13]*s2 + a[15]*s0) * k,
		(-a[8]*s4 + a[9]*s2 - a[11]*s0) * k,

		(-a[4]*c3 + a[5]*c1 - a[6]*c0) * k,
		(a[0]*c3 - a[1]*c1 + a[2]*c0) * k,
		(-a[12]*s3 + a[13]*s1 - a[14]*s0) * k,
		(a[8]*s3 - a[9]*s1 + a[10]*s0) * k,
	}
}

// Inverse returns the inverse of a 3x3 matrix.
// It panics if the matrix is singular.
func (a M33) Inverse() M33 {
	m := M33{
		a[4]*a[8] - a[5]*a[7], a[2]*a[7] - a[1]*a[8], a[1]*a[5] - a[2]*a[4],
		a[5]*a[6] - a[3]*a[8], a[0]*a[8] - a[2]*a[6], a[2]*a[3] - a[0]*a[5],
		a[3]*a[7] - a[4]*a[6], a[1]*a[6] - a[0]*a[7], a[0]*a[4] - a[1]*a[3],
	}
	det := a[0]*m[0] + a[1]*m[3] + a[2]*m[6]
	if math.Abs(det) < tolerance {
		panic("singular 3x3 matrix")
	}
	for i := range m {
		m[i] /= det
	}
	return m
}
