/*
Package curves implements points, affine transformations and cubic Bézier
splines. Sub-package curvefit approximates sampled polylines by splines of
this package.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curves

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'curves'
func tracer() tracing.Trace {
	return tracing.Select("curves")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0 by the predicates of this file.
// Curve fitting does not use it; it has its own, configurable tolerance.
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// === Pair Data Type ========================================================

// Pair is a 2D point or vector. Pairs add and subtract with the
// native operators.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// IsValid is false if any coordinate is NaN or infinite.
func (p Pair) IsValid() bool {
	return !cmplx.IsNaN(p.C()) && !cmplx.IsInf(p.C())
}

// Zap rounds x-part and y-part to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.X()), Zap(p.Y()))
}

// Equal compares two pairs, within Epsilon.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Dot is the dot product of p and q.
func (p Pair) Dot(q Pair) float64 {
	return p.X()*q.X() + p.Y()*q.Y()
}

// Length is the euclidean length of p, interpreted as a vector.
func (p Pair) Length() float64 {
	return math.Hypot(p.X(), p.Y())
}

// LengthSquared is p·p.
func (p Pair) LengthSquared() float64 {
	return p.Dot(p)
}

// Distance returns the euclidean distance between p and q.
func (p Pair) Distance(q Pair) float64 {
	return (q - p).Length()
}

// DistanceSquared returns the squared euclidean distance between p and q.
func (p Pair) DistanceSquared(q Pair) float64 {
	return (q - p).LengthSquared()
}

// Normalized returns a vector of length 1 in direction p.
// The zero vector is returned unchanged.
func (p Pair) Normalized() Pair {
	l := p.Length()
	if l == 0 {
		return p
	}
	return P(p.X()/l, p.Y()/l)
}

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Pair) Lerp(q Pair, t float64) Pair {
	return p + (q - p).Scaled(t)
}

// Shifted returns a new pair translated by v.
func (p Pair) Shifted(v Pair) Pair {
	return Translation(v).Transform(p)
}

// Rotated returns a new pair rotated around origin by theta (counterclockwise).
func (p Pair) Rotated(theta float64) Pair {
	return Rotation(theta).Transform(p)
}

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT [9]float64 // a 3x3 matrix, flattened by rows

func (m *AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	return []float64{m[col], m[3+col], m[6+col]}
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	var m AT
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Scaling transform, scaling x by sx and y by sy.
func Scaling(sx, sy float64) AT {
	m := Identity()
	m.set(0, 0, sx)
	m.set(1, 1, sy)
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	var m AT
	sin := math.Sin(theta)
	cos := math.Cos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Combine 2 affine transformation to a new one: n is applied after m.
func (m AT) Combine(n AT) AT {
	var o AT
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	v := []float64{p.X(), p.Y(), 1.0}
	return P(dotProd(m.row(0), v), dotProd(m.row(1), v))
}
