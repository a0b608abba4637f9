package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D float64 vector, always passed by value
type Vec2 = mgl64.Vec2

// V2 builds a Vec2
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// LenSq returns the squared magnitude
func LenSq(v Vec2) float64 {
	return v[0]*v[0] + v[1]*v[1]
}

// Cross returns the scalar 2D cross product a.x*b.y - a.y*b.x
func Cross(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossSV returns s × v: v rotated 90° counter-clockwise and scaled by s
func CrossSV(s float64, v Vec2) Vec2 {
	return Vec2{-s * v[1], s * v[0]}
}

// CrossVS returns v × s: v rotated 90° clockwise and scaled by s
func CrossVS(v Vec2, s float64) Vec2 {
	return Vec2{s * v[1], -s * v[0]}
}

// Perpendicular returns vector rotated 90° counter-clockwise
func Perpendicular(v Vec2) Vec2 {
	return Vec2{-v[1], v[0]}
}

// Normalize returns the unit vector, zero vector for near-zero input
func Normalize(v Vec2) Vec2 {
	n, _ := NormalizeLen(v)
	return n
}

// NormalizeLen returns the unit vector and the original length
// Near-zero input returns (0, 0) and its length
func NormalizeLen(v Vec2) (Vec2, float64) {
	l := v.Len()
	if l <= Epsilon {
		return Vec2{}, l
	}
	return v.Mul(1 / l), l
}

// Rotate rotates v counter-clockwise by angle radians
func Rotate(v Vec2, angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// MulElem multiplies component-wise
func MulElem(a, b Vec2) Vec2 {
	return Vec2{a[0] * b[0], a[1] * b[1]}
}

// MinElem returns the component-wise minimum
func MinElem(a, b Vec2) Vec2 {
	return Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
}

// MaxElem returns the component-wise maximum
func MaxElem(a, b Vec2) Vec2 {
	return Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
}

// Distance returns |a - b|
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// DistanceSq returns |a - b|²
func DistanceSq(a, b Vec2) float64 {
	return LenSq(b.Sub(a))
}

// ClampMagnitude limits vector to maxMag while preserving direction
func ClampMagnitude(v Vec2, maxMag float64) Vec2 {
	l := v.Len()
	if l <= maxMag || l == 0 {
		return v
	}
	return v.Mul(maxMag / l)
}

// Reflect returns v reflected off a surface with unit normal n
// v' = v - 2 * dot(v, n) * n
func Reflect(v, n Vec2) Vec2 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// NearZeroVec reports whether both components are within Epsilon
func NearZeroVec(v Vec2) bool {
	return NearZero(v[0]) && NearZero(v[1])
}

// NearEqualVec compares two vectors component-wise with an absolute tolerance
func NearEqualVec(a, b Vec2, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol
}
