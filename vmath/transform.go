package vmath

import "math"

// Transform places local geometry in the world: scale, then rotate, then translate
// Rotation is in radians, counter-clockwise. A zero Scale is read as unscaled (1, 1)
type Transform struct {
	Position Vec2
	Rotation float64
	Scale    Vec2
}

// Identity returns the unit transform
func Identity() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

// NewTransform builds a transform with unit scale
func NewTransform(position Vec2, rotation float64) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: Vec2{1, 1}}
}

// EffectiveScale returns Scale with the zero value mapped to (1, 1)
func (t Transform) EffectiveScale() Vec2 {
	if t.Scale[0] == 0 && t.Scale[1] == 0 {
		return Vec2{1, 1}
	}
	return t.Scale
}

// Apply maps a local point to world space
func (t Transform) Apply(p Vec2) Vec2 {
	return Rotate(MulElem(p, t.EffectiveScale()), t.Rotation).Add(t.Position)
}

// ApplyVector maps a local direction to world space without translation
func (t Transform) ApplyVector(v Vec2) Vec2 {
	return Rotate(MulElem(v, t.EffectiveScale()), t.Rotation)
}

// ApplyRotation rotates v by the transform rotation only
func (t Transform) ApplyRotation(v Vec2) Vec2 {
	return Rotate(v, t.Rotation)
}

// InverseApply maps a world point back to local space
// Zero scale components collapse to 0 on that axis
func (t Transform) InverseApply(p Vec2) Vec2 {
	s := t.EffectiveScale()
	l := Rotate(p.Sub(t.Position), -t.Rotation)
	var out Vec2
	if s[0] != 0 {
		out[0] = l[0] / s[0]
	}
	if s[1] != 0 {
		out[1] = l[1] / s[1]
	}
	return out
}

// Mirrored reports a negative scale determinant, which flips polygon winding
func (t Transform) Mirrored() bool {
	s := t.EffectiveScale()
	return s[0]*s[1] < 0
}

// MaxScale returns the largest absolute scale component
func (t Transform) MaxScale() float64 {
	s := t.EffectiveScale()
	return math.Max(math.Abs(s[0]), math.Abs(s[1]))
}
