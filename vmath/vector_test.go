package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossProducts(t *testing.T) {
	a := V2(1, 0)
	b := V2(0, 1)
	assert.Equal(t, 1.0, Cross(a, b))
	assert.Equal(t, -1.0, Cross(b, a))

	// s × v equals ω·perp(r)
	r := V2(2, 3)
	assert.Equal(t, Perpendicular(r).Mul(4), CrossSV(4, r))
	assert.Equal(t, CrossSV(-4, r), CrossVS(r, 4))
}

func TestNormalizeZeroSafe(t *testing.T) {
	assert.Equal(t, Vec2{}, Normalize(Vec2{}))

	n, l := NormalizeLen(V2(3, 4))
	assert.InDelta(t, 5.0, l, 1e-12)
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[1], 1e-12)
}

func TestRotate(t *testing.T) {
	v := Rotate(V2(1, 0), math.Pi/2)
	assert.InDelta(t, 0.0, v[0], 1e-12)
	assert.InDelta(t, 1.0, v[1], 1e-12)
	assert.Equal(t, V2(5, 6), Rotate(V2(5, 6), 0))
}

func TestReflectAndClamp(t *testing.T) {
	assert.Equal(t, V2(1, 1), Reflect(V2(1, -1), V2(0, 1)))

	c := ClampMagnitude(V2(30, 40), 5)
	assert.InDelta(t, 5.0, c.Len(), 1e-12)
	assert.Equal(t, V2(1, 1), ClampMagnitude(V2(1, 1), 5))
}

func TestTransformRoundTrip(t *testing.T) {
	xf := Transform{Position: V2(3, -2), Rotation: 0.7, Scale: V2(2, 0.5)}
	p := V2(1.5, -4)
	back := xf.InverseApply(xf.Apply(p))
	assert.InDelta(t, p[0], back[0], 1e-9)
	assert.InDelta(t, p[1], back[1], 1e-9)
}

func TestTransformZeroScaleIsUnit(t *testing.T) {
	xf := Transform{Position: V2(1, 1)}
	assert.Equal(t, V2(3, 4), xf.Apply(V2(2, 3)))
	assert.False(t, xf.Mirrored())
	assert.True(t, Transform{Scale: V2(-1, 1)}.Mirrored())
	assert.Equal(t, 3.0, Transform{Scale: V2(-3, 2)}.MaxScale())
}

func TestFastRandDeterministic(t *testing.T) {
	a := NewFastRand(42)
	b := NewFastRand(42)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
	r := NewFastRand(0)
	for i := 0; i < 100; i++ {
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
		assert.InDelta(t, 1.0, r.Direction().Len(), 1e-12)
	}
}
