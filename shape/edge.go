package shape

import (
	"fmt"

	"github.com/lixenwraith/planar/vmath"
)

// Edge is a two-sided line segment A→B
type Edge struct {
	A, B vmath.Vec2
}

// NewEdge rejects coincident endpoints
func NewEdge(a, b vmath.Vec2) (Edge, error) {
	if vmath.Distance(a, b) <= vmath.Epsilon {
		return Edge{}, fmt.Errorf("%w: edge endpoints coincide at %v", ErrDegenerate, a)
	}
	return Edge{A: a, B: b}, nil
}

func (e Edge) Kind() Kind { return KindEdge }

func (e Edge) Area() float64 { return 0 }

func (e Edge) Centroid() vmath.Vec2 {
	return e.A.Add(e.B).Mul(0.5)
}

func (e Edge) Length() float64 {
	return vmath.Distance(e.A, e.B)
}

// Normal returns the unit normal on the right of A→B
func (e Edge) Normal() vmath.Vec2 {
	return vmath.Normalize(vmath.CrossVS(e.B.Sub(e.A), 1))
}

// Inertia of a thin rod about its midpoint: m*L²/12
func (e Edge) Inertia(mass float64) float64 {
	l := e.Length()
	return mass * l * l / 12
}

func (e Edge) Bounds() AABB {
	return NewAABB(e.A, e.B)
}

// ClosestPoint returns the point of the segment nearest p
func (e Edge) ClosestPoint(p vmath.Vec2) vmath.Vec2 {
	ab := e.B.Sub(e.A)
	den := vmath.LenSq(ab)
	if den <= vmath.Epsilon {
		return e.A
	}
	t := vmath.Clamp(p.Sub(e.A).Dot(ab)/den, 0, 1)
	return e.A.Add(ab.Mul(t))
}

// Contains reports p within Epsilon of the segment
func (e Edge) Contains(p vmath.Vec2) bool {
	return vmath.DistanceSq(e.ClosestPoint(p), p) <= vmath.Epsilon*vmath.Epsilon
}

// Support returns the endpoint farthest along dir, A on ties
func (e Edge) Support(dir vmath.Vec2) vmath.Vec2 {
	if e.B.Dot(dir) > e.A.Dot(dir) {
		return e.B
	}
	return e.A
}

func (e Edge) Transform(xf vmath.Transform) Shape {
	return Edge{A: xf.Apply(e.A), B: xf.Apply(e.B)}
}

func (Edge) sealed() {}
