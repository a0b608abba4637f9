// Package raycast intersects rays with shapes and boxes.
//
// Distances are measured along the unit ray direction. A ray that starts
// inside (or on) a shape hits it at distance 0 at the origin with the normal
// opposing the ray. A miss is reported as ok == false.
package raycast

import (
	"math"

	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Ray is a half-line from Origin along Direction
// MaxDistance <= 0 means unbounded
type Ray struct {
	Origin      vmath.Vec2
	Direction   vmath.Vec2
	MaxDistance float64
}

// New builds a ray with a unit direction
func New(origin, direction vmath.Vec2, maxDistance float64) Ray {
	return Ray{Origin: origin, Direction: vmath.Normalize(direction), MaxDistance: maxDistance}
}

// Between builds the bounded ray from a to b
func Between(a, b vmath.Vec2) Ray {
	d, l := vmath.NormalizeLen(b.Sub(a))
	return Ray{Origin: a, Direction: d, MaxDistance: l}
}

// Hit is the nearest intersection of a ray with a shape
type Hit struct {
	Distance float64
	Point    vmath.Vec2
	Normal   vmath.Vec2
}

// Limit returns the largest accepted distance
func (r Ray) Limit() float64 {
	if r.MaxDistance <= 0 {
		return math.Inf(1)
	}
	return r.MaxDistance
}

// At returns the point at distance t
func (r Ray) At(t float64) vmath.Vec2 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// unit normalizes the direction of rays built as literals
func (r Ray) unit() (Ray, bool) {
	d := vmath.Normalize(r.Direction)
	if vmath.NearZeroVec(d) {
		return r, false
	}
	r.Direction = d
	return r, true
}

func (r Ray) inside() Hit {
	return Hit{Distance: 0, Point: r.Origin, Normal: r.Direction.Mul(-1)}
}

// Cast dispatches on the shape variant
func Cast(r Ray, s shape.Shape) (Hit, bool) {
	switch v := s.(type) {
	case shape.Circle:
		return Circle(r, v)
	case *shape.Polygon:
		return Polygon(r, v)
	case shape.Edge:
		return Edge(r, v)
	}
	return Hit{}, false
}

// Nearest casts against every shape and returns the closest hit with its index
func Nearest(r Ray, shapes []shape.Shape) (Hit, int, bool) {
	best := Hit{Distance: math.Inf(1)}
	index := -1
	for i, s := range shapes {
		if h, ok := Cast(r, s); ok && h.Distance < best.Distance {
			best, index = h, i
		}
	}
	if index < 0 {
		return Hit{}, -1, false
	}
	return best, index, true
}
