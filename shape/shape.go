// Package shape holds the convex primitives the physics core reasons about.
//
// Every variant answers the same set of pure queries (area, centroid, inertia,
// bounds, containment, support point) in its own coordinate frame. World-space
// shapes are produced with Transform, which returns a new value; queries never
// mutate a shape.
package shape

import "github.com/lixenwraith/planar/vmath"

// Kind tags the shape variant
type Kind uint8

const (
	KindCircle Kind = iota
	KindPolygon
	KindBox
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindBox:
		return "box"
	case KindEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Supporter is the minimum a convex set needs to take part in GJK
type Supporter interface {
	// Support returns the point farthest along dir
	Support(dir vmath.Vec2) vmath.Vec2
	// Centroid seeds the initial GJK search direction
	Centroid() vmath.Vec2
}

// Shape is the closed set {Circle, Polygon (incl. Box), Edge}
type Shape interface {
	Supporter

	Kind() Kind
	Area() float64
	// Inertia returns the moment of inertia about the centroid for the given mass
	Inertia(mass float64) float64
	Bounds() AABB
	Contains(p vmath.Vec2) bool
	// Transform returns the shape mapped by xf, the receiver is unchanged
	Transform(xf vmath.Transform) Shape

	sealed()
}

// World maps s into world space by xf
func World(s Shape, xf vmath.Transform) Shape {
	return s.Transform(xf)
}
