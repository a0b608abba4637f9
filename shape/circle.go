package shape

import (
	"fmt"
	"math"

	"github.com/lixenwraith/planar/vmath"
)

// Circle is a disc around Center
type Circle struct {
	Center vmath.Vec2
	Radius float64
}

// NewCircle validates radius > 0
func NewCircle(center vmath.Vec2, radius float64) (Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Circle{}, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	return Circle{Center: center, Radius: radius}, nil
}

func (c Circle) Kind() Kind { return KindCircle }

func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

func (c Circle) Centroid() vmath.Vec2 {
	return c.Center
}

// Inertia of a solid disc: m*r²/2
func (c Circle) Inertia(mass float64) float64 {
	return 0.5 * mass * c.Radius * c.Radius
}

func (c Circle) Bounds() AABB {
	r := vmath.V2(c.Radius, c.Radius)
	return AABB{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

func (c Circle) Contains(p vmath.Vec2) bool {
	return vmath.DistanceSq(c.Center, p) <= c.Radius*c.Radius
}

// Support returns Center + Radius*unit(dir); zero dir returns Center
func (c Circle) Support(dir vmath.Vec2) vmath.Vec2 {
	n := vmath.Normalize(dir)
	return c.Center.Add(n.Mul(c.Radius))
}

// Transform scales the radius by the largest absolute scale component
// Non-uniform scale keeps the shape a circle
func (c Circle) Transform(xf vmath.Transform) Shape {
	return Circle{
		Center: xf.Apply(c.Center),
		Radius: c.Radius * xf.MaxScale(),
	}
}

func (Circle) sealed() {}
