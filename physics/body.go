// Package physics integrates rigid bodies and resolves contacts.
//
// A Body holds mass properties and motion state only. Geometry lives in the
// collider's shape and placement in the entity's vmath.Transform; the
// integrator writes the transform once per step. Static bodies (zero inverse
// mass and inverse inertia) never move and drop whatever force reaches them.
package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// BodyType distinguishes movable bodies from fixed ones
type BodyType uint8

const (
	Static BodyType = iota
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Body is the rigid body state of one entity
type Body struct {
	Type BodyType

	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64
	// LocalCenter is the center of mass in the body frame
	LocalCenter vmath.Vec2

	Velocity        vmath.Vec2
	AngularVelocity float64

	Force  vmath.Vec2
	Torque float64

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64
	// MaxSpeed caps linear speed after force integration, 0 disables
	MaxSpeed float64
	// Bullet bodies are tested with a swept hull against static geometry
	Bullet bool

	center vmath.Vec2
}

// NewDynamic builds a movable body with mass properties taken from s
func NewDynamic(s shape.Shape, mass float64) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	}

	b := &Body{
		Type:         Dynamic,
		Mass:         mass,
		InvMass:      1 / mass,
		LocalCenter:  s.Centroid(),
		GravityScale: 1,
	}
	if i := s.Inertia(mass); i > vmath.Epsilon {
		b.Inertia = i
		b.InvInertia = 1 / i
	}
	b.center = b.LocalCenter
	return b, nil
}

// NewDynamicDensity derives mass from the shape area
// Zero-area shapes (edges) cannot carry density
func NewDynamicDensity(s shape.Shape, density float64) (*Body, error) {
	if !(density > 0) || math.IsInf(density, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDensity, density)
	}
	b, err := NewDynamic(s, density*s.Area())
	if err != nil {
		return nil, fmt.Errorf("%s shape of area %v: %w", s.Kind(), s.Area(), err)
	}
	return b, nil
}

// NewStatic builds an immovable body
func NewStatic(s shape.Shape) *Body {
	return &Body{
		Type:        Static,
		LocalCenter: s.Centroid(),
		center:      s.Centroid(),
	}
}

// IsStatic reports zero inverse mass and inverse inertia
func (b *Body) IsStatic() bool {
	return b.InvMass == 0 && b.InvInertia == 0
}

// Center returns the world center of mass as of the last Sync or integration
func (b *Body) Center() vmath.Vec2 {
	return b.center
}

// Sync recomputes the world center of mass from the entity transform
func (b *Body) Sync(xf vmath.Transform) {
	b.center = xf.Apply(b.LocalCenter)
}

// AddForce accumulates a force through the center of mass
func (b *Body) AddForce(f vmath.Vec2) {
	b.Force = b.Force.Add(f)
}

// AddTorque accumulates torque
func (b *Body) AddTorque(t float64) {
	b.Torque += t
}

// AddForceAtPoint accumulates f applied at world point p, adding torque cross(p - c, f)
func (b *Body) AddForceAtPoint(f, p vmath.Vec2) {
	b.Force = b.Force.Add(f)
	b.Torque += vmath.Cross(p.Sub(b.center), f)
}

// AddVelocity changes linear velocity directly, ignored on static bodies
func (b *Body) AddVelocity(dv vmath.Vec2) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Add(dv)
}

// AddAngularVelocity changes angular velocity directly, ignored on static bodies
func (b *Body) AddAngularVelocity(dw float64) {
	if b.IsStatic() {
		return
	}
	b.AngularVelocity += dw
}

// VelocityAt returns the velocity of world point p: v + ω·perp(p - c)
func (b *Body) VelocityAt(p vmath.Vec2) vmath.Vec2 {
	return b.Velocity.Add(vmath.CrossSV(b.AngularVelocity, p.Sub(b.center)))
}

// ClearForces zeroes the accumulators
func (b *Body) ClearForces() {
	b.Force = vmath.Vec2{}
	b.Torque = 0
}
