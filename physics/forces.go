package physics

import (
	"math"

	"github.com/lixenwraith/planar/vmath"
)

// HomingProfile defines steering toward a target point
type HomingProfile struct {
	Accel float64 // Acceleration toward the target
	// Arrival steering (0 = disabled)
	ArrivalRadius float64 // Distance at which acceleration starts to ramp down
	Damping       float64 // Extra linear damping applied inside the arrival radius
}

// ApplyHoming adds the force that accelerates b toward target
// Returns true once the body is inside the arrival radius
func ApplyHoming(b *Body, target vmath.Vec2, profile *HomingProfile) bool {
	if b.IsStatic() {
		return false
	}

	dir, dist := vmath.NormalizeLen(target.Sub(b.center))
	if dist <= vmath.Epsilon {
		return true
	}

	accel := profile.Accel
	arrived := false
	if profile.ArrivalRadius > 0 && dist < profile.ArrivalRadius {
		factor := dist / profile.ArrivalRadius
		accel *= factor
		arrived = true
		if profile.Damping > 0 {
			// Drag proportional to how deep into the arrival zone
			b.AddForce(b.Velocity.Mul(-profile.Damping * (1 - factor) * b.Mass))
		}
	}

	b.AddForce(dir.Mul(accel * b.Mass))
	return arrived
}

// Attractor is a radial gravity well
type Attractor struct {
	Center   vmath.Vec2
	Strength float64 // Acceleration at unit distance
	// MinRadius clamps the inverse-square falloff near the center
	MinRadius float64
}

// Acceleration returns the inverse-square pull at p
func (a Attractor) Acceleration(p vmath.Vec2) vmath.Vec2 {
	dir, dist := vmath.NormalizeLen(a.Center.Sub(p))
	if dist <= vmath.Epsilon {
		return vmath.Vec2{}
	}
	r := math.Max(dist, a.MinRadius)
	return dir.Mul(a.Strength / (r * r))
}

// Apply adds the attraction force on b
func (a Attractor) Apply(b *Body) {
	if b.IsStatic() {
		return
	}
	b.AddForce(a.Acceleration(b.center).Mul(b.Mass))
}

// OrbitalVelocity returns the speed of a circular orbit at radius: v = sqrt(a·r)
// where a is the well acceleration at that radius
func (a Attractor) OrbitalVelocity(radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	r := math.Max(radius, a.MinRadius)
	return math.Sqrt(a.Strength / (r * r) * radius)
}

// OrbitalInsert returns the velocity that puts a body at p on a circular orbit
func (a Attractor) OrbitalInsert(p vmath.Vec2, clockwise bool) vmath.Vec2 {
	radial, dist := vmath.NormalizeLen(p.Sub(a.Center))
	if dist <= vmath.Epsilon {
		return vmath.Vec2{}
	}
	tangent := vmath.Perpendicular(radial)
	if clockwise {
		tangent = tangent.Mul(-1)
	}
	return tangent.Mul(a.OrbitalVelocity(dist))
}
