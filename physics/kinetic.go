package physics

import (
	"github.com/lixenwraith/planar/vmath"
)

// IntegrateForce performs v += F·invM·dt and ω += τ·invI·dt, then clears the accumulators
// Damping and the speed cap run after the force step
func (b *Body) IntegrateForce(dt float64) {
	if b.IsStatic() {
		b.ClearForces()
		return
	}

	b.Velocity = b.Velocity.Add(b.Force.Mul(b.InvMass * dt))
	b.AngularVelocity += b.Torque * b.InvInertia * dt

	if b.LinearDamping > 0 {
		b.Velocity = b.Velocity.Mul(1 / (1 + dt*b.LinearDamping))
	}
	if b.AngularDamping > 0 {
		b.AngularVelocity *= 1 / (1 + dt*b.AngularDamping)
	}
	if b.MaxSpeed > 0 {
		CapSpeed(&b.Velocity, b.MaxSpeed)
	}

	b.ClearForces()
}

// IntegrateVelocity performs p += v·dt and θ += ω·dt on the entity transform
// Rotation turns about the center of mass; for a centered shape this is the plain position update
func (b *Body) IntegrateVelocity(xf *vmath.Transform, dt float64) {
	if b.IsStatic() {
		return
	}

	c := xf.Apply(b.LocalCenter).Add(b.Velocity.Mul(dt))
	xf.Rotation += b.AngularVelocity * dt
	xf.Position = c.Sub(xf.ApplyVector(b.LocalCenter))
	b.center = c
}

// ApplyImpulse changes momentum by j at world point p
func (b *Body) ApplyImpulse(j, p vmath.Vec2) {
	b.applyImpulse(j, p.Sub(b.center))
}

// ApplyLinearImpulse changes momentum by j through the center of mass
func (b *Body) ApplyLinearImpulse(j vmath.Vec2) {
	b.Velocity = b.Velocity.Add(j.Mul(b.InvMass))
}

// applyImpulse takes the contact arm r relative to the center of mass
func (b *Body) applyImpulse(j, r vmath.Vec2) {
	b.Velocity = b.Velocity.Add(j.Mul(b.InvMass))
	b.AngularVelocity += vmath.Cross(r, j) * b.InvInertia
}

// Translate moves the body and its transform by d without touching velocity
func (b *Body) Translate(xf *vmath.Transform, d vmath.Vec2) {
	if b.IsStatic() {
		return
	}
	xf.Position = xf.Position.Add(d)
	b.center = b.center.Add(d)
}
