package physics

import (
	"math"

	"github.com/lixenwraith/planar/collision"
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/vmath"
)

// Contact is one manifold prepared for impulse resolution
type Contact struct {
	Manifold    collision.Manifold
	A, B        *Body
	XfA, XfB    *vmath.Transform
	Friction    float64
	Restitution float64

	points [collision.MaxManifoldPoints]contactPoint
}

type contactPoint struct {
	rA, rB         vmath.Vec2
	normalMass     float64
	tangentMass    float64
	target         float64 // minimum relative normal velocity
	normalImpulse  float64
	tangentImpulse float64
}

// NormalImpulse returns the accumulated normal impulse over all points
func (c *Contact) NormalImpulse() float64 {
	var sum float64
	for i := 0; i < c.Manifold.Count; i++ {
		sum += c.points[i].normalImpulse
	}
	return sum
}

// TangentImpulse returns the accumulated friction impulse over all points
func (c *Contact) TangentImpulse() float64 {
	var sum float64
	for i := 0; i < c.Manifold.Count; i++ {
		sum += c.points[i].tangentImpulse
	}
	return sum
}

// Resolver applies sequential contact impulses with Coulomb friction, then Baumgarte position correction
type Resolver struct {
	VelocityIterations   int
	CorrectionPercent    float64
	Slop                 float64
	RestitutionThreshold float64
}

// NewResolver returns a resolver with the default tuning
func NewResolver() *Resolver {
	return &Resolver{
		VelocityIterations:   parameter.VelocityIterations,
		CorrectionPercent:    parameter.PositionCorrectionPercent,
		Slop:                 parameter.PenetrationSlop,
		RestitutionThreshold: parameter.RestitutionThreshold,
	}
}

// Resolve runs the velocity phase over contacts
// After the last iteration no contact point is left approaching along its normal,
// apart from the gap a speculative contact may still close this step
func (r *Resolver) Resolve(contacts []Contact, dt float64) {
	for i := range contacts {
		r.prepare(&contacts[i], dt)
	}

	iterations := max(r.VelocityIterations, 1)
	for it := 0; it < iterations; it++ {
		for i := range contacts {
			solve(&contacts[i])
		}
	}
}

func (r *Resolver) prepare(c *Contact, dt float64) {
	a, b := c.A, c.B
	m := &c.Manifold
	n := m.Normal
	t := vmath.CrossVS(n, 1)

	for i := 0; i < m.Count; i++ {
		p := &c.points[i]
		*p = contactPoint{}
		p.rA = m.Points[i].Sub(a.center)
		p.rB = m.Points[i].Sub(b.center)

		p.normalMass = effectiveMass(a, b, p.rA, p.rB, n)
		p.tangentMass = effectiveMass(a, b, p.rA, p.rB, t)

		vn := relativeVelocity(a, b, p.rA, p.rB).Dot(n)
		switch {
		case m.Separation > 0 && dt > 0:
			// Allowed to close the gap but not pass it
			p.target = -m.Separation / dt
		case -vn > r.RestitutionThreshold:
			p.target = -c.Restitution * vn
		}
	}
}

func solve(c *Contact) {
	a, b := c.A, c.B
	m := &c.Manifold
	n := m.Normal
	t := vmath.CrossVS(n, 1)

	for i := 0; i < m.Count; i++ {
		p := &c.points[i]
		if p.normalMass == 0 {
			continue
		}

		// Normal
		vn := relativeVelocity(a, b, p.rA, p.rB).Dot(n)
		lambda := p.normalMass * (p.target - vn)
		acc := math.Max(p.normalImpulse+lambda, 0)
		lambda = acc - p.normalImpulse
		p.normalImpulse = acc
		applyPair(a, b, p.rA, p.rB, n.Mul(lambda))

		// Friction bounded by the accumulated normal impulse
		if p.tangentMass == 0 || c.Friction <= 0 {
			continue
		}
		vt := relativeVelocity(a, b, p.rA, p.rB).Dot(t)
		lambdaT := -p.tangentMass * vt
		limit := c.Friction * p.normalImpulse
		accT := vmath.Clamp(p.tangentImpulse+lambdaT, -limit, limit)
		lambdaT = accT - p.tangentImpulse
		p.tangentImpulse = accT
		applyPair(a, b, p.rA, p.rB, t.Mul(lambdaT))
	}
}

// CorrectPositions pushes penetrating pairs apart along the normal
// Only the share of depth above the slop is removed, scaled by CorrectionPercent
func (r *Resolver) CorrectPositions(contacts []Contact) {
	for i := range contacts {
		c := &contacts[i]
		m := &c.Manifold
		if m.Separation > 0 || m.Depth <= r.Slop {
			continue
		}

		invSum := c.A.InvMass + c.B.InvMass
		if invSum == 0 {
			continue
		}
		corr := m.Normal.Mul((m.Depth - r.Slop) / invSum * r.CorrectionPercent)
		if c.XfA != nil {
			c.A.Translate(c.XfA, corr.Mul(-c.A.InvMass))
		}
		if c.XfB != nil {
			c.B.Translate(c.XfB, corr.Mul(c.B.InvMass))
		}
	}
}

func relativeVelocity(a, b *Body, rA, rB vmath.Vec2) vmath.Vec2 {
	va := a.Velocity.Add(vmath.CrossSV(a.AngularVelocity, rA))
	vb := b.Velocity.Add(vmath.CrossSV(b.AngularVelocity, rB))
	return vb.Sub(va)
}

// effectiveMass returns 1 / (invMA + invMB + invIA·(rA×d)² + invIB·(rB×d)²), 0 when both are fixed
func effectiveMass(a, b *Body, rA, rB, d vmath.Vec2) float64 {
	ra := vmath.Cross(rA, d)
	rb := vmath.Cross(rB, d)
	k := a.InvMass + b.InvMass + a.InvInertia*ra*ra + b.InvInertia*rb*rb
	if k <= vmath.Epsilon {
		return 0
	}
	return 1 / k
}

func applyPair(a, b *Body, rA, rB, j vmath.Vec2) {
	a.applyImpulse(j.Mul(-1), rA)
	b.applyImpulse(j, rB)
}
