package collision

import (
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// SupportPoint is a vertex of the Minkowski difference A - B with its witnesses on A and B
type SupportPoint struct {
	P    vmath.Vec2
	A, B vmath.Vec2
}

// MinkowskiSupport returns support_A(dir) - support_B(-dir)
func MinkowskiSupport(a, b shape.Supporter, dir vmath.Vec2) SupportPoint {
	sa := a.Support(dir)
	sb := b.Support(dir.Mul(-1))
	return SupportPoint{P: sa.Sub(sb), A: sa, B: sb}
}

// Simplex holds up to three support points, newest last
type Simplex struct {
	Points [3]SupportPoint
	Count  int
}

func (s *Simplex) push(p SupportPoint) {
	if s.Count < len(s.Points) {
		s.Points[s.Count] = p
		s.Count++
	}
}

func (s *Simplex) set(points ...SupportPoint) {
	s.Count = copy(s.Points[:], points)
}

// Slice returns the populated points
func (s *Simplex) Slice() []SupportPoint {
	return s.Points[:s.Count]
}

// reduce keeps the sub-simplex closest to the origin and sets the next search direction
// Returns true once the triangle encloses the origin
func (s *Simplex) reduce(dir *vmath.Vec2) bool {
	switch s.Count {
	case 2:
		return s.line(dir)
	case 3:
		return s.triangle(dir)
	}
	return false
}

func (s *Simplex) line(dir *vmath.Vec2) bool {
	a := s.Points[1]
	b := s.Points[0]
	ab := b.P.Sub(a.P)
	ao := a.P.Mul(-1)

	// Coincident points or origin behind the newest point
	if vmath.LenSq(ab) <= vmath.Epsilon || ab.Dot(ao) <= 0 {
		s.set(a)
		*dir = ao
		return false
	}

	perp := towards(ab, ao)
	if vmath.LenSq(perp) <= vmath.Epsilon*vmath.Epsilon {
		// Origin on the segment, either side works
		perp = vmath.Perpendicular(ab)
	}
	*dir = perp
	return false
}

func (s *Simplex) triangle(dir *vmath.Vec2) bool {
	a := s.Points[2]
	b := s.Points[1]
	c := s.Points[0]

	ab := b.P.Sub(a.P)
	ac := c.P.Sub(a.P)
	ao := a.P.Mul(-1)

	// Collinear triangle degrades to the newest edge
	if vmath.NearZero(vmath.Cross(ab, ac)) {
		s.set(b, a)
		return s.line(dir)
	}

	abPerp := away(ab, ac)
	if abPerp.Dot(ao) > 0 {
		s.set(b, a)
		*dir = abPerp
		return false
	}

	acPerp := away(ac, ab)
	if acPerp.Dot(ao) > 0 {
		s.set(c, a)
		*dir = acPerp
		return false
	}

	return true
}

// towards returns the perpendicular of edge on the side of p
func towards(edge, p vmath.Vec2) vmath.Vec2 {
	perp := vmath.Perpendicular(edge)
	d := perp.Dot(p)
	switch {
	case vmath.NearZero(d):
		return vmath.Vec2{}
	case d < 0:
		return perp.Mul(-1)
	}
	return perp
}

// away returns the perpendicular of edge on the side opposite to p
func away(edge, p vmath.Vec2) vmath.Vec2 {
	perp := vmath.Perpendicular(edge)
	if perp.Dot(p) > 0 {
		return perp.Mul(-1)
	}
	return perp
}
