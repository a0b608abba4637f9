package collision

import (
	"math"

	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// DistanceResult reports the separation of two convex sets
// Overlapping sets report Distance 0 with Overlap set; witness points are then undefined
type DistanceResult struct {
	Distance   float64
	PointA     vmath.Vec2
	PointB     vmath.Vec2
	Iterations int
	Overlap    bool
}

// weighted is a simplex vertex with its barycentric coordinate
type weighted struct {
	SupportPoint
	w float64
}

type distSimplex struct {
	v     [3]weighted
	count int
}

// closest returns the point of the simplex nearest the origin, valid after solve
func (s *distSimplex) closest() vmath.Vec2 {
	var p vmath.Vec2
	for i := 0; i < s.count; i++ {
		p = p.Add(s.v[i].P.Mul(s.v[i].w))
	}
	return p
}

func (s *distSimplex) witnesses() (vmath.Vec2, vmath.Vec2) {
	var pa, pb vmath.Vec2
	for i := 0; i < s.count; i++ {
		pa = pa.Add(s.v[i].A.Mul(s.v[i].w))
		pb = pb.Add(s.v[i].B.Mul(s.v[i].w))
	}
	return pa, pb
}

func (s *distSimplex) contains(p vmath.Vec2) bool {
	for i := 0; i < s.count; i++ {
		if vmath.DistanceSq(s.v[i].P, p) <= vmath.Epsilon*vmath.Epsilon {
			return true
		}
	}
	return false
}

func (s *distSimplex) solve() {
	switch s.count {
	case 1:
		s.v[0].w = 1
	case 2:
		s.solve2()
	case 3:
		s.solve3()
	}
}

// solve2 reduces a segment to its Voronoi region of the origin
func (s *distSimplex) solve2() {
	w1, w2 := s.v[0].P, s.v[1].P
	e12 := w2.Sub(w1)

	d12n2 := -w1.Dot(e12)
	if d12n2 <= 0 {
		s.v[0].w = 1
		s.count = 1
		return
	}

	d12n1 := w2.Dot(e12)
	if d12n1 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].w = 1
		s.count = 1
		return
	}

	inv := 1 / (d12n1 + d12n2)
	s.v[0].w = d12n1 * inv
	s.v[1].w = d12n2 * inv
}

// solve3 reduces a triangle to its Voronoi region of the origin
func (s *distSimplex) solve3() {
	w1, w2, w3 := s.v[0].P, s.v[1].P, s.v[2].P

	e12 := w2.Sub(w1)
	d12n1 := w2.Dot(e12)
	d12n2 := -w1.Dot(e12)

	e13 := w3.Sub(w1)
	d13n1 := w3.Dot(e13)
	d13n2 := -w1.Dot(e13)

	e23 := w3.Sub(w2)
	d23n1 := w3.Dot(e23)
	d23n2 := -w2.Dot(e23)

	n123 := vmath.Cross(e12, e13)
	d123n1 := n123 * vmath.Cross(w2, w3)
	d123n2 := n123 * vmath.Cross(w3, w1)
	d123n3 := n123 * vmath.Cross(w1, w2)

	switch {
	case d12n2 <= 0 && d13n2 <= 0:
		s.keep1(0)
	case d12n1 > 0 && d12n2 > 0 && d123n3 <= 0:
		inv := 1 / (d12n1 + d12n2)
		s.v[0].w = d12n1 * inv
		s.v[1].w = d12n2 * inv
		s.count = 2
	case d13n1 > 0 && d13n2 > 0 && d123n2 <= 0:
		inv := 1 / (d13n1 + d13n2)
		s.v[0].w = d13n1 * inv
		s.v[2].w = d13n2 * inv
		s.v[1] = s.v[2]
		s.count = 2
	case d12n1 <= 0 && d23n2 <= 0:
		s.keep1(1)
	case d13n1 <= 0 && d23n1 <= 0:
		s.keep1(2)
	case d23n1 > 0 && d23n2 > 0 && d123n1 <= 0:
		inv := 1 / (d23n1 + d23n2)
		s.v[2].w = d23n2 * inv
		s.v[1].w = d23n1 * inv
		s.v[0] = s.v[2]
		s.count = 2
	default:
		inv := 1 / (d123n1 + d123n2 + d123n3)
		s.v[0].w = d123n1 * inv
		s.v[1].w = d123n2 * inv
		s.v[2].w = d123n3 * inv
	}
}

func (s *distSimplex) keep1(i int) {
	s.v[0] = s.v[i]
	s.v[0].w = 1
	s.count = 1
}

// Distance computes the closest points between two convex sets with GJK
func Distance(a, b shape.Supporter) DistanceResult {
	var res DistanceResult
	var s distSimplex

	dir := b.Centroid().Sub(a.Centroid())
	if vmath.NearZeroVec(dir) {
		dir = vmath.V2(1, 0)
	}
	s.v[0] = weighted{SupportPoint: MinkowskiSupport(a, b, dir), w: 1}
	s.count = 1

	for i := 0; i < parameter.GJKMaxIterations; i++ {
		res.Iterations = i + 1

		s.solve()
		if s.count == 3 {
			res.Overlap = true
			return res
		}

		p := s.closest()
		if vmath.LenSq(p) <= vmath.Epsilon*vmath.Epsilon {
			res.Overlap = true
			return res
		}

		d := p.Mul(-1)
		next := MinkowskiSupport(a, b, d)

		// No progress toward the origin: p is the closest point
		if next.P.Dot(d)-p.Dot(d) <= parameter.DistanceTolerance*math.Max(1, vmath.LenSq(p)) || s.contains(next.P) {
			break
		}

		s.v[s.count] = weighted{SupportPoint: next}
		s.count++
	}

	s.solve()
	if s.count == 3 {
		res.Overlap = true
		return res
	}
	res.PointA, res.PointB = s.witnesses()
	res.Distance = vmath.Distance(res.PointA, res.PointB)
	return res
}
