package collision

import (
	"math"

	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Penetration is the EPA result: the minimum translation of the Minkowski difference
type Penetration struct {
	// Normal points from A toward B
	Normal vmath.Vec2
	Depth  float64
	// PointA and PointB are witness points on the closest polytope edge
	PointA, PointB vmath.Vec2
}

var seedDirections = [...]vmath.Vec2{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// EPA expands the terminating GJK simplex into the penetration of A and B
// Returns false when the Minkowski difference has no area (e.g. two collinear edges)
func EPA(a, b shape.Supporter, simplex Simplex) (Penetration, bool) {
	poly := make([]SupportPoint, 0, parameter.EPAMaxIterations+3)
	poly = append(poly, simplex.Slice()...)

	if !completeTriangle(a, b, &poly) {
		return Penetration{}, false
	}
	// CCW so the right perpendicular of each edge faces outward
	if vmath.Cross(poly[1].P.Sub(poly[0].P), poly[2].P.Sub(poly[0].P)) < 0 {
		poly[1], poly[2] = poly[2], poly[1]
	}

	var best Penetration
	var bestEdge int
	for i := 0; i < parameter.EPAMaxIterations; i++ {
		edge, normal, dist := closestEdge(poly)
		bestEdge = edge
		best.Normal, best.Depth = normal, dist

		p := MinkowskiSupport(a, b, normal)
		if p.P.Dot(normal)-dist <= parameter.EPATolerance {
			break
		}
		poly = append(poly, SupportPoint{})
		copy(poly[edge+2:], poly[edge+1:])
		poly[edge+1] = p
	}

	best.Depth = math.Max(best.Depth, 0)
	best.PointA, best.PointB = edgeWitness(poly, bestEdge, best.Normal.Mul(best.Depth))
	return best, true
}

// completeTriangle grows a point or segment simplex into a triangle with area
func completeTriangle(a, b shape.Supporter, poly *[]SupportPoint) bool {
	for _, dir := range seedDirections {
		if len(*poly) >= 3 {
			break
		}
		p := MinkowskiSupport(a, b, dir)
		if containsPoint(*poly, p.P) {
			continue
		}
		if len(*poly) == 2 {
			e := (*poly)[1].P.Sub((*poly)[0].P)
			if vmath.NearZero(vmath.Cross(e, p.P.Sub((*poly)[0].P))) {
				// Try the normal of the segment instead
				n := vmath.Perpendicular(e)
				p = MinkowskiSupport(a, b, n)
				if vmath.NearZero(vmath.Cross(e, p.P.Sub((*poly)[0].P))) {
					p = MinkowskiSupport(a, b, n.Mul(-1))
				}
				if vmath.NearZero(vmath.Cross(e, p.P.Sub((*poly)[0].P))) {
					return false
				}
			}
		}
		*poly = append(*poly, p)
	}
	if len(*poly) < 3 {
		return false
	}
	return !vmath.NearZero(vmath.Cross((*poly)[1].P.Sub((*poly)[0].P), (*poly)[2].P.Sub((*poly)[0].P)))
}

func containsPoint(poly []SupportPoint, p vmath.Vec2) bool {
	for _, q := range poly {
		if vmath.NearEqualVec(q.P, p, vmath.Epsilon) {
			return true
		}
	}
	return false
}

// closestEdge returns the polytope edge nearest the origin with its outward normal
func closestEdge(poly []SupportPoint) (int, vmath.Vec2, float64) {
	best := 0
	bestDist := math.Inf(1)
	var bestNormal vmath.Vec2

	for i := range poly {
		p0 := poly[i].P
		p1 := poly[(i+1)%len(poly)].P
		n := vmath.Normalize(vmath.CrossVS(p1.Sub(p0), 1))
		if vmath.NearZeroVec(n) {
			continue
		}
		d := n.Dot(p0)
		if d < bestDist {
			best, bestDist, bestNormal = i, d, n
		}
	}
	return best, bestNormal, bestDist
}

// edgeWitness interpolates the A and B witnesses at the projection of the origin q on edge i
func edgeWitness(poly []SupportPoint, i int, q vmath.Vec2) (vmath.Vec2, vmath.Vec2) {
	s0 := poly[i]
	s1 := poly[(i+1)%len(poly)]
	e := s1.P.Sub(s0.P)

	t := 0.0
	if l2 := vmath.LenSq(e); l2 > vmath.Epsilon {
		t = vmath.Clamp(q.Sub(s0.P).Dot(e)/l2, 0, 1)
	}
	pa := s0.A.Add(s1.A.Sub(s0.A).Mul(t))
	pb := s0.B.Add(s1.B.Sub(s0.B).Mul(t))
	return pa, pb
}
