package collision

import (
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// GJKResult is the outcome of one overlap query
type GJKResult struct {
	Overlap    bool
	Simplex    Simplex
	Iterations int
	// CapReached marks a run that hit GJKMaxIterations and was reported as no overlap
	CapReached bool
}

// GJK tests two convex sets for overlap
// Touching shapes (origin on the Minkowski boundary) usually report no overlap
func GJK(a, b shape.Supporter) GJKResult {
	return gjk(a, b, parameter.GJKMaxIterations)
}

func gjk(a, b shape.Supporter, maxIterations int) GJKResult {
	var res GJKResult
	s := &res.Simplex

	// Searching from A toward B first usually saves an iteration
	dir := b.Centroid().Sub(a.Centroid())
	if vmath.NearZeroVec(dir) {
		dir = vmath.V2(1, 0)
	}

	s.push(MinkowskiSupport(a, b, dir))
	dir = s.Points[0].P.Mul(-1)
	if vmath.LenSq(dir) <= vmath.Epsilon*vmath.Epsilon {
		// First support point sits on the origin
		res.Overlap = true
		return res
	}

	for i := 0; i < maxIterations; i++ {
		res.Iterations = i + 1

		p := MinkowskiSupport(a, b, dir)
		// Separating axis: the farthest point along dir does not pass the origin
		if p.P.Dot(dir) <= 0 {
			return res
		}

		s.push(p)
		if s.reduce(&dir) {
			res.Overlap = true
			return res
		}
	}

	res.CapReached = true
	return res
}

// Overlaps is the boolean form of GJK
func Overlaps(a, b shape.Supporter) bool {
	return GJK(a, b).Overlap
}
