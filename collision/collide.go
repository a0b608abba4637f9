// Package collision is the narrow phase: GJK overlap and distance, EPA
// penetration recovery, SAT clipping for polygon manifolds and closed-form
// circle paths. Every manifold normal points from A toward B and depth is
// never negative. Touching shapes do not collide.
package collision

import (
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Collide tests two world-space shapes, using a closed-form path where one exists
// Collide(b, a) returns the flipped manifold of Collide(a, b)
func Collide(a, b shape.Shape) (Manifold, bool) {
	if precedes(b, a) {
		m, ok := Collide(b, a)
		if !ok {
			return Manifold{}, false
		}
		return m.Flip(), true
	}
	if m, ok, handled := collideFast(a, b); handled {
		return m, ok
	}
	m, ok, _ := collideGJK(a, b, parameter.GJKMaxIterations)
	return m, ok
}

// CollideGJK tests any two convex sets with GJK followed by EPA
func CollideGJK(a, b shape.Supporter) (Manifold, bool) {
	m, ok, _ := collideGJK(a, b, parameter.GJKMaxIterations)
	return m, ok
}

func collideGJK(a, b shape.Supporter, maxIterations int) (Manifold, bool, GJKResult) {
	res := gjk(a, b, maxIterations)
	if !res.Overlap {
		return Manifold{}, false, res
	}

	pen, ok := EPA(a, b, res.Simplex)
	if !ok {
		// No area to expand: report a zero-depth contact along the centroid axis
		ca, cb := a.Centroid(), b.Centroid()
		n := vmath.Normalize(cb.Sub(ca))
		if vmath.NearZeroVec(n) {
			n = fallbackNormal
		}
		return single(n, 0, midpoint(ca, cb)), true, res
	}
	return single(pen.Normal, pen.Depth, midpoint(pen.PointA, pen.PointB)), true, res
}

// collideFast dispatches pairs with a closed-form or SAT solution
// handled is false for pairs the caller must send through GJK
func collideFast(a, b shape.Shape) (m Manifold, ok bool, handled bool) {
	switch sa := a.(type) {
	case shape.Circle:
		switch sb := b.(type) {
		case shape.Circle:
			m, ok = circleCircle(sa, sb)
			return m, ok, true
		case *shape.Polygon:
			m, ok = polygonCircle(sb, sa)
			return m.Flip(), ok, true
		case shape.Edge:
			m, ok = edgeCircle(sb, sa)
			return m.Flip(), ok, true
		}
	case *shape.Polygon:
		switch sb := b.(type) {
		case shape.Circle:
			m, ok = polygonCircle(sa, sb)
			return m, ok, true
		case *shape.Polygon:
			return clipPolygons(sa, sb)
		case shape.Edge:
			return clipPolygons(sa, newEdgeFeatures(sb))
		}
	case shape.Edge:
		switch sb := b.(type) {
		case shape.Circle:
			m, ok = edgeCircle(sa, sb)
			return m, ok, true
		case *shape.Polygon:
			return clipPolygons(newEdgeFeatures(sa), sb)
		case shape.Edge:
			return clipPolygons(newEdgeFeatures(sa), newEdgeFeatures(sb))
		}
	}
	return Manifold{}, false, false
}
