package collision

import (
	"math"

	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// fallbackNormal is used when centers coincide
var fallbackNormal = vmath.Vec2{1, 0}

func circleCircle(a, b shape.Circle) (Manifold, bool) {
	d := b.Center.Sub(a.Center)
	r := a.Radius + b.Radius
	if vmath.LenSq(d) >= r*r {
		return Manifold{}, false
	}

	normal, dist := vmath.NormalizeLen(d)
	if dist <= vmath.Epsilon {
		normal = fallbackNormal
	}
	depth := r - dist
	pa := a.Center.Add(normal.Mul(a.Radius))
	pb := b.Center.Sub(normal.Mul(b.Radius))
	return single(normal, depth, pa.Add(pb).Mul(0.5)), true
}

// polygonCircle resolves a circle against a polygon by the Voronoi region of its center
func polygonCircle(p *shape.Polygon, c shape.Circle) (Manifold, bool) {
	center := c.Center

	face := 0
	sep := math.Inf(-1)
	for i := 0; i < p.Count(); i++ {
		s := p.Normal(i).Dot(center.Sub(p.Vertex(i)))
		if s >= c.Radius {
			return Manifold{}, false
		}
		if s > sep {
			face, sep = i, s
		}
	}

	n := p.Normal(face)
	v1 := p.Vertex(face)
	v2 := p.Vertex(face + 1)

	// Center inside the polygon
	if sep < vmath.Epsilon {
		depth := c.Radius - sep
		deep := center.Sub(n.Mul(c.Radius))
		onFace := center.Sub(n.Mul(sep))
		return single(n, depth, deep.Add(onFace).Mul(0.5)), true
	}

	u1 := center.Sub(v1).Dot(v2.Sub(v1))
	u2 := center.Sub(v2).Dot(v1.Sub(v2))

	var closest vmath.Vec2
	switch {
	case u1 <= 0:
		closest = v1
	case u2 <= 0:
		closest = v2
	default:
		return single(n, c.Radius-sep, midpoint(center.Sub(n.Mul(sep)), center.Sub(n.Mul(c.Radius)))), true
	}

	d := center.Sub(closest)
	if vmath.LenSq(d) >= c.Radius*c.Radius {
		return Manifold{}, false
	}
	normal, dist := vmath.NormalizeLen(d)
	return single(normal, c.Radius-dist, midpoint(closest, center.Sub(normal.Mul(c.Radius)))), true
}

func edgeCircle(e shape.Edge, c shape.Circle) (Manifold, bool) {
	q := e.ClosestPoint(c.Center)
	d := c.Center.Sub(q)
	if vmath.LenSq(d) >= c.Radius*c.Radius {
		return Manifold{}, false
	}

	normal, dist := vmath.NormalizeLen(d)
	if dist <= vmath.Epsilon {
		normal = e.Normal()
	}
	return single(normal, c.Radius-dist, midpoint(q, c.Center.Sub(normal.Mul(c.Radius)))), true
}

func midpoint(a, b vmath.Vec2) vmath.Vec2 {
	return a.Add(b).Mul(0.5)
}
