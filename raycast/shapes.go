package raycast

import (
	"math"

	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Circle solves |o + t*d - c|² = r² for the smallest t >= 0
func Circle(r Ray, c shape.Circle) (Hit, bool) {
	r, ok := r.unit()
	if !ok {
		return Hit{}, false
	}

	m := r.Origin.Sub(c.Center)
	cc := vmath.LenSq(m) - c.Radius*c.Radius
	if cc <= 0 {
		return r.inside(), true
	}

	b := m.Dot(r.Direction)
	if b > 0 {
		return Hit{}, false
	}
	disc := b*b - cc
	if disc < 0 {
		return Hit{}, false
	}

	t := -b - math.Sqrt(disc)
	if t > r.Limit() {
		return Hit{}, false
	}
	p := r.At(t)
	return Hit{Distance: t, Point: p, Normal: vmath.Normalize(p.Sub(c.Center))}, true
}

// Edge intersects the segment parametrically, the normal faces the ray
func Edge(r Ray, e shape.Edge) (Hit, bool) {
	r, ok := r.unit()
	if !ok {
		return Hit{}, false
	}

	seg := e.B.Sub(e.A)
	ao := e.A.Sub(r.Origin)
	denom := vmath.Cross(r.Direction, seg)

	if vmath.NearZero(denom) {
		return collinear(r, e)
	}

	t := vmath.Cross(ao, seg) / denom
	u := vmath.Cross(ao, r.Direction) / denom
	if t < 0 || t > r.Limit() || u < 0 || u > 1 {
		return Hit{}, false
	}

	n := e.Normal()
	if n.Dot(r.Direction) > 0 {
		n = n.Mul(-1)
	}
	if t <= vmath.Epsilon {
		return Hit{Distance: 0, Point: r.Origin, Normal: n}, true
	}
	return Hit{Distance: t, Point: r.At(t), Normal: n}, true
}

// collinear handles a ray parallel to the segment
func collinear(r Ray, e shape.Edge) (Hit, bool) {
	if !vmath.NearZero(vmath.Cross(e.A.Sub(r.Origin), r.Direction)) {
		return Hit{}, false
	}
	if e.Contains(r.Origin) {
		return r.inside(), true
	}

	ta := e.A.Sub(r.Origin).Dot(r.Direction)
	tb := e.B.Sub(r.Origin).Dot(r.Direction)
	t := math.Min(ta, tb)
	if t < 0 || t > r.Limit() {
		return Hit{}, false
	}
	return Hit{Distance: t, Point: r.At(t), Normal: r.Direction.Mul(-1)}, true
}

// Polygon clips the ray against every edge half-plane
func Polygon(r Ray, p *shape.Polygon) (Hit, bool) {
	r, ok := r.unit()
	if !ok {
		return Hit{}, false
	}

	lower, upper := 0.0, r.Limit()
	index := -1

	for i := 0; i < p.Count(); i++ {
		n := p.Normal(i)
		// dot(n, o + t*d - v) = 0
		num := n.Dot(p.Vertex(i).Sub(r.Origin))
		den := n.Dot(r.Direction)

		if vmath.NearZero(den) {
			// Parallel to this face: outside it means no hit
			if num < 0 {
				return Hit{}, false
			}
		} else if den < 0 && num < lower*den {
			// Entering this half-plane
			lower = num / den
			index = i
		} else if den > 0 && num < upper*den {
			// Exiting
			upper = num / den
		}

		if upper < lower {
			return Hit{}, false
		}
	}

	if index < 0 {
		return r.inside(), true
	}
	return Hit{Distance: lower, Point: r.At(lower), Normal: p.Normal(index)}, true
}

// AABB returns the entry distance of the ray into box, 0 when the origin is inside
func AABB(r Ray, box shape.AABB) (float64, bool) {
	r, ok := r.unit()
	if !ok {
		return 0, false
	}

	tmin, tmax := 0.0, r.Limit()
	for axis := 0; axis < 2; axis++ {
		o := r.Origin[axis]
		d := r.Direction[axis]
		if math.Abs(d) <= vmath.Epsilon {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}

		inv := 1 / d
		t1 := (box.Min[axis] - o) * inv
		t2 := (box.Max[axis] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
