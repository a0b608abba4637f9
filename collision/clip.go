package collision

import (
	"math"

	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// features is the vertex/normal view SAT needs, indices wrap
type features interface {
	Count() int
	Vertex(i int) vmath.Vec2
	Normal(i int) vmath.Vec2
}

// edgeFeatures reads a segment as the two-sided polygon A, B
type edgeFeatures struct {
	e shape.Edge
	n vmath.Vec2
}

func newEdgeFeatures(e shape.Edge) edgeFeatures {
	return edgeFeatures{e: e, n: e.Normal()}
}

func (f edgeFeatures) Count() int { return 2 }

func (f edgeFeatures) Vertex(i int) vmath.Vec2 {
	if i&1 == 0 {
		return f.e.A
	}
	return f.e.B
}

func (f edgeFeatures) Normal(i int) vmath.Vec2 {
	if i&1 == 0 {
		return f.n
	}
	return f.n.Mul(-1)
}

// maxSeparation finds the normal of a with the largest separation from b
func maxSeparation(a, b features) (int, float64) {
	best := 0
	bestSep := math.Inf(-1)
	for i := 0; i < a.Count(); i++ {
		n := a.Normal(i)
		v := a.Vertex(i)

		sep := math.Inf(1)
		for j := 0; j < b.Count(); j++ {
			sep = math.Min(sep, n.Dot(b.Vertex(j).Sub(v)))
		}
		if sep > bestSep {
			best, bestSep = i, sep
		}
	}
	return best, bestSep
}

// incidentEdge returns the edge of inc most anti-parallel to normal
func incidentEdge(inc features, normal vmath.Vec2) int {
	best := 0
	minDot := math.Inf(1)
	for i := 0; i < inc.Count(); i++ {
		if d := normal.Dot(inc.Normal(i)); d < minDot {
			best, minDot = i, d
		}
	}
	return best
}

// clipSegment keeps the part of [v0, v1] behind the line n·x = offset
func clipSegment(in [2]vmath.Vec2, n vmath.Vec2, offset float64) ([2]vmath.Vec2, int) {
	var out [2]vmath.Vec2
	count := 0

	d0 := n.Dot(in[0]) - offset
	d1 := n.Dot(in[1]) - offset

	if d0 <= 0 {
		out[count] = in[0]
		count++
	}
	if d1 <= 0 {
		out[count] = in[1]
		count++
	}
	if d0*d1 < 0 && count < 2 {
		t := d0 / (d0 - d1)
		out[count] = in[0].Add(in[1].Sub(in[0]).Mul(t))
		count++
	}
	return out, count
}

// clipPolygons finds the manifold of two convex vertex sets by SAT and reference-face clipping
// handled is false when clipping degenerates and the caller must fall back to GJK
func clipPolygons(a, b features) (m Manifold, ok bool, handled bool) {
	edgeA, sepA := maxSeparation(a, b)
	if sepA >= 0 {
		return Manifold{}, false, true
	}
	edgeB, sepB := maxSeparation(b, a)
	if sepB >= 0 {
		return Manifold{}, false, true
	}

	ref, inc, refEdge, flip := a, b, edgeA, false
	if sepB > sepA+parameter.ReferenceFaceBias {
		ref, inc, refEdge, flip = b, a, edgeB, true
	}

	r1 := ref.Vertex(refEdge)
	r2 := ref.Vertex(refEdge + 1)
	normal := ref.Normal(refEdge)
	tangent := vmath.Normalize(r2.Sub(r1))
	if vmath.NearZeroVec(tangent) {
		return Manifold{}, false, false
	}

	ie := incidentEdge(inc, normal)
	incident := [2]vmath.Vec2{inc.Vertex(ie), inc.Vertex(ie + 1)}

	clipped, n := clipSegment(incident, tangent.Mul(-1), -tangent.Dot(r1))
	if n < 2 {
		return Manifold{}, false, false
	}
	clipped, n = clipSegment(clipped, tangent, tangent.Dot(r2))
	if n < 2 {
		return Manifold{}, false, false
	}

	front := normal.Dot(r1)
	for _, p := range clipped[:n] {
		sep := normal.Dot(p) - front
		if sep > 0 {
			continue
		}
		// Midway between the incident point and its projection on the reference face
		m.addPoint(p.Sub(normal.Mul(0.5 * sep)))
		m.Depth = math.Max(m.Depth, -sep)
	}
	if m.Count == 0 {
		return Manifold{}, false, false
	}

	m.Normal = normal
	if flip {
		m.Normal = normal.Mul(-1)
	}
	return m, true, true
}
