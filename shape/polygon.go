package shape

import (
	"fmt"
	"math"
	"slices"

	"github.com/lixenwraith/planar/vmath"
)

// MaxPolygonVertices bounds the per-polygon vertex count
const MaxPolygonVertices = 64

// Polygon is a convex polygon stored counter-clockwise
// A Box is a Polygon tagged KindBox
type Polygon struct {
	kind     Kind
	vertices []vmath.Vec2
	normals  []vmath.Vec2
}

// NewPolygon validates and normalizes winding to counter-clockwise
// Rejects fewer than 3 vertices, zero area, repeated vertices and non-convex or self-intersecting input
func NewPolygon(vertices ...vmath.Vec2) (*Polygon, error) {
	n := len(vertices)
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, n)
	}
	if n > MaxPolygonVertices {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyVertices, n, MaxPolygonVertices)
	}

	verts := slices.Clone(vertices)
	area := signedArea(verts)
	if math.Abs(area) <= vmath.Epsilon {
		return nil, fmt.Errorf("%w: polygon area is zero", ErrDegenerate)
	}
	if area < 0 {
		slices.Reverse(verts)
	}

	for i := 0; i < n; i++ {
		if vmath.Distance(verts[i], verts[(i+1)%n]) <= vmath.Epsilon {
			return nil, fmt.Errorf("%w: repeated vertex %v", ErrDegenerate, verts[i])
		}
	}

	// Every vertex must lie on the inner side of every edge
	// Catches reflex corners and star-shaped self-intersection alike
	for i := 0; i < n; i++ {
		a := verts[i]
		edge := verts[(i+1)%n].Sub(a)
		tol := vmath.Epsilon * math.Max(1, edge.Len())
		for j := 0; j < n; j++ {
			if vmath.Cross(edge, verts[j].Sub(a)) < -tol {
				return nil, fmt.Errorf("%w: vertex %d lies outside edge %d", ErrNotConvex, j, i)
			}
		}
	}

	return newPolygon(KindPolygon, verts), nil
}

// NewBox builds an axis-aligned box centered at the origin
func NewBox(halfWidth, halfHeight float64) (*Polygon, error) {
	if !(halfWidth > 0) || !(halfHeight > 0) || math.IsInf(halfWidth, 0) || math.IsInf(halfHeight, 0) {
		return nil, fmt.Errorf("%w: got (%v, %v)", ErrInvalidExtents, halfWidth, halfHeight)
	}
	verts := []vmath.Vec2{
		{-halfWidth, -halfHeight},
		{halfWidth, -halfHeight},
		{halfWidth, halfHeight},
		{-halfWidth, halfHeight},
	}
	return newPolygon(KindBox, verts), nil
}

// NewBoxAt builds a box offset and rotated inside the local frame
func NewBoxAt(halfWidth, halfHeight float64, center vmath.Vec2, angle float64) (*Polygon, error) {
	box, err := NewBox(halfWidth, halfHeight)
	if err != nil {
		return nil, err
	}
	return box.Transform(vmath.NewTransform(center, angle)).(*Polygon), nil
}

// newPolygon trusts its input: CCW, convex, at least 3 distinct vertices
func newPolygon(kind Kind, verts []vmath.Vec2) *Polygon {
	n := len(verts)
	normals := make([]vmath.Vec2, n)
	for i := 0; i < n; i++ {
		edge := verts[(i+1)%n].Sub(verts[i])
		normals[i] = vmath.Normalize(vmath.CrossVS(edge, 1))
	}
	return &Polygon{kind: kind, vertices: verts, normals: normals}
}

func signedArea(verts []vmath.Vec2) float64 {
	var sum float64
	n := len(verts)
	for i := 0; i < n; i++ {
		sum += vmath.Cross(verts[i], verts[(i+1)%n])
	}
	return 0.5 * sum
}

func (p *Polygon) Kind() Kind { return p.kind }

// Count returns the vertex count
func (p *Polygon) Count() int { return len(p.vertices) }

// Vertex returns vertex i, indices wrap
func (p *Polygon) Vertex(i int) vmath.Vec2 {
	n := len(p.vertices)
	return p.vertices[((i%n)+n)%n]
}

// Normal returns the outward unit normal of edge i (vertex i → i+1)
func (p *Polygon) Normal(i int) vmath.Vec2 {
	n := len(p.normals)
	return p.normals[((i%n)+n)%n]
}

// Vertices returns a copy of the vertex list
func (p *Polygon) Vertices() []vmath.Vec2 {
	return slices.Clone(p.vertices)
}

func (p *Polygon) Area() float64 {
	area, _, _ := p.massProperties()
	return area
}

func (p *Polygon) Centroid() vmath.Vec2 {
	_, c, _ := p.massProperties()
	return c
}

// Inertia returns the moment about the centroid for a uniform-density polygon of the given mass
func (p *Polygon) Inertia(mass float64) float64 {
	area, _, unit := p.massProperties()
	if area <= vmath.Epsilon {
		return 0
	}
	return mass / area * unit
}

// massProperties returns area, centroid and unit-density polar moment about the centroid
// Triangle fan around the first vertex keeps the sums well conditioned far from the origin
func (p *Polygon) massProperties() (area float64, centroid vmath.Vec2, inertia float64) {
	s := p.vertices[0]
	var center vmath.Vec2
	n := len(p.vertices)
	for i := 1; i < n-1; i++ {
		e1 := p.vertices[i].Sub(s)
		e2 := p.vertices[i+1].Sub(s)
		d := vmath.Cross(e1, e2)
		tri := 0.5 * d
		area += tri
		center = center.Add(e1.Add(e2).Mul(tri / 3))

		intx2 := e1[0]*e1[0] + e2[0]*e1[0] + e2[0]*e2[0]
		inty2 := e1[1]*e1[1] + e2[1]*e1[1] + e2[1]*e2[1]
		inertia += (0.25 / 3 * d) * (intx2 + inty2)
	}
	if area <= vmath.Epsilon {
		return 0, s, 0
	}
	center = center.Mul(1 / area)
	// Shift from the fan origin to the centroid
	inertia -= area * vmath.LenSq(center)
	return area, s.Add(center), inertia
}

func (p *Polygon) Bounds() AABB {
	lo, hi := p.vertices[0], p.vertices[0]
	for _, v := range p.vertices[1:] {
		lo = vmath.MinElem(lo, v)
		hi = vmath.MaxElem(hi, v)
	}
	return AABB{Min: lo, Max: hi}
}

// Contains reports p inside or within Epsilon of the boundary
func (p *Polygon) Contains(pt vmath.Vec2) bool {
	for i, v := range p.vertices {
		if p.normals[i].Dot(pt.Sub(v)) > vmath.Epsilon {
			return false
		}
	}
	return true
}

// Support returns the vertex maximizing dot(v, dir)
// Ties go to the first vertex in stored order, zero dir returns vertex 0
func (p *Polygon) Support(dir vmath.Vec2) vmath.Vec2 {
	return p.vertices[p.SupportIndex(dir)]
}

// SupportIndex is Support returning the vertex index
func (p *Polygon) SupportIndex(dir vmath.Vec2) int {
	best := 0
	bestDot := p.vertices[0].Dot(dir)
	for i := 1; i < len(p.vertices); i++ {
		if d := p.vertices[i].Dot(dir); d > bestDot {
			best = i
			bestDot = d
		}
	}
	return best
}

// Transform maps every vertex; mirrored transforms get their winding restored
func (p *Polygon) Transform(xf vmath.Transform) Shape {
	verts := make([]vmath.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		verts[i] = xf.Apply(v)
	}
	if xf.Mirrored() {
		slices.Reverse(verts)
	}
	return newPolygon(p.kind, verts)
}

func (*Polygon) sealed() {}
