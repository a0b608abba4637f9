package shape

import "github.com/lixenwraith/planar/vmath"

// AABB is an axis-aligned bounding box, Min <= Max component-wise
type AABB struct {
	Min, Max vmath.Vec2
}

// NewAABB builds a box from two arbitrary corners
func NewAABB(a, b vmath.Vec2) AABB {
	return AABB{Min: vmath.MinElem(a, b), Max: vmath.MaxElem(a, b)}
}

// Overlaps reports intersection, touching boxes overlap
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1]
}

// Contains reports whether p lies inside or on the boundary
func (b AABB) Contains(p vmath.Vec2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] && p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

// ContainsBox reports whether o lies fully inside b
func (b AABB) ContainsBox(o AABB) bool {
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Union returns the smallest box enclosing both
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: vmath.MinElem(b.Min, o.Min), Max: vmath.MaxElem(b.Max, o.Max)}
}

// Expand grows the box by margin on every side
func (b AABB) Expand(margin float64) AABB {
	m := vmath.V2(margin, margin)
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Sweep extends the box to cover its translation by delta
func (b AABB) Sweep(delta vmath.Vec2) AABB {
	moved := AABB{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
	return b.Union(moved)
}

func (b AABB) Center() vmath.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half-size
func (b AABB) Extents() vmath.Vec2 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

func (b AABB) Area() float64 {
	d := b.Max.Sub(b.Min)
	return d[0] * d[1]
}

func (b AABB) Perimeter() float64 {
	d := b.Max.Sub(b.Min)
	return 2 * (d[0] + d[1])
}
