package collision

import (
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/vmath"
)

// MaxManifoldPoints is the contact point capacity of a 2D manifold
const MaxManifoldPoints = 2

// Manifold describes one contact between two shapes
// Normal is unit length and points from A toward B; Depth is never negative
type Manifold struct {
	A, B   core.Entity
	Normal vmath.Vec2
	Depth  float64
	// Separation is the remaining gap of a speculative (bullet) contact, 0 otherwise
	Separation float64
	Points     [MaxManifoldPoints]vmath.Vec2
	Count      int
}

// Flip swaps the roles of A and B
func (m Manifold) Flip() Manifold {
	m.A, m.B = m.B, m.A
	m.Normal = m.Normal.Mul(-1)
	return m
}

// ContactPoints returns the populated points
func (m *Manifold) ContactPoints() []vmath.Vec2 {
	return m.Points[:m.Count]
}

// Pair returns the unordered key of the colliding entities
func (m *Manifold) Pair() core.PairKey {
	return core.NewPairKey(m.A, m.B)
}

func (m *Manifold) addPoint(p vmath.Vec2) {
	if m.Count < MaxManifoldPoints {
		m.Points[m.Count] = p
		m.Count++
	}
}

// single builds a one-point manifold
func single(normal vmath.Vec2, depth float64, point vmath.Vec2) Manifold {
	m := Manifold{Normal: normal, Depth: max(depth, 0)}
	m.addPoint(point)
	return m
}
