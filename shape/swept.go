package shape

import "github.com/lixenwraith/planar/vmath"

// Swept is the Minkowski sum of a convex set and the segment [0, Delta]
// Used as the bullet hull: a fast body is tested against everything it crosses this step
type Swept struct {
	Base  Supporter
	Delta vmath.Vec2
}

// Support extends the base support by Delta when Delta faces dir
func (s Swept) Support(dir vmath.Vec2) vmath.Vec2 {
	p := s.Base.Support(dir)
	if s.Delta.Dot(dir) > 0 {
		p = p.Add(s.Delta)
	}
	return p
}

func (s Swept) Centroid() vmath.Vec2 {
	return s.Base.Centroid().Add(s.Delta.Mul(0.5))
}
