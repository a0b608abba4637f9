package physics

import (
	"github.com/lixenwraith/planar/vmath"
)

// CapSpeed limits the velocity magnitude to maxSpeed
// Returns true if velocity was clamped
func CapSpeed(v *vmath.Vec2, maxSpeed float64) bool {
	if vmath.LenSq(*v) <= maxSpeed*maxSpeed {
		return false
	}
	*v = vmath.ClampMagnitude(*v, maxSpeed)
	return true
}
