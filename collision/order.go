package collision

import (
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// orderProbes are fixed directions whose support points separate shapes
// that share kind, centroid, bounds and area
var orderProbes = [...]vmath.Vec2{
	{1, 0.3719},
	{-0.2143, 1},
	{-1, -0.6180},
}

// precedes is a strict total order on shapes, used to solve a pair in one
// fixed operand order so reversing the arguments only flips the manifold
func precedes(a, b shape.Shape) bool {
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	if c := compareVec(a.Centroid(), b.Centroid()); c != 0 {
		return c < 0
	}
	ba, bb := a.Bounds(), b.Bounds()
	if c := compareVec(ba.Min, bb.Min); c != 0 {
		return c < 0
	}
	if c := compareVec(ba.Max, bb.Max); c != 0 {
		return c < 0
	}
	if aa, ab := a.Area(), b.Area(); aa != ab {
		return aa < ab
	}
	for _, d := range orderProbes {
		if c := compareVec(a.Support(d), b.Support(d)); c != 0 {
			return c < 0
		}
	}
	return false
}

func compareVec(a, b vmath.Vec2) int {
	switch {
	case a[0] < b[0]:
		return -1
	case a[0] > b[0]:
		return 1
	case a[1] < b[1]:
		return -1
	case a[1] > b[1]:
		return 1
	}
	return 0
}
