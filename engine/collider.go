package engine

import (
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/shape"
)

// Collision filter defaults: one category, collide with everything
const (
	DefaultCategory uint32 = 1
	MaskAll         uint32 = 0xFFFFFFFF
)

// Collider pairs a local-space shape with its surface material and filter
// It does not own a transform; the world reads the owner's transform on every query
type Collider struct {
	Owner    core.Entity
	Shape    shape.Shape
	Material physics.Material

	Category uint32
	Mask     uint32
	// Sensor colliders report overlaps but receive no impulses
	Sensor bool
}

// Accepts reports whether c and o pass each other's category/mask filter
func (c *Collider) Accepts(o *Collider) bool {
	return c.Category&o.Mask != 0 && o.Category&c.Mask != 0
}

// InMask reports whether a query mask selects c, a zero mask selects everything
func (c *Collider) InMask(mask uint32) bool {
	return mask == 0 || c.Category&mask != 0
}
