package engine

import (
	"fmt"
	"math"

	"github.com/lixenwraith/planar/collision"
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/raycast"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// RaycastHit is the nearest body hit by a ray
type RaycastHit struct {
	Entity core.Entity
	raycast.Hit
}

// Raycast returns the nearest non-sensor collider selected by mask along r
// Ties go to the lower entity handle
func (w *World) Raycast(r raycast.Ray, mask uint32) (RaycastHit, bool) {
	best := RaycastHit{Hit: raycast.Hit{Distance: math.Inf(1)}}
	found := false

	for _, e := range w.Entities() {
		c, _ := w.colliders.Get(e)
		if c.Sensor || !c.InMask(mask) || !w.Alive(e) {
			continue
		}
		xf, _ := w.transforms.Get(e)
		ws := c.Shape.Transform(*xf)

		// Slab test on the bounds first, cheaper than the exact cast
		entry, ok := raycast.AABB(r, ws.Bounds())
		if !ok || entry > best.Distance {
			continue
		}
		hit, ok := raycast.Cast(r, ws)
		if ok && hit.Distance < best.Distance {
			best = RaycastHit{Entity: e, Hit: hit}
			found = true
		}
	}
	if !found {
		return RaycastHit{}, false
	}
	return best, true
}

// QueryPoint returns the entities whose shape contains p, ascending
func (w *World) QueryPoint(p vmath.Vec2) []core.Entity {
	var out []core.Entity
	for _, e := range w.Entities() {
		if !w.Alive(e) {
			continue
		}
		ws, _ := w.WorldShape(e)
		if ws.Bounds().Contains(p) && ws.Contains(p) {
			out = append(out, e)
		}
	}
	return out
}

// QueryAABB returns the entities whose world bounds overlap box, ascending
func (w *World) QueryAABB(box shape.AABB) []core.Entity {
	var out []core.Entity
	for _, e := range w.Entities() {
		if !w.Alive(e) {
			continue
		}
		ws, _ := w.WorldShape(e)
		if ws.Bounds().Overlaps(box) {
			out = append(out, e)
		}
	}
	return out
}

// Distance returns the GJK separation of two bodies in their current placement
func (w *World) Distance(a, b core.Entity) (collision.DistanceResult, error) {
	sa, ok := w.WorldShape(a)
	if !ok {
		return collision.DistanceResult{}, fmt.Errorf("%w: %d", ErrUnknownEntity, a)
	}
	sb, ok := w.WorldShape(b)
	if !ok {
		return collision.DistanceResult{}, fmt.Errorf("%w: %d", ErrUnknownEntity, b)
	}
	return collision.Distance(sa, sb), nil
}
