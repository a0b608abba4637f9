package engine

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// BodySnapshot is the render/network view of one body after a step
type BodySnapshot struct {
	Entity          core.Entity `json:"id"`
	Kind            string      `json:"kind"`
	Static          bool        `json:"static"`
	Sensor          bool        `json:"sensor,omitempty"`
	Position        vmath.Vec2  `json:"pos"`
	Rotation        float64     `json:"rot"`
	Velocity        vmath.Vec2  `json:"vel"`
	AngularVelocity float64     `json:"angVel"`
	Bounds          shape.AABB  `json:"bounds"`
	// Outline holds world vertices of polygons and edges
	Outline []vmath.Vec2 `json:"outline,omitempty"`
	// Center and Radius describe circles
	Center vmath.Vec2 `json:"center"`
	Radius float64    `json:"radius,omitempty"`
}

// Snapshot is the world state at the end of a step
type Snapshot struct {
	Step   uint64         `json:"step"`
	Bodies []BodySnapshot `json:"bodies"`
}

// Snapshot captures every live body in ascending handle order
func (w *World) Snapshot() Snapshot {
	entities := w.Entities()
	snap := Snapshot{Step: w.step, Bodies: make([]BodySnapshot, 0, len(entities))}

	for _, e := range entities {
		if !w.Alive(e) {
			continue
		}
		b, _ := w.bodies.Get(e)
		c, _ := w.colliders.Get(e)
		xf, _ := w.transforms.Get(e)
		ws := c.Shape.Transform(*xf)

		bs := BodySnapshot{
			Entity:          e,
			Kind:            ws.Kind().String(),
			Static:          b.IsStatic(),
			Sensor:          c.Sensor,
			Position:        xf.Position,
			Rotation:        xf.Rotation,
			Velocity:        b.Velocity,
			AngularVelocity: b.AngularVelocity,
			Bounds:          ws.Bounds(),
			Center:          ws.Centroid(),
		}
		switch v := ws.(type) {
		case shape.Circle:
			bs.Radius = v.Radius
		case *shape.Polygon:
			bs.Outline = v.Vertices()
		case shape.Edge:
			bs.Outline = []vmath.Vec2{v.A, v.B}
		}
		snap.Bodies = append(snap.Bodies, bs)
	}
	return snap
}

// Checksum digests positions, rotations and velocities of every body in handle order
// Two worlds fed the same scene and steps produce the same checksum
func (w *World) Checksum() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 64)
	for _, e := range w.Entities() {
		b, _ := w.bodies.Get(e)
		xf, _ := w.transforms.Get(e)

		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, uint64(e))
		for _, f := range [...]float64{
			xf.Position[0], xf.Position[1], xf.Rotation,
			b.Velocity[0], b.Velocity[1], b.AngularVelocity,
		} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}
