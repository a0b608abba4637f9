package engine

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/vmath"
)

// homing is a steering target attached to one body
type homing struct {
	target  vmath.Vec2
	profile physics.HomingProfile
	arrived bool
}

// AddAttractor adds a gravity well that pulls every dynamic body each step
func (w *World) AddAttractor(a physics.Attractor) {
	w.attractors = append(w.attractors, a)
}

// Attractors returns a copy of the registered wells
func (w *World) Attractors() []physics.Attractor {
	return slices.Clone(w.attractors)
}

// ClearAttractors removes every well
func (w *World) ClearAttractors() {
	w.attractors = w.attractors[:0]
}

// SetHoming steers e toward target on every step until ClearHoming
func (w *World) SetHoming(e core.Entity, target vmath.Vec2, profile physics.HomingProfile) error {
	if !w.Alive(e) {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, e)
	}
	w.homing[e] = &homing{target: target, profile: profile}
	return nil
}

// ClearHoming removes the steering target of e
func (w *World) ClearHoming(e core.Entity) {
	delete(w.homing, e)
}

// Arrived reports whether e is inside the arrival radius of its homing target
func (w *World) Arrived(e core.Entity) (arrived, ok bool) {
	h, ok := w.homing[e]
	if !ok {
		return false, false
	}
	return h.arrived, true
}

// applyFields adds attractor and homing forces before force integration
func (w *World) applyFields(e core.Entity, b *physics.Body) {
	if b.IsStatic() {
		return
	}
	for _, a := range w.attractors {
		a.Apply(b)
	}
	if h, ok := w.homing[e]; ok {
		h.arrived = physics.ApplyHoming(b, h.target, &h.profile)
	}
}
