package event

import (
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/vmath"
)

// EventType represents the type of physics event
type EventType uint8

const (
	// EventContactBegin signals a pair that started touching this step
	// Trigger: World.Step narrow phase | Consumer: audio, network, scripts
	EventContactBegin EventType = iota + 1

	// EventContactPersist signals a pair still touching from the previous step
	// Trigger: World.Step narrow phase | Consumer: scripts
	EventContactPersist

	// EventContactEnd signals a pair that touched last step and no longer does
	// Trigger: World.Step after narrow phase | Consumer: scripts | Impulse fields are zero
	EventContactEnd

	// EventSensorBegin signals a sensor overlap that started this step
	// Trigger: World.Step narrow phase | Consumer: scripts
	EventSensorBegin

	// EventSensorEnd signals a sensor overlap that ended
	// Trigger: World.Step after narrow phase | Consumer: scripts
	EventSensorEnd

	// EventBodyDestroyed signals deferred destruction applied at end of step
	// Trigger: World.Step | Consumer: network, render | Only A is set
	EventBodyDestroyed
)

// Event is a single physics event with metadata
// Value type so the ring buffer never allocates
type Event struct {
	Type EventType
	Step uint64

	A, B   core.Entity
	Normal vmath.Vec2
	Point  vmath.Vec2
	Depth  float64

	// NormalImpulse is the resolved impulse of the contact, 0 for sensors
	NormalImpulse  float64
	TangentImpulse float64
}

// Pair returns the unordered entity key of the event
func (e Event) Pair() core.PairKey {
	return core.NewPairKey(e.A, e.B)
}
