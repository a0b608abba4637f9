package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/vmath"
)

func TestAttractorPullsDynamicBodies(t *testing.T) {
	w := NewWorld(zeroGravity())
	w.AddAttractor(physics.Attractor{Center: vmath.V2(10, 0), Strength: 10, MinRadius: 1})
	require.Len(t, w.Attractors(), 1)

	ball := mustCreate(t, w, BodyDef{Type: physics.Dynamic, Shape: mustCircle(t, 0.5), Mass: 2})
	wall := mustCreate(t, w, BodyDef{
		Type:      physics.Static,
		Shape:     mustBox(t, 1, 1),
		Transform: vmath.NewTransform(vmath.V2(0, 20), 0),
	})
	step(t, w, 1)

	b, _ := w.Body(ball)
	// a = 10 / 10^2, independent of mass
	assert.InDelta(t, 0.1*dt, b.Velocity.X(), 1e-12)
	assert.InDelta(t, 0, b.Velocity.Y(), 1e-12)

	s, _ := w.Body(wall)
	assert.Equal(t, vmath.Vec2{}, s.Velocity)

	w.ClearAttractors()
	assert.Empty(t, w.Attractors())
	before := b.Velocity
	step(t, w, 1)
	assert.InDelta(t, before.X(), b.Velocity.X(), 1e-12)
}

func TestHomingSteersAndClears(t *testing.T) {
	w := NewWorld(zeroGravity())
	e := mustCreate(t, w, BodyDef{Type: physics.Dynamic, Shape: mustCircle(t, 0.5), Mass: 1})

	require.NoError(t, w.SetHoming(e, vmath.V2(0, 10), physics.HomingProfile{Accel: 6, ArrivalRadius: 2}))
	step(t, w, 1)

	b, _ := w.Body(e)
	assert.InDelta(t, 6*dt, b.Velocity.Y(), 1e-12)
	arrived, ok := w.Arrived(e)
	require.True(t, ok)
	assert.False(t, arrived)

	w.ClearHoming(e)
	_, ok = w.Arrived(e)
	assert.False(t, ok)

	assert.ErrorIs(t, w.SetHoming(core.Entity(999), vmath.Vec2{}, physics.HomingProfile{}), ErrUnknownEntity)

	require.NoError(t, w.SetHoming(e, vmath.V2(0, 10), physics.HomingProfile{Accel: 1}))
	require.NoError(t, w.Destroy(e))
	_, ok = w.Arrived(e)
	assert.False(t, ok)
}
