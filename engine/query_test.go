package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/raycast"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

func TestRaycastAndQueries(t *testing.T) {
	w := NewWorld(zeroGravity())
	box := mustCreate(t, w, BodyDef{Type: physics.Static, Shape: mustBox(t, 2, 2), Category: 4})
	ball := mustCreate(t, w, BodyDef{
		Type:      physics.Static,
		Shape:     mustCircle(t, 1),
		Transform: vmath.NewTransform(vmath.V2(10, 0), 0),
	})

	hit, ok := w.Raycast(raycast.New(vmath.V2(-4, 0), vmath.V2(1, 0), 0), 0)
	require.True(t, ok)
	assert.Equal(t, box, hit.Entity)
	assert.InDelta(t, 2, hit.Distance, 1e-9)
	assert.InDelta(t, -2, hit.Point[0], 1e-9)
	assert.InDelta(t, -1, hit.Normal[0], 1e-9)

	hit, ok = w.Raycast(raycast.New(vmath.V2(-4, 0), vmath.V2(1, 0), 0), DefaultCategory)
	require.True(t, ok)
	assert.Equal(t, ball, hit.Entity)
	assert.InDelta(t, 13, hit.Distance, 1e-9)

	_, ok = w.Raycast(raycast.New(vmath.V2(-4, 0), vmath.V2(1, 0), 5), DefaultCategory)
	assert.False(t, ok, "beyond max distance")
	_, ok = w.Raycast(raycast.New(vmath.V2(-4, 5), vmath.V2(1, 0), 0), 0)
	assert.False(t, ok)

	assert.Equal(t, []core.Entity{box}, w.QueryPoint(vmath.V2(1, 1)))
	assert.Empty(t, w.QueryPoint(vmath.V2(5, 0)))
	assert.Equal(t, []core.Entity{box, ball}, w.QueryAABB(shape.AABB{Min: vmath.V2(-1, -1), Max: vmath.V2(9.5, 1)}))

	d, err := w.Distance(box, ball)
	require.NoError(t, err)
	assert.InDelta(t, 7, d.Distance, 1e-6)
	_, err = w.Distance(box, 99)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestRaycastSkipsSensorsAndBreaksTies(t *testing.T) {
	w := NewWorld(zeroGravity())
	mustCreate(t, w, BodyDef{Type: physics.Static, Shape: mustBox(t, 3, 3), Sensor: true})
	// Two identical circles at the same place, the lower handle wins
	first := mustCreate(t, w, BodyDef{Type: physics.Static, Shape: mustCircle(t, 1), Transform: vmath.NewTransform(vmath.V2(5, 0), 0)})
	mustCreate(t, w, BodyDef{Type: physics.Static, Shape: mustCircle(t, 1), Transform: vmath.NewTransform(vmath.V2(5, 0), 0)})

	hit, ok := w.Raycast(raycast.New(vmath.V2(-10, 0), vmath.V2(1, 0), 0), 0)
	require.True(t, ok)
	assert.Equal(t, first, hit.Entity)
	assert.InDelta(t, 14, hit.Distance, 1e-9)
}

func TestQueriesIgnoreDestroyed(t *testing.T) {
	w := NewWorld(zeroGravity())
	e := mustCreate(t, w, BodyDef{Type: physics.Static, Shape: mustCircle(t, 1)})
	require.NoError(t, w.Destroy(e))

	assert.Empty(t, w.QueryPoint(vmath.Vec2{}))
	_, ok := w.Raycast(raycast.New(vmath.V2(-5, 0), vmath.V2(1, 0), 0), 0)
	assert.False(t, ok)
}
