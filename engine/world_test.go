package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

const dt = 1.0 / 60

func zeroGravity() Config {
	cfg := DefaultConfig()
	cfg.Gravity = vmath.Vec2{}
	return cfg
}

func mustCircle(t *testing.T, r float64) shape.Circle {
	t.Helper()
	c, err := shape.NewCircle(vmath.Vec2{}, r)
	require.NoError(t, err)
	return c
}

func mustBox(t *testing.T, hw, hh float64) *shape.Polygon {
	t.Helper()
	b, err := shape.NewBox(hw, hh)
	require.NoError(t, err)
	return b
}

func mustCreate(t *testing.T, w *World, def BodyDef) core.Entity {
	t.Helper()
	e, err := w.CreateBody(def)
	require.NoError(t, err)
	return e
}

func ground(t *testing.T, w *World) core.Entity {
	return mustCreate(t, w, BodyDef{
		Type:      physics.Static,
		Shape:     mustBox(t, 10, 0.5),
		Transform: vmath.NewTransform(vmath.V2(0, 0), 0),
	})
}

func step(t *testing.T, w *World, n int) StepResult {
	t.Helper()
	var res StepResult
	var err error
	for i := 0; i < n; i++ {
		res, err = w.Step(dt)
		require.NoError(t, err)
	}
	return res
}

func TestCreateBodyValidation(t *testing.T) {
	w := NewWorld(DefaultConfig())

	_, err := w.CreateBody(BodyDef{Type: physics.Dynamic})
	assert.ErrorIs(t, err, ErrMissingShape)

	_, err = w.CreateBody(BodyDef{Type: physics.Dynamic, Shape: mustCircle(t, 1), Mass: -2})
	assert.ErrorIs(t, err, physics.ErrInvalidMass)

	edge, err := shape.NewEdge(vmath.V2(0, 0), vmath.V2(1, 0))
	require.NoError(t, err)
	_, err = w.CreateBody(BodyDef{Type: physics.Dynamic, Shape: edge})
	assert.ErrorIs(t, err, physics.ErrInvalidMass, "edge has no area to carry density")

	e := mustCreate(t, w, BodyDef{Type: physics.Dynamic, Shape: mustCircle(t, 1), Mass: 3})
	b, ok := w.Body(e)
	require.True(t, ok)
	assert.InDelta(t, 1.0/3, b.InvMass, 1e-12)
	assert.Equal(t, 1.0, b.GravityScale)

	c, ok := w.Collider(e)
	require.True(t, ok)
	assert.Equal(t, physics.DefaultMaterial, c.Material)
	assert.Equal(t, DefaultCategory, c.Category)
	assert.Equal(t, MaskAll, c.Mask)
	assert.Equal(t, e, c.Owner)
}

func TestFreeFallMatchesSemiImplicitEuler(t *testing.T) {
	w := NewWorld(DefaultConfig())
	e := mustCreate(t, w, BodyDef{Type: physics.Dynamic, Shape: mustCircle(t, 0.5), Mass: 2})

	step(t, w, 1)
	b, _ := w.Body(e)
	xf, _ := w.Transform(e)
	g := w.Config().Gravity[1]
	assert.InDelta(t, g*dt, b.Velocity[1], 1e-12)
	assert.InDelta(t, g*dt*dt, xf.Position[1], 1e-12)
	assert.Zero(t, b.Force, "accumulator cleared")
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w := NewWorld(DefaultConfig())
	g := ground(t, w)
	b, _ := w.Body(g)

	for i := 0; i < 30; i++ {
		b.AddForce(vmath.V2(1e6, 1e6))
		b.AddTorque(1e4)
		step(t, w, 1)
	}
	xf, _ := w.Transform(g)
	assert.Equal(t, vmath.V2(0, 0), xf.Position)
	assert.Equal(t, 0.0, xf.Rotation)
	assert.Equal(t, vmath.Vec2{}, b.Velocity)
	assert.Zero(t, b.Force)
}

func TestCircleSettlesOnGround(t *testing.T) {
	w := NewWorld(DefaultConfig())
	ground(t, w)
	ball := mustCreate(t, w, BodyDef{
		Type:      physics.Dynamic,
		Shape:     mustCircle(t, 0.5),
		Transform: vmath.NewTransform(vmath.V2(0, 3), 0),
	})

	step(t, w, 240)

	xf, _ := w.Transform(ball)
	b, _ := w.Body(ball)
	// Ground top at 0.5, radius 0.5
	assert.InDelta(t, 1.0, xf.Position[1], 0.05)
	assert.InDelta(t, 0.0, b.Velocity[1], 0.05)
}

func TestBoxStackStaysUpright(t *testing.T) {
	w := NewWorld(DefaultConfig())
	ground(t, w)
	var crates []core.Entity
	for i := 0; i < 2; i++ {
		crates = append(crates, mustCreate(t, w, BodyDef{
			Type:      physics.Dynamic,
			Shape:     mustBox(t, 0.5, 0.5),
			Transform: vmath.NewTransform(vmath.V2(0, 1.0+float64(i)*1.0), 0),
		}))
	}

	step(t, w, 180)

	for i, e := range crates {
		xf, _ := w.Transform(e)
		assert.InDelta(t, 0.0, xf.Position[0], 0.1, "crate %d drifted", i)
		assert.InDelta(t, 1.0+float64(i), xf.Position[1], 0.15, "crate %d height", i)
		assert.InDelta(t, 0.0, xf.Rotation, 0.1, "crate %d tipped", i)
	}
}

func TestContactEventLifecycle(t *testing.T) {
	q := event.NewEventQueue()
	w := NewWorld(zeroGravity(), WithEventQueue(q))
	g := ground(t, w)
	ball := mustCreate(t, w, BodyDef{
		Type:      physics.Dynamic,
		Shape:     mustCircle(t, 1),
		Transform: vmath.NewTransform(vmath.V2(0, 1.2), 0),
	})

	res := step(t, w, 1)
	require.Len(t, res.Manifolds, 1)
	m := res.Manifolds[0]
	assert.Equal(t, core.NewPairKey(g, ball), m.Pair())
	assert.Equal(t, 1, res.Contacts)

	evs := q.Consume()
	require.Len(t, evs, 1)
	assert.Equal(t, event.EventContactBegin, evs[0].Type)
	assert.Greater(t, evs[0].Depth, 0.0)

	step(t, w, 1)
	evs = q.Consume()
	require.Len(t, evs, 1)
	assert.Equal(t, event.EventContactPersist, evs[0].Type)

	require.NoError(t, w.SetTransform(ball, vmath.NewTransform(vmath.V2(0, 20), 0)))
	step(t, w, 1)
	evs = q.Consume()
	require.Len(t, evs, 1)
	assert.Equal(t, event.EventContactEnd, evs[0].Type)
	assert.Equal(t, core.NewPairKey(g, ball), evs[0].Pair())
}

func TestFilterAndSensor(t *testing.T) {
	q := event.NewEventQueue()
	w := NewWorld(DefaultConfig(), WithEventQueue(q))
	mustCreate(t, w, BodyDef{
		Type:   physics.Static,
		Shape:  mustBox(t, 10, 0.5),
		Sensor: true,
	})
	mustCreate(t, w, BodyDef{
		Type:      physics.Static,
		Shape:     mustBox(t, 10, 0.5),
		Transform: vmath.NewTransform(vmath.V2(0, -5), 0),
		Category:  2,
	})
	ball := mustCreate(t, w, BodyDef{
		Type:      physics.Dynamic,
		Shape:     mustCircle(t, 0.5),
		Transform: vmath.NewTransform(vmath.V2(0, 1.2), 0),
		Mask:      DefaultCategory, // ignores category 2
	})

	step(t, w, 120)

	// Passed through the sensor and the filtered floor
	xf, _ := w.Transform(ball)
	assert.Less(t, xf.Position[1], -6.0)

	var types []event.EventType
	for _, ev := range q.Consume() {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, event.EventSensorBegin)
	assert.Contains(t, types, event.EventSensorEnd)
	assert.NotContains(t, types, event.EventContactBegin)
}

func TestDestroyDeferredDuringStep(t *testing.T) {
	var w *World
	var stepErr error
	w = NewWorld(zeroGravity(), WithContactListener(func(ev event.Event) {
		if ev.Type == event.EventContactBegin {
			require.NoError(t, w.Destroy(ev.B))
			assert.False(t, w.Alive(ev.B))
			_, ok := w.Body(ev.B)
			assert.True(t, ok, "still stored until end of step")
			_, stepErr = w.Step(dt)
		}
	}))
	a := mustCreate(t, w, BodyDef{Type: physics.Dynamic, Shape: mustCircle(t, 1)})
	b := mustCreate(t, w, BodyDef{
		Type:      physics.Dynamic,
		Shape:     mustCircle(t, 1),
		Transform: vmath.NewTransform(vmath.V2(1.5, 0), 0),
	})

	res := step(t, w, 1)
	assert.ErrorIs(t, stepErr, ErrStepInProgress)
	assert.Equal(t, []core.Entity{b}, res.Destroyed)
	assert.Equal(t, 1, w.Len())
	assert.True(t, w.Alive(a))
	_, ok := w.Body(b)
	assert.False(t, ok)

	assert.ErrorIs(t, w.Destroy(b), ErrUnknownEntity)
	require.NoError(t, w.Destroy(a))
	assert.Zero(t, w.Len())
}

func TestStepRejectsBadTimestep(t *testing.T) {
	w := NewWorld(DefaultConfig())
	for _, bad := range []float64{0, -1} {
		_, err := w.Step(bad)
		assert.ErrorIs(t, err, ErrInvalidTimestep)
	}
	assert.Zero(t, w.StepCount())
}

func TestBulletDoesNotTunnel(t *testing.T) {
	build := func(bullet bool) (*World, core.Entity) {
		w := NewWorld(zeroGravity())
		mustCreate(t, w, BodyDef{Type: physics.Static, Shape: mustBox(t, 0.05, 2)})
		e := mustCreate(t, w, BodyDef{
			Type:      physics.Dynamic,
			Shape:     mustCircle(t, 0.1),
			Transform: vmath.NewTransform(vmath.V2(-5, 0), 0),
			Velocity:  vmath.V2(600, 0),
			Bullet:    bullet,
		})
		return w, e
	}

	w, e := build(false)
	step(t, w, 1)
	xf, _ := w.Transform(e)
	assert.Greater(t, xf.Position[0], 0.0, "plain body skips the wall")

	w, e = build(true)
	step(t, w, 1)
	xf, _ = w.Transform(e)
	assert.Less(t, xf.Position[0], 0.0, "bullet stops at the wall")
	assert.InDelta(t, -0.15, xf.Position[0], 1e-3)
	assert.Equal(t, uint64(1), w.DetectorStats().Swept)
}

func buildPile(t *testing.T) *World {
	w := NewWorld(DefaultConfig())
	ground(t, w)
	rng := vmath.NewFastRand(11)
	for i := 0; i < 12; i++ {
		var s shape.Shape = mustCircle(t, rng.Range(0.2, 0.6))
		if i%2 == 1 {
			s = mustBox(t, rng.Range(0.2, 0.6), rng.Range(0.2, 0.6))
		}
		mustCreate(t, w, BodyDef{
			Type:      physics.Dynamic,
			Shape:     s,
			Transform: vmath.NewTransform(vmath.V2(rng.Range(-3, 3), 2+float64(i)), rng.Range(0, 3)),
		})
	}
	return w
}

func TestChecksumDeterministic(t *testing.T) {
	a := buildPile(t)
	b := buildPile(t)
	start := a.Checksum()
	assert.Equal(t, start, b.Checksum())

	step(t, a, 90)
	step(t, b, 90)
	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, start, a.Checksum())
}

func TestSnapshot(t *testing.T) {
	w := NewWorld(zeroGravity())
	g := ground(t, w)
	ball := mustCreate(t, w, BodyDef{
		Type:      physics.Dynamic,
		Shape:     mustCircle(t, 0.5),
		Transform: vmath.NewTransform(vmath.V2(0, 5), 0),
		Velocity:  vmath.V2(1, 0),
	})
	step(t, w, 1)

	snap := w.Snapshot()
	assert.Equal(t, uint64(1), snap.Step)
	require.Len(t, snap.Bodies, 2)

	assert.Equal(t, g, snap.Bodies[0].Entity)
	assert.Equal(t, "box", snap.Bodies[0].Kind)
	assert.True(t, snap.Bodies[0].Static)
	assert.Len(t, snap.Bodies[0].Outline, 4)

	assert.Equal(t, ball, snap.Bodies[1].Entity)
	assert.Equal(t, "circle", snap.Bodies[1].Kind)
	assert.Equal(t, 0.5, snap.Bodies[1].Radius)
	assert.InDelta(t, dt, snap.Bodies[1].Position[0], 1e-12)
	assert.Equal(t, vmath.V2(1, 0), snap.Bodies[1].Velocity)
}
