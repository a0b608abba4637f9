package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

func circle(t *testing.T, x, y, r float64) shape.Circle {
	t.Helper()
	c, err := shape.NewCircle(vmath.V2(x, y), r)
	require.NoError(t, err)
	return c
}

func box(t *testing.T, hw, hh, x, y, angle float64) shape.Shape {
	t.Helper()
	b, err := shape.NewBox(hw, hh)
	require.NoError(t, err)
	return b.Transform(vmath.NewTransform(vmath.V2(x, y), angle))
}

func edge(t *testing.T, ax, ay, bx, by float64) shape.Edge {
	t.Helper()
	e, err := shape.NewEdge(vmath.V2(ax, ay), vmath.V2(bx, by))
	require.NoError(t, err)
	return e
}

func assertVec(t *testing.T, want, got vmath.Vec2, delta float64) {
	t.Helper()
	assert.InDelta(t, want[0], got[0], delta, "x of %v", got)
	assert.InDelta(t, want[1], got[1], delta, "y of %v", got)
}

func TestGJKSymmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b shape.Shape
		want bool
	}{
		{"circles overlap", circle(t, 0, 0, 1), circle(t, 1.5, 0.2, 1), true},
		{"circles apart", circle(t, 0, 0, 1), circle(t, 3, 0, 1), false},
		{"box circle", box(t, 1, 1, 0, 0, 0), circle(t, 1.8, 0, 1), true},
		{"rotated boxes", box(t, 1, 0.5, 0, 0, 0.7), box(t, 1, 1, 1.9, 0.4, -0.3), true},
		{"boxes apart", box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 0, 2.5, 0.1), false},
		{"edge crossing box", edge(t, -3, 0.5, 3, 0.5), box(t, 1, 1, 0, 0, 0), true},
		{"edge below box", edge(t, -3, -2, 3, -2), box(t, 1, 1, 0, 0, 0), false},
		{"concentric", circle(t, 2, 2, 1), circle(t, 2, 2, 0.5), true},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			ab := GJK(tc.a, tc.b)
			ba := GJK(tc.b, tc.a)
			assert.Equal(t, tc.want, ab.Overlap)
			assert.Equal(t, ab.Overlap, ba.Overlap)
			assert.False(t, ab.CapReached)
		})
	}
}

func TestCircleDepthExact(t *testing.T) {
	a := circle(t, 0, 0, 1)
	b := circle(t, 1.5, 0, 1)

	m, ok := Collide(a, b)
	require.True(t, ok)
	assert.InDelta(t, 0.5, m.Depth, 1e-4)
	assertVec(t, vmath.V2(1, 0), m.Normal, 1e-9)
	require.Equal(t, 1, m.Count)
	assertVec(t, vmath.V2(0.75, 0), m.Points[0], 1e-9)

	g, ok := CollideGJK(a, b)
	require.True(t, ok)
	assert.InDelta(t, 0.5, g.Depth, 1e-3)
	assertVec(t, vmath.V2(1, 0), g.Normal, 1e-2)
}

func TestTouchingIsNotCollision(t *testing.T) {
	_, ok := Collide(circle(t, 0, 0, 1), circle(t, 2, 0, 1))
	assert.False(t, ok)

	_, ok = Collide(box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 2, 0, 0))
	assert.False(t, ok)
}

func TestCoincidentCirclesUseFallbackNormal(t *testing.T) {
	small, big := circle(t, 1, 1, 1), circle(t, 1, 1, 2)
	m, ok := Collide(big, small)
	require.True(t, ok)
	assertVec(t, fallbackNormal, m.Normal, 0)
	assert.InDelta(t, 3, m.Depth, 1e-12)

	r, ok := Collide(small, big)
	require.True(t, ok)
	assertVec(t, fallbackNormal.Mul(-1), r.Normal, 0)
}

func TestBoxBoxManifold(t *testing.T) {
	m, ok := Collide(box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 1.5, 0, 0))
	require.True(t, ok)
	assertVec(t, vmath.V2(1, 0), m.Normal, 1e-9)
	assert.InDelta(t, 0.5, m.Depth, 1e-9)
	require.Equal(t, 2, m.Count)
	for _, p := range m.ContactPoints() {
		assert.InDelta(t, 0.75, p[0], 1e-9)
		assert.InDelta(t, 1, abs(p[1]), 1e-9)
	}
}

func triangle(t *testing.T, r, x, y, angle float64) shape.Shape {
	t.Helper()
	p, err := shape.NewPolygon(vmath.V2(r, 0), vmath.V2(-0.5*r, 0.866*r), vmath.V2(-0.5*r, -0.866*r))
	require.NoError(t, err)
	return p.Transform(vmath.NewTransform(vmath.V2(x, y), angle))
}

func assertFlipped(t *testing.T, a, b shape.Shape) (Manifold, bool) {
	t.Helper()
	ab, okAB := Collide(a, b)
	ba, okBA := Collide(b, a)
	require.Equal(t, okAB, okBA)
	if okAB {
		assertVec(t, ab.Normal.Mul(-1), ba.Normal, 1e-12)
		assert.InDelta(t, ab.Depth, ba.Depth, 1e-12)
		assert.Equal(t, ab.Count, ba.Count)
	}
	return ab, okAB
}

func TestReversedPairFlipsNormal(t *testing.T) {
	tests := []struct {
		name  string
		a, b  shape.Shape
		hit   bool
		depth float64 // checked when > 0
	}{
		{"box circle", box(t, 1, 1, 0, 0, 0), circle(t, 1.8, 0, 1), true, 0.2},
		{"circle circle", circle(t, 0, 0, 1), circle(t, 1.5, 0, 1), true, 0.5},
		{"edge circle", edge(t, -2, 0, 2, 0), circle(t, 0, 0.5, 1), true, 0.5},
		{"polygon circle", triangle(t, 1, 0, 0, 0.4), circle(t, 1, 0.3, 0.5), true, 0},
		{"box box", box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 1.5, 0, 0), true, 0.5},
		{"box box near tie", box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 1.5, 1.5+1e-5, 0), true, 0},
		{"rotated boxes", box(t, 1, 0.5, 0, 0, 0.7), box(t, 1, 1, 1.9, 0.4, -0.3), true, 0},
		{"polygon polygon", triangle(t, 1, 0, 0, 0), triangle(t, 1, 1.2, 0.1, 3.1), true, 0},
		{"polygon box", triangle(t, 1.2, 0, 0, 0.2), box(t, 0.5, 0.5, 1, 0.6, 0), true, 0},
		{"polygon edge", triangle(t, 1, 0, 0, 0), edge(t, 0.5, -1, 0.5, 1), true, 0},
		{"polygon edge near tie", box(t, 1, 1, 0, 0, 0), edge(t, 0.5, 1.4+1e-5, 1.4, 0.5), true, 0},
		{"box edge", box(t, 1, 1, 0, 0, 0), edge(t, -3, 0.5, 3, 0.5), true, 0},
		{"edges crossing", edge(t, -1, -1, 1, 1), edge(t, -1, 1, 1, -1), true, 0},
		{"edges t-junction", edge(t, -1, 0, 1, 0), edge(t, 0, -0.2, 0, 1), true, 0.2},
		{"edges collinear overlap", edge(t, -1, 0, 1, 0), edge(t, 0, 0, 2, 0), false, 0},
		{"edges parallel", edge(t, -1, 0, 1, 0), edge(t, -1, 0.5, 1, 0.5), false, 0},
		{"edges apart", edge(t, -1, 0, 1, 0), edge(t, 2, -1, 2, 1), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := assertFlipped(t, tt.a, tt.b)
			require.Equal(t, tt.hit, ok)
			if ok && tt.depth > 0 {
				assert.InDelta(t, tt.depth, m.Depth, 1e-9)
			}
		})
	}
}

func TestEdgeTJunctionManifold(t *testing.T) {
	m, ok := Collide(edge(t, -1, 0, 1, 0), edge(t, 0, -0.2, 0, 1))
	require.True(t, ok)
	assertVec(t, vmath.V2(0, 1), m.Normal, 1e-9)
	assert.InDelta(t, 0.2, m.Depth, 1e-9)
	require.Equal(t, 1, m.Count)
	assertVec(t, vmath.V2(0, -0.1), m.Points[0], 1e-9)
}

func TestReversedRandomPairsFlipNormal(t *testing.T) {
	rng := vmath.NewFastRand(7)
	random := func() shape.Shape {
		x, y, angle := rng.Range(-2, 2), rng.Range(-2, 2), rng.Range(0, 6.28)
		switch rng.Intn(4) {
		case 0:
			return circle(t, x, y, rng.Range(0.3, 1.5))
		case 1:
			return box(t, rng.Range(0.3, 1.5), rng.Range(0.3, 1.5), x, y, angle)
		case 2:
			return triangle(t, rng.Range(0.5, 1.5), x, y, angle)
		default:
			d := vmath.V2(1, 0).Mul(rng.Range(0.5, 2))
			return edge(t, x-d[0], y, x+d[0], y).Transform(vmath.NewTransform(vmath.Vec2{}, angle))
		}
	}

	hits := 0
	for i := 0; i < 2000; i++ {
		if _, ok := assertFlipped(t, random(), random()); ok {
			hits++
		}
	}
	assert.Positive(t, hits)
}

func TestFastPathsAgreeWithGJK(t *testing.T) {
	pairs := []struct {
		name string
		a, b shape.Shape
	}{
		{"box box", box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 1.5, 0.3, 0)},
		{"box circle", box(t, 1, 1, 0, 0, 0), circle(t, 1.8, 0.1, 1)},
		{"circle box", circle(t, -1.7, 0, 1), box(t, 1, 2, 0, 0, 0)},
		{"edge circle", edge(t, -2, 0, 2, 0), circle(t, 0, 0.5, 1)},
		{"box edge", box(t, 1, 1, 0, 0.8, 0), edge(t, -3, 0, 3, 0)},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			fast, ok := Collide(tc.a, tc.b)
			require.True(t, ok)
			slow, ok := CollideGJK(tc.a, tc.b)
			require.True(t, ok)

			assert.InDelta(t, fast.Depth, slow.Depth, 1e-3)
			assertVec(t, fast.Normal, slow.Normal, 1e-2)
			assert.GreaterOrEqual(t, fast.Depth, 0.0)
		})
	}
}

func TestEdgeCircleNormal(t *testing.T) {
	m, ok := Collide(edge(t, -2, 0, 2, 0), circle(t, 0, 0.5, 1))
	require.True(t, ok)
	assertVec(t, vmath.V2(0, 1), m.Normal, 1e-9)
	assert.InDelta(t, 0.5, m.Depth, 1e-9)
}

func TestDistance(t *testing.T) {
	res := Distance(circle(t, 0, 0, 1), circle(t, 5, 0, 1))
	require.False(t, res.Overlap)
	assert.InDelta(t, 3, res.Distance, 1e-6)
	assertVec(t, vmath.V2(1, 0), res.PointA, 1e-6)
	assertVec(t, vmath.V2(4, 0), res.PointB, 1e-6)

	res = Distance(box(t, 1, 1, 0, 0, 0), box(t, 1, 1, 4, 3, 0))
	require.False(t, res.Overlap)
	assert.InDelta(t, vmath.Distance(vmath.V2(1, 1), vmath.V2(3, 2)), res.Distance, 1e-6)

	res = Distance(box(t, 1, 1, 0, 0, 0), circle(t, 0.5, 0, 1))
	assert.True(t, res.Overlap)
}

func TestFlipAndPair(t *testing.T) {
	m := single(vmath.V2(0, 1), 0.3, vmath.V2(1, 2))
	m.A, m.B = 3, 7
	f := m.Flip()
	assert.Equal(t, core.Entity(7), f.A)
	assert.Equal(t, core.Entity(3), f.B)
	assertVec(t, vmath.V2(0, -1), f.Normal, 0)
	assert.Equal(t, m.Pair(), f.Pair())
}

func TestDetectorLogsCapHit(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	d := NewDetector(
		WithLogger(log.NewWithCore(obs, log.LevelDebug)),
		WithFastPaths(false),
		WithMaxIterations(1),
	)

	_, ok := d.Detect(11, circle(t, 0, 0, 1), 12, circle(t, 0.5, 0.3, 1))
	assert.False(t, ok, "cap is reported as no collision")

	stats := d.Stats()
	assert.Equal(t, uint64(1), stats.CapHits)
	assert.Equal(t, uint64(1), stats.GJKRuns)

	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, uint64(11), ctx["entity_a"])
	assert.Equal(t, uint64(12), ctx["entity_b"])

	d.ResetStats()
	assert.Zero(t, d.Stats())
}

func TestDetectorSetsEntities(t *testing.T) {
	d := NewDetector()
	m, ok := d.Detect(1, box(t, 1, 1, 0, 0, 0), 2, box(t, 1, 1, 0, 1.9, 0))
	require.True(t, ok)
	assert.Equal(t, core.Entity(1), m.A)
	assert.Equal(t, core.Entity(2), m.B)
	assertVec(t, vmath.V2(0, 1), m.Normal, 1e-9)
	assert.Zero(t, d.Stats().GJKRuns)
}

func TestDetectorReversedPairFlips(t *testing.T) {
	d := NewDetector()
	a := box(t, 1, 1, 0, 0, 0)
	b := box(t, 1, 1, 1.5, 1.5+1e-5, 0)

	ab, ok := d.Detect(1, a, 2, b)
	require.True(t, ok)
	ba, ok := d.Detect(2, b, 1, a)
	require.True(t, ok)

	assert.Equal(t, core.Entity(1), ab.A)
	assert.Equal(t, core.Entity(2), ba.A)
	assertVec(t, ab.Normal.Mul(-1), ba.Normal, 1e-12)
	assert.InDelta(t, ab.Depth, ba.Depth, 1e-12)
	assert.Equal(t, uint64(2), d.Stats().Tests)
}

func TestDetectSweptCatchesTunneling(t *testing.T) {
	d := NewDetector()
	bullet := circle(t, 0, 0, 0.1)
	wall := box(t, 0.05, 5, 3, 0, 0)

	_, ok := d.Detect(1, bullet, 2, wall)
	require.False(t, ok)

	m, ok := d.DetectSwept(1, bullet, vmath.V2(10, 0), 2, wall)
	require.True(t, ok)
	assertVec(t, vmath.V2(1, 0), m.Normal, 1e-3)
	assert.Zero(t, m.Depth)
	assert.InDelta(t, 2.85, m.Separation, 1e-4)

	_, ok = d.DetectSwept(1, bullet, vmath.V2(-10, 0), 2, wall)
	assert.False(t, ok, "moving away")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
