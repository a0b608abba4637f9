package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func cell(screen tcell.Screen, x, y int) rune {
	mainc, _, _, _ := screen.GetContent(x, y)
	return mainc
}

func row(screen tcell.Screen, y, w int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(cell(screen, x, y))
	}
	return sb.String()
}

func TestCameraRoundTrip(t *testing.T) {
	cam := NewCamera(vmath.V2(3, -2), 4)
	for _, p := range [][2]int{{0, 0}, {10, 5}, {39, 19}} {
		wp := cam.ToWorld(p[0], p[1], 40, 20)
		x, y := cam.ToScreen(wp, 40, 20)
		assert.Equal(t, p[0], x)
		assert.Equal(t, p[1], y)
	}

	// World y up is screen y down
	_, yHigh := cam.ToScreen(vmath.V2(3, 5), 40, 20)
	_, yLow := cam.ToScreen(vmath.V2(3, -5), 40, 20)
	assert.Less(t, yHigh, yLow)
}

func TestCameraFit(t *testing.T) {
	var cam Camera
	cam.Fit(shape.NewAABB(vmath.V2(-10, 0), vmath.V2(10, 5)), 42, 22)
	assert.Equal(t, vmath.V2(0, 2.5), cam.Center)
	// 40 columns over 20 units wide, rows allow 80 units after aspect
	assert.InDelta(t, 2.0, cam.Zoom, 1e-9)

	cam.ZoomBy(1000)
	assert.Equal(t, 200.0, cam.Zoom)
}

func TestCanvasDrawsEdge(t *testing.T) {
	screen := newScreen(t, 40, 20)
	c := NewCanvas(screen, NewCamera(vmath.Vec2{}, 2))

	snap := engine.Snapshot{Step: 7, Bodies: []engine.BodySnapshot{{
		Entity:  1,
		Kind:    shape.KindEdge.String(),
		Static:  true,
		Outline: []vmath.Vec2{vmath.V2(-5, 0), vmath.V2(5, 0)},
	}}}
	c.Draw(snap, HUD{})

	for x := 10; x <= 30; x++ {
		assert.Equal(t, '-', cell(screen, x, 10), "x=%d", x)
	}
	assert.Equal(t, ' ', cell(screen, 9, 10))
	assert.Contains(t, row(screen, 19, 40), "step 7")
}

func TestCanvasDrawsCircleAndCenter(t *testing.T) {
	screen := newScreen(t, 40, 20)
	c := NewCanvas(screen, NewCamera(vmath.Vec2{}, 2))

	snap := engine.Snapshot{Bodies: []engine.BodySnapshot{{
		Entity: 1,
		Kind:   shape.KindCircle.String(),
		Center: vmath.V2(0, 0),
		Radius: 4,
	}}}
	c.Draw(snap, HUD{Paused: true, Session: "abc"})

	assert.Equal(t, '+', cell(screen, 20, 10))
	// Leftmost point of the outline
	assert.Equal(t, 'o', cell(screen, 12, 10))

	hud := row(screen, 19, 40)
	assert.Contains(t, hud, "PAUSED")
}

func TestCanvasSensorAndContacts(t *testing.T) {
	screen := newScreen(t, 40, 20)
	c := NewCanvas(screen, NewCamera(vmath.Vec2{}, 2))
	c.ShowCenters = false

	box, err := shape.NewBox(2, 2)
	require.NoError(t, err)
	snap := engine.Snapshot{Bodies: []engine.BodySnapshot{{
		Entity:  1,
		Kind:    box.Kind().String(),
		Sensor:  true,
		Outline: box.Vertices(),
	}}}
	c.MarkContact(vmath.V2(8, 0))
	c.Draw(snap, HUD{})

	// Bottom edge of the box at y=-2 lands on row 12
	assert.Equal(t, '.', cell(screen, 20, 12))
	assert.Equal(t, 'x', cell(screen, 36, 10))

	// Contacts are one frame only
	c.Draw(snap, HUD{})
	assert.Equal(t, ' ', cell(screen, 36, 10))
}

func TestSlopeRune(t *testing.T) {
	assert.Equal(t, '-', slopeRune(10, 1))
	assert.Equal(t, '|', slopeRune(0, 5))
	assert.Equal(t, '\\', slopeRune(3, 3))
	assert.Equal(t, '/', slopeRune(3, -3))
	assert.Equal(t, '*', slopeRune(0, 0))
}
