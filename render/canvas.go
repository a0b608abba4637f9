// Package render draws world snapshots onto a tcell screen.
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// slowSpeed below which a dynamic body is drawn dimmed
const slowSpeed = 0.05

// HUD is the status line content
type HUD struct {
	Session string
	Paused  bool
	FPS     float64
	Steps   uint64
	Dropped int
}

// Canvas rasterizes snapshots; not thread-safe, drive it from the render goroutine
type Canvas struct {
	screen tcell.Screen
	Camera Camera

	// ShowCenters marks body centroids
	ShowCenters bool
	// contact points from the last step, cleared by Draw
	contacts []vmath.Vec2

	w, h int
}

// NewCanvas creates a canvas over screen
func NewCanvas(screen tcell.Screen, cam Camera) *Canvas {
	return &Canvas{screen: screen, Camera: cam, ShowCenters: true}
}

// MarkContact records a contact point to draw on the next frame
func (c *Canvas) MarkContact(p vmath.Vec2) {
	c.contacts = append(c.contacts, p)
}

// Draw clears the screen, renders every body and the HUD, then shows the frame
func (c *Canvas) Draw(snap engine.Snapshot, hud HUD) {
	c.w, c.h = c.screen.Size()
	base := tcell.StyleDefault.Background(RgbBackground)
	c.screen.Fill(' ', base)

	// Static first so moving bodies stay visible on top
	for pass := 0; pass < 2; pass++ {
		for _, b := range snap.Bodies {
			if b.Static != (pass == 0) {
				continue
			}
			c.drawBody(b, base)
		}
	}

	contactStyle := base.Foreground(RgbContact)
	for _, p := range c.contacts {
		c.plot(p, 'x', contactStyle)
	}
	c.contacts = c.contacts[:0]

	c.drawHUD(snap, hud, base)
	c.screen.Show()
}

func (c *Canvas) drawBody(b engine.BodySnapshot, base tcell.Style) {
	style := base.Foreground(RgbDynamic)
	// Zero picks a glyph from the line slope
	var ch rune
	circ := 'o'
	switch {
	case b.Sensor:
		style = base.Foreground(RgbSensor)
		ch, circ = '.', '.'
	case b.Static:
		style = base.Foreground(RgbStatic)
	case b.Velocity.Len() < slowSpeed && math.Abs(b.AngularVelocity) < slowSpeed:
		style = base.Foreground(RgbSleepy)
	}

	switch b.Kind {
	case shape.KindCircle.String():
		c.circle(b.Center, b.Radius, b.Rotation, circ, style)
	case shape.KindEdge.String():
		if len(b.Outline) == 2 {
			c.line(b.Outline[0], b.Outline[1], ch, style)
		}
	default:
		n := len(b.Outline)
		for i := 0; i < n; i++ {
			c.line(b.Outline[i], b.Outline[(i+1)%n], ch, style)
		}
	}

	if c.ShowCenters && !b.Static {
		c.plot(b.Center, '+', base.Foreground(RgbCenter))
	}
}

// circle samples the outline densely enough to leave no gaps, plus a spoke showing rotation
func (c *Canvas) circle(center vmath.Vec2, r, rot float64, ch rune, style tcell.Style) {
	steps := int(math.Max(8, math.Ceil(2*math.Pi*r*c.Camera.Zoom*2)))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.plot(center.Add(vmath.V2(math.Cos(a), math.Sin(a)).Mul(r)), ch, style)
	}
	if r*c.Camera.Zoom >= 3 {
		tip := center.Add(vmath.Rotate(vmath.V2(r, 0), rot))
		c.line(center, tip, 0, style)
	}
}

// line walks cells from a to b with Bresenham
func (c *Canvas) line(a, b vmath.Vec2, ch rune, style tcell.Style) {
	x0, y0 := c.Camera.ToScreen(a, c.w, c.h)
	x1, y1 := c.Camera.ToScreen(b, c.w, c.h)
	if ch == 0 {
		ch = slopeRune(x1-x0, y1-y0)
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, ch, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func slopeRune(dx, dy int) rune {
	switch {
	case dx == 0 && dy == 0:
		return '*'
	case abs(dy)*2 < abs(dx):
		return '-'
	case abs(dx)*2 < abs(dy):
		return '|'
	case (dx > 0) == (dy > 0):
		// Screen y grows downward
		return '\\'
	default:
		return '/'
	}
}

func (c *Canvas) plot(p vmath.Vec2, ch rune, style tcell.Style) {
	x, y := c.Camera.ToScreen(p, c.w, c.h)
	c.set(x, y, ch, style)
}

// set writes inside the viewport, leaving the bottom row to the HUD
func (c *Canvas) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h-1 {
		return
	}
	c.screen.SetContent(x, y, ch, nil, style)
}

func (c *Canvas) drawHUD(snap engine.Snapshot, hud HUD, base tcell.Style) {
	if c.h == 0 {
		return
	}
	state := "running"
	style := base.Foreground(RgbStatusBar)
	if hud.Paused {
		state = "PAUSED"
		style = base.Foreground(RgbPaused)
	}
	text := fmt.Sprintf(" %s | step %d | bodies %d | %.0f fps | zoom %.2f",
		state, snap.Step, len(snap.Bodies), hud.FPS, c.Camera.Zoom)
	if hud.Dropped > 0 {
		text += fmt.Sprintf(" | dropped %d", hud.Dropped)
	}
	if hud.Session != "" {
		text += " | " + hud.Session
	}
	for i, r := range []rune(text) {
		if i >= c.w {
			break
		}
		c.screen.SetContent(i, c.h-1, r, nil, style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
