package render

import (
	"math"

	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// CellAspect is the height of a terminal cell over its width
const CellAspect = 2.0

// Camera maps world units (y up) to terminal cells (y down)
type Camera struct {
	Center vmath.Vec2
	// Zoom is columns per world unit
	Zoom float64
}

// NewCamera returns a camera centered on c
func NewCamera(c vmath.Vec2, zoom float64) Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return Camera{Center: c, Zoom: zoom}
}

// ToScreen converts a world point to a cell in a w x h viewport
func (c Camera) ToScreen(p vmath.Vec2, w, h int) (x, y int) {
	d := p.Sub(c.Center)
	x = int(math.Floor(float64(w)/2 + d.X()*c.Zoom))
	y = int(math.Floor(float64(h)/2 - d.Y()*c.Zoom/CellAspect))
	return x, y
}

// ToWorld converts the center of a cell back to world space
func (c Camera) ToWorld(x, y, w, h int) vmath.Vec2 {
	dx := (float64(x) + 0.5 - float64(w)/2) / c.Zoom
	dy := (float64(h)/2 - float64(y) - 0.5) * CellAspect / c.Zoom
	return c.Center.Add(vmath.V2(dx, dy))
}

// Pan moves the camera by whole cells
func (c *Camera) Pan(dx, dy int) {
	c.Center = c.Center.Add(vmath.V2(float64(dx)/c.Zoom, -float64(dy)*CellAspect/c.Zoom))
}

// ZoomBy scales the zoom, clamped to a usable range
func (c *Camera) ZoomBy(f float64) {
	c.Zoom = vmath.Clamp(c.Zoom*f, 0.05, 200)
}

// Fit centers box in a w x h viewport with a one-cell margin
func (c *Camera) Fit(box shape.AABB, w, h int) {
	c.Center = box.Center()
	ext := box.Extents().Mul(2)
	if w <= 2 || h <= 2 || ext.X() <= 0 || ext.Y() <= 0 {
		return
	}
	zx := float64(w-2) / ext.X()
	zy := float64(h-2) * CellAspect / ext.Y()
	c.Zoom = math.Min(zx, zy)
}
