// Package viewport holds the camera context handed to the render bridge and
// the modes. There is no package-level camera; every consumer gets one
// explicitly.
package viewport

import (
	"math"

	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Projection selects how world space maps to the screen plane.
type Projection int

const (
	// Isometric is the 2:1 isometric view used by the world map.
	Isometric Projection = iota
	// TopDown looks straight down the Y axis; used by the object editor.
	TopDown
)

func (p Projection) String() string {
	switch p {
	case Isometric:
		return "isometric"
	case TopDown:
		return "top-down"
	default:
		return "unknown"
	}
}

// DefaultScrollDuration is the scroll tween length in seconds.
const DefaultScrollDuration = 0.35

type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the viewport context: a position on the projected plane, a zoom
// factor and the viewport size. Every state change emits CameraChanged.
type Camera struct {
	event.Emitter

	x, y          float64
	zoom          float64
	width, height float64
	projection    Projection
	scroll        *scrollAnim
}

// Option configures a Camera.
type Option func(*Camera)

// WithProjection sets the projection. The default is Isometric.
func WithProjection(p Projection) Option {
	return func(c *Camera) { c.projection = p }
}

// WithZoom sets the initial zoom.
func WithZoom(z float64) Option {
	return func(c *Camera) {
		if z > 0 && !math.IsInf(z, 0) {
			c.zoom = z
		}
	}
}

// New creates a camera for a viewport of the given size, centred on the origin.
func New(width, height float64, opts ...Option) *Camera {
	c := &Camera{zoom: 1, width: width, height: height}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Camera) Projection() Projection { return c.projection }

// Position returns the camera position on the projected plane.
func (c *Camera) Position() (float64, float64) { return c.x, c.y }

func (c *Camera) Zoom() float64 { return c.zoom }

// Size returns the viewport size.
func (c *Camera) Size() (float64, float64) { return c.width, c.height }

// SetPosition moves the camera and cancels a running scroll.
func (c *Camera) SetPosition(x, y float64) {
	c.scroll = nil
	c.x, c.y = x, y
	c.changed()
}

// Move offsets the camera by dx, dy in screen units.
func (c *Camera) Move(dx, dy float64) {
	c.SetPosition(c.x+dx/c.zoom, c.y+dy/c.zoom)
}

// SetZoom ignores non-positive or non-finite values.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	c.zoom = z
	c.changed()
}

// Resize updates the viewport size, typically from the window layout.
func (c *Camera) Resize(width, height float64) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.changed()
}

// ScrollTo tweens the camera to x, y over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.x), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.y), float32(y), duration, easeFn),
	}
}

// Center scrolls back to the origin over duration seconds.
func (c *Camera) Center(duration float32) {
	c.ScrollTo(0, 0, duration, ease.OutQuad)
}

// Scrolling reports whether a scroll tween is running.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// Update advances a running scroll by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scroll == nil {
		return
	}
	prevX, prevY := c.x, c.y
	if !c.scroll.doneX {
		val, done := c.scroll.tweenX.Update(dt)
		c.x = float64(val)
		c.scroll.doneX = done
	}
	if !c.scroll.doneY {
		val, done := c.scroll.tweenY.Update(dt)
		c.y = float64(val)
		c.scroll.doneY = done
	}
	if c.scroll.doneX && c.scroll.doneY {
		c.scroll = nil
	}
	if c.x != prevX || c.y != prevY {
		c.changed()
	}
}

// ProjectToScreen maps a world position to screen coordinates. It is pure for
// a fixed camera state.
func (c *Camera) ProjectToScreen(p geom.Vec3) geom.Vec2 {
	px, py := c.toPlane(p)
	return geom.Vec2{
		X: (px-c.x)*c.zoom + c.width/2,
		Y: (py-c.y)*c.zoom + c.height/2,
	}
}

// ProjectToWorld maps a viewport position back onto the ground plane (Y = 0).
func (c *Camera) ProjectToWorld(s geom.Vec2) geom.Vec3 {
	px := (s.X-c.width/2)/c.zoom + c.x
	py := (s.Y-c.height/2)/c.zoom + c.y
	if c.projection == TopDown {
		return geom.Vec3{X: px, Z: py}
	}
	return geom.Vec3{X: py + px/2, Z: py - px/2}
}

func (c *Camera) toPlane(p geom.Vec3) (float64, float64) {
	if c.projection == TopDown {
		return p.X, p.Z
	}
	return p.X - p.Z, (p.X+p.Z)/2 - p.Y
}

func (c *Camera) changed() {
	c.Emit(event.CameraChanged{X: c.x, Y: c.y, Zoom: c.zoom})
}
