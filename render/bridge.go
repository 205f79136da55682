// Package render connects the frame loop, the camera and the handlers that
// must follow it.
package render

import (
	"math"

	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/handler"
)

// Backend advances the graphics system by one frame.
type Backend interface {
	Render(alpha float64)
}

// Camera is the viewport context the bridge projects through.
type Camera interface {
	event.Source
	ProjectToScreen(p geom.Vec3) geom.Vec2
	ProjectToWorld(s geom.Vec2) geom.Vec3
}

// Bridge forwards post-update frame calls to the backend and reprojects
// tracked handlers whenever the camera changes.
type Bridge struct {
	backend Backend
	cam     Camera
	camTok  event.Token
	tracked []*handler.Handler
	closed  bool
}

// NewBridge attaches to cam. Call Close to detach.
func NewBridge(backend Backend, cam Camera) *Bridge {
	b := &Bridge{backend: backend, cam: cam}
	b.camTok = event.Listen(cam, func(event.CameraChanged) { b.reproject() })
	return b
}

// Frame is called twice per tick by the game loop: before the update with
// isPostCall false and after it with isPostCall true. Only the post call
// reaches the backend; alpha is clamped to [0,1].
func (b *Bridge) Frame(isPostCall bool, alpha float64) {
	if !isPostCall || b.closed || b.backend == nil {
		return
	}
	b.backend.Render(clamp01(alpha))
}

// Track keeps h reprojected on camera changes until the returned function is
// called. Tracking the same handler twice is a no-op.
func (b *Bridge) Track(h *handler.Handler) (untrack func()) {
	if h == nil {
		return func() {}
	}
	for _, t := range b.tracked {
		if t == h {
			return func() { b.untrack(h) }
		}
	}
	b.tracked = append(b.tracked, h)
	return func() { b.untrack(h) }
}

// Tracked returns how many handlers follow the camera.
func (b *Bridge) Tracked() int { return len(b.tracked) }

func (b *Bridge) ProjectToScreen(p geom.Vec3) geom.Vec2 { return b.cam.ProjectToScreen(p) }

func (b *Bridge) ProjectToWorld(s geom.Vec2) geom.Vec3 { return b.cam.ProjectToWorld(s) }

// Close detaches from the camera and forgets every tracked handler.
func (b *Bridge) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.cam.Off(event.NameCameraChanged, b.camTok)
	b.tracked = nil
}

func (b *Bridge) untrack(h *handler.Handler) {
	for i, t := range b.tracked {
		if t == h {
			b.tracked = append(b.tracked[:i], b.tracked[i+1:]...)
			return
		}
	}
}

func (b *Bridge) reproject() {
	// a listener may untrack while we walk
	for _, h := range append([]*handler.Handler(nil), b.tracked...) {
		h.Reproject()
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
