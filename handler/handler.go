// Package handler implements the draggable control point used by the modes.
package handler

import (
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
)

// DefaultThreshold is the default hit-test radius in screen units.
const DefaultThreshold = 10

// Projector maps world positions to screen positions.
type Projector interface {
	ProjectToScreen(p geom.Vec3) geom.Vec2
}

// Handler is a control point with a world position, a derived screen
// position, an enabled flag and a fixed set of drag directions.
//
// Handler does not manage its listeners. Whoever registers on it detaches.
type Handler struct {
	event.Entity

	proj       Projector
	position   geom.Vec3
	screen     geom.Vec2
	set        bool
	enabled    bool
	directions []event.Direction
	threshold  float64
}

// New creates a handler at the origin. proj may be nil, in which case the
// screen position mirrors X/Z.
func New(proj Projector, directions ...event.Direction) *Handler {
	h := &Handler{
		Entity:     event.NewEntity(),
		proj:       proj,
		directions: append([]event.Direction(nil), directions...),
		threshold:  DefaultThreshold,
		set:        true,
	}
	h.screen = h.project(h.position)
	return h
}

// Position returns a copy of the position. ok is false for a zero Handler
// that never had a position.
func (h *Handler) Position() (geom.Vec3, bool) {
	return h.position, h.set
}

// ScreenPosition returns the projected position.
func (h *Handler) ScreenPosition() geom.Vec2 {
	return h.screen
}

// SetPosition validates and stores p, reprojects it and emits
// PositionChanged. It emits even when p equals the current position.
func (h *Handler) SetPosition(p []float64) error {
	v, err := geom.Vec3FromSlice(p)
	if err != nil {
		return err
	}
	h.MoveTo(v)
	return nil
}

// MoveTo is SetPosition for an already validated vector. Non-finite vectors
// are ignored.
func (h *Handler) MoveTo(v geom.Vec3) {
	if !v.Finite() {
		return
	}
	var old *geom.Vec3
	if h.set {
		prev := h.position
		old = &prev
	}
	h.position = v
	h.set = true
	h.screen = h.project(v)
	h.Emit(event.PositionChanged{OldPosition: old, NewPosition: v, ScreenPosition: h.screen})
}

// Reproject recomputes the screen position after a camera change and emits
// PositionChanged with an unchanged world position.
func (h *Handler) Reproject() {
	if !h.set {
		return
	}
	h.MoveTo(h.position)
}

// SetEnabled stores the flag and emits StateChanged.
func (h *Handler) SetEnabled(enabled bool) {
	h.enabled = enabled
	h.Emit(event.StateChanged{IsEnabled: enabled, Position: h.position, ScreenPosition: h.screen})
}

func (h *Handler) IsEnabled() bool {
	return h.enabled
}

// Directions returns a copy of the permitted drag directions.
func (h *Handler) Directions() []event.Direction {
	return append([]event.Direction(nil), h.directions...)
}

// Allows reports whether d is one of the handler's drag directions.
func (h *Handler) Allows(d event.Direction) bool {
	for _, dir := range h.directions {
		if dir == d {
			return true
		}
	}
	return false
}

// Constrain keeps only the components of target along permitted directions;
// the rest come from the current position.
func (h *Handler) Constrain(target geom.Vec3) geom.Vec3 {
	out := h.position
	if h.Allows(event.DirX) {
		out.X = target.X
	}
	if h.Allows(event.DirY) {
		out.Y = target.Y
	}
	if h.Allows(event.DirZ) {
		out.Z = target.Z
	}
	return out
}

// setDirections replaces the direction set and emits DirectionsSet so gizmo
// layers can redraw.
func (h *Handler) setDirections(dirs ...event.Direction) {
	h.directions = append([]event.Direction(nil), dirs...)
	h.Emit(event.DirectionsSet{Directions: h.Directions()})
}

func (h *Handler) Threshold() float64 {
	return h.threshold
}

// SetThreshold ignores negative radii.
func (h *Handler) SetThreshold(r float64) {
	if r >= 0 {
		h.threshold = r
	}
}

// Hit reports whether screen is within the threshold of the handler.
func (h *Handler) Hit(screen geom.Vec2) bool {
	return h.screen.Dist(screen) <= h.threshold
}

func (h *Handler) project(p geom.Vec3) geom.Vec2 {
	if h.proj == nil {
		return geom.Vec2{X: p.X, Y: p.Z}
	}
	return h.proj.ProjectToScreen(p)
}
