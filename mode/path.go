package mode

import (
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/worldmap"
	"golang.org/x/image/colornames"
)

// Names of the path mode and its flow.
const (
	NamePath     = "path"
	FlowDrawPath = "draw-path"
)

// Draft layer item ids.
const (
	draftRubberBand = "rubber-band"
	draftSnap       = "snap"
)

// PathMode draws paths. The first pointer-down opens the draw-path flow and
// creates the path; every further pointer-down appends a waypoint. A double
// click or Enter finishes the path, Escape discards it. Waypoints placed
// within the threshold of a location snap to it.
type PathMode struct {
	base

	model *worldmap.Map
	layer *gfx.Layer
	vp    Viewport

	subs  event.Subscriptions
	draft string
}

// NewPathMode creates the mode. layer receives the rubber band preview.
func NewPathMode(model *worldmap.Map, layer *gfx.Layer, vp Viewport, opts ...Option) *PathMode {
	return &PathMode{
		base:  newBase(NamePath, opts),
		model: model,
		layer: layer,
		vp:    vp,
	}
}

func (m *PathMode) Activate(n *Notifier) error {
	if err := m.attach(n); err != nil {
		return err
	}
	event.Subscribe(&m.subs, m.model, func(ev event.EntityRemoved) {
		// the draft was deleted from elsewhere, e.g. by an import
		if ev.ID == m.draft {
			m.draft = ""
			m.layer.Clear()
			m.abortFlow()
		}
	})
	return nil
}

func (m *PathMode) Deactivate() {
	if !m.Active() {
		return
	}
	m.discard()
	m.subs.Release()
	m.layer.Clear()
	m.detach()
}

// Draft returns the id of the path being drawn.
func (m *PathMode) Draft() (string, bool) {
	return m.draft, m.draft != ""
}

func (m *PathMode) PointerDown(ev PointerEvent) {
	if !m.Active() || ev.Button != ButtonLeft {
		return
	}
	at, attach := m.snapToLocation(ev)
	if m.draft == "" {
		if ev.Clicks >= 2 {
			return
		}
		if !m.startFlow(FlowDrawPath) {
			return
		}
		m.draft = m.model.AddPath().ID
		m.append(at, attach)
		return
	}
	// the first press of the double click already placed this waypoint
	if ev.Clicks >= 2 {
		m.Finish()
		return
	}
	m.append(at, attach)
}

func (m *PathMode) PointerMove(ev PointerEvent) {
	if m.draft == "" {
		return
	}
	path, ok := m.model.Path(m.draft)
	if !ok || len(path.Waypoints) == 0 {
		return
	}
	at, attach := m.snapToLocation(ev)
	last := path.Waypoints[len(path.Waypoints)-1]
	m.layer.Put(draftRubberBand, gfx.Polyline{
		Points: []geom.Vec3{last, at},
		Width:  1,
		Color:  colornames.Lightskyblue,
	})
	if attach != "" {
		m.layer.Put(draftSnap, gfx.Marker{At: at, Radius: m.threshold, Color: colornames.Lime, Ring: true})
	} else {
		m.layer.Remove(draftSnap)
	}
}

func (m *PathMode) KeyPress(ev KeyEvent) {
	switch {
	case ev.IsEnter():
		m.Finish()
	case ev.Key == KeyEscape:
		m.discard()
	}
}

// Finish closes the draft. A path with fewer than two waypoints is
// discarded instead.
func (m *PathMode) Finish() {
	if m.draft == "" {
		return
	}
	path, ok := m.model.Path(m.draft)
	if !ok || len(path.Waypoints) < 2 {
		m.discard()
		return
	}
	m.draft = ""
	m.layer.Clear()
	m.endFlow()
}

// discard removes the draft path and aborts the flow.
func (m *PathMode) discard() {
	if m.draft == "" {
		return
	}
	id := m.draft
	m.draft = ""
	if _, ok := m.model.Path(id); ok {
		_ = m.model.RemovePath(id)
	}
	m.layer.Clear()
	m.abortFlow()
}

func (m *PathMode) append(at geom.Vec3, attach string) {
	if err := m.model.AppendWaypoint(m.draft, at, attach); err != nil {
		m.log.Warn().Err(err).Str("path", m.draft).Msg("append waypoint failed")
	}
}

func (m *PathMode) snapToLocation(ev PointerEvent) (geom.Vec3, string) {
	if loc, ok := pickLocation(m.model, m.vp, ev.Screen, m.threshold); ok {
		return loc.Position, loc.ID
	}
	return ev.World, ""
}
