package mode

import (
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/grid"
	"github.com/milk9111/worldmap/handler"
	"github.com/milk9111/worldmap/worldmap"
	"golang.org/x/image/colornames"
)

// Names of the location mode and its flow.
const (
	NameLocation     = "location"
	FlowDragLocation = "drag-location"
)

type locationHandle struct {
	h       *handler.Handler
	untrack func()
}

type locationDrag struct {
	id    string
	start geom.Vec3
}

// LocationMode places locations on pointer-down over empty space and drags
// existing ones by their handlers.
type LocationMode struct {
	base

	model *worldmap.Map
	layer *gfx.Layer
	vp    Viewport
	grid  *grid.Grid

	subs    event.Subscriptions
	handles map[string]*locationHandle
	drag    *locationDrag
}

// NewLocationMode creates the mode. g may be nil to place without snapping.
// layer receives the handler gizmos and is cleared on deactivation.
func NewLocationMode(model *worldmap.Map, layer *gfx.Layer, vp Viewport, g *grid.Grid, opts ...Option) *LocationMode {
	return &LocationMode{
		base:  newBase(NameLocation, opts),
		model: model,
		layer: layer,
		vp:    vp,
		grid:  g,
	}
}

func (m *LocationMode) Activate(n *Notifier) error {
	if err := m.attach(n); err != nil {
		return err
	}
	m.handles = make(map[string]*locationHandle)
	for _, loc := range m.model.Locations() {
		m.addHandle(loc)
	}
	event.Subscribe(&m.subs, m.model, func(ev event.EntityAdded) {
		if ev.Kind != event.KindLocation {
			return
		}
		if loc, ok := m.model.Location(ev.ID); ok {
			m.addHandle(loc)
		}
	})
	event.Subscribe(&m.subs, m.model, func(ev event.EntityChanged) {
		hd, ok := m.handles[ev.ID]
		if !ok {
			return
		}
		if loc, ok := m.model.Location(ev.ID); ok {
			hd.h.MoveTo(loc.Position)
		}
	})
	event.Subscribe(&m.subs, m.model, func(ev event.EntityRemoved) {
		if m.drag != nil && m.drag.id == ev.ID {
			m.drag = nil
			m.abortFlow()
		}
		m.removeHandle(ev.ID)
	})
	return nil
}

func (m *LocationMode) Deactivate() {
	if !m.Active() {
		return
	}
	m.cancelDrag()
	m.subs.Release()
	for id := range m.handles {
		m.removeHandle(id)
	}
	m.handles = nil
	m.layer.Clear()
	m.detach()
}

// Handler returns the handler of a location while the mode is active.
func (m *LocationMode) Handler(id string) (*handler.Handler, bool) {
	hd, ok := m.handles[id]
	if !ok {
		return nil, false
	}
	return hd.h, true
}

// Dragging returns the id of the location being dragged.
func (m *LocationMode) Dragging() (string, bool) {
	if m.drag == nil {
		return "", false
	}
	return m.drag.id, true
}

func (m *LocationMode) PointerDown(ev PointerEvent) {
	if !m.Active() || ev.Button != ButtonLeft || m.drag != nil {
		return
	}
	if id, ok := m.hit(ev.Screen); ok {
		loc, _ := m.model.Location(id)
		if !m.startFlow(FlowDragLocation) {
			return
		}
		m.drag = &locationDrag{id: id, start: loc.Position}
		return
	}
	m.model.AddLocation(m.snap(ev.World))
}

func (m *LocationMode) PointerMove(ev PointerEvent) {
	if m.drag == nil {
		return
	}
	hd, ok := m.handles[m.drag.id]
	if !ok {
		return
	}
	target := m.snap(hd.h.Constrain(ev.World))
	if err := m.model.MoveLocation(m.drag.id, target); err != nil {
		m.log.Warn().Err(err).Str("location", m.drag.id).Msg("move failed")
	}
}

func (m *LocationMode) PointerUp(ev PointerEvent) {
	if m.drag == nil {
		return
	}
	m.drag = nil
	m.endFlow()
}

func (m *LocationMode) KeyPress(ev KeyEvent) {
	if ev.Key == KeyEscape {
		m.cancelDrag()
	}
}

// cancelDrag puts a dragged location back where the drag began.
func (m *LocationMode) cancelDrag() {
	if m.drag == nil {
		return
	}
	d := m.drag
	m.drag = nil
	_ = m.model.MoveLocation(d.id, d.start)
	m.abortFlow()
}

func (m *LocationMode) hit(screen geom.Vec2) (string, bool) {
	locs := m.model.Locations()
	for i := len(locs) - 1; i >= 0; i-- {
		hd, ok := m.handles[locs[i].ID]
		if ok && hd.h.IsEnabled() && hd.h.Hit(screen) {
			return locs[i].ID, true
		}
	}
	return "", false
}

func (m *LocationMode) snap(p geom.Vec3) geom.Vec3 {
	if m.grid == nil {
		return p
	}
	return m.grid.Snap(p)
}

func (m *LocationMode) addHandle(loc worldmap.Location) {
	if _, ok := m.handles[loc.ID]; ok {
		return
	}
	h := handler.New(m.vp, event.DirX, event.DirZ)
	h.SetThreshold(m.threshold)
	id := loc.ID
	event.Subscribe(&m.subs, h, func(ev event.PositionChanged) {
		m.layer.Put(id, gizmo(ev.NewPosition, h))
	})
	event.Subscribe(&m.subs, h, func(ev event.StateChanged) {
		m.layer.Put(id, gizmo(ev.Position, h))
	})
	h.MoveTo(loc.Position)
	h.SetEnabled(true)
	m.handles[id] = &locationHandle{h: h, untrack: m.vp.Track(h)}
}

func (m *LocationMode) removeHandle(id string) {
	hd, ok := m.handles[id]
	if !ok {
		return
	}
	hd.untrack()
	m.subs.Drop(hd.h)
	delete(m.handles, id)
	m.layer.Remove(id)
}

func gizmo(at geom.Vec3, h *handler.Handler) gfx.Marker {
	c := colornames.Gold
	if !h.IsEnabled() {
		c = colornames.Gray
	}
	return gfx.Marker{At: at, Radius: h.Threshold(), Color: c, Ring: true}
}
