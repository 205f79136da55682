package mode

import (
	"image/color"

	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/worldmap"
	"golang.org/x/image/colornames"
)

const NameDelete = "delete"

const hoverItem = "hover"

// DeleteMode removes the location or path under the pointer. The entity
// under the pointer is highlighted in layer.
type DeleteMode struct {
	base

	model *worldmap.Map
	layer *gfx.Layer
	vp    Viewport
	hover string
}

func NewDeleteMode(model *worldmap.Map, layer *gfx.Layer, vp Viewport, opts ...Option) *DeleteMode {
	return &DeleteMode{
		base:  newBase(NameDelete, opts),
		model: model,
		layer: layer,
		vp:    vp,
	}
}

func (m *DeleteMode) Activate(n *Notifier) error {
	return m.attach(n)
}

func (m *DeleteMode) Deactivate() {
	if !m.Active() {
		return
	}
	m.hover = ""
	m.layer.Clear()
	m.detach()
}

func (m *DeleteMode) PointerMove(ev PointerEvent) {
	if !m.Active() {
		return
	}
	id, kind := pickEntity(m.model, m.vp, ev.Screen, m.threshold)
	if id == m.hover {
		return
	}
	m.hover = id
	if id == "" {
		m.layer.Remove(hoverItem)
		return
	}
	m.layer.Put(hoverItem, highlight(m.model, id, kind, colornames.Red, m.threshold))
}

func (m *DeleteMode) PointerDown(ev PointerEvent) {
	if !m.Active() || ev.Button != ButtonLeft {
		return
	}
	id, _ := pickEntity(m.model, m.vp, ev.Screen, m.threshold)
	if id == "" {
		return
	}
	if err := m.model.Remove(id); err != nil {
		m.log.Warn().Err(err).Str("entity", id).Msg("delete failed")
		return
	}
	m.log.Debug().Str("entity", id).Msg("entity deleted")
	m.hover = ""
	m.layer.Remove(hoverItem)
}

// highlight builds the overlay item for an entity.
func highlight(model *worldmap.Map, id string, kind event.Kind, c color.RGBA, r float64) gfx.Item {
	switch kind {
	case event.KindLocation:
		loc, _ := model.Location(id)
		return gfx.Marker{At: loc.Position, Radius: r * 1.5, Color: c, Ring: true}
	default:
		p, _ := model.Path(id)
		return gfx.Polyline{Points: p.Waypoints, Width: 3, Color: c}
	}
}
