package mode

import (
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/geom"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/object"
	"golang.org/x/image/colornames"
)

// Names of the layer mode and its flow.
const (
	NameLayer     = "layer"
	FlowDragLayer = "drag-layer"
)

const outlineItem = "outline"

type layerDrag struct {
	id    string
	start geom.Vec2
	last  geom.Vec3
}

// LayerMode drags image layers by the pointer delta. Escape or deactivation
// mid-drag puts the layer back.
type LayerMode struct {
	base

	obj   *object.Object
	layer *gfx.Layer

	subs event.Subscriptions
	drag *layerDrag
}

// NewLayerMode creates the mode. overlay receives the outline of the layer
// under the pointer.
func NewLayerMode(obj *object.Object, overlay *gfx.Layer, opts ...Option) *LayerMode {
	return &LayerMode{
		base:  newBase(NameLayer, opts),
		obj:   obj,
		layer: overlay,
	}
}

func (m *LayerMode) Activate(n *Notifier) error {
	if err := m.attach(n); err != nil {
		return err
	}
	event.Subscribe(&m.subs, m.obj, func(ev event.LayerMoved) {
		if l, ok := m.obj.Layer(ev.ID); ok && m.drag != nil && m.drag.id == ev.ID {
			m.outline(l)
		}
	})
	event.Subscribe(&m.subs, m.obj, func(ev event.EntityRemoved) {
		if m.drag != nil && m.drag.id == ev.ID {
			m.drag = nil
			m.layer.Clear()
			m.abortFlow()
		}
	})
	return nil
}

func (m *LayerMode) Deactivate() {
	if !m.Active() {
		return
	}
	m.cancelDrag()
	m.subs.Release()
	m.layer.Clear()
	m.detach()
}

// Dragging returns the id of the layer being dragged.
func (m *LayerMode) Dragging() (string, bool) {
	if m.drag == nil {
		return "", false
	}
	return m.drag.id, true
}

func (m *LayerMode) PointerDown(ev PointerEvent) {
	if !m.Active() || ev.Button != ButtonLeft || m.drag != nil {
		return
	}
	l, ok := m.obj.LayerAt(planar(ev.World))
	if !ok {
		return
	}
	if !m.startFlow(FlowDragLayer) {
		return
	}
	m.drag = &layerDrag{id: l.ID, start: l.Position, last: ev.World}
	m.outline(l)
}

func (m *LayerMode) PointerMove(ev PointerEvent) {
	if !m.Active() {
		return
	}
	if m.drag == nil {
		if l, ok := m.obj.LayerAt(planar(ev.World)); ok {
			m.outline(l)
		} else {
			m.layer.Remove(outlineItem)
		}
		return
	}
	l, ok := m.obj.Layer(m.drag.id)
	if !ok {
		return
	}
	delta := planar(ev.World.Sub(m.drag.last))
	m.drag.last = ev.World
	_ = m.obj.MoveLayer(l.ID, l.Position.Add(delta))
}

func (m *LayerMode) PointerUp(ev PointerEvent) {
	if m.drag == nil {
		return
	}
	m.drag = nil
	m.endFlow()
}

func (m *LayerMode) KeyPress(ev KeyEvent) {
	if ev.Key == KeyEscape {
		m.cancelDrag()
	}
}

func (m *LayerMode) cancelDrag() {
	if m.drag == nil {
		return
	}
	d := m.drag
	m.drag = nil
	_ = m.obj.MoveLayer(d.id, d.start)
	m.abortFlow()
}

func (m *LayerMode) outline(l object.Layer) {
	x0, z0 := l.Position.X, l.Position.Y
	x1, z1 := x0+l.Size.X, z0+l.Size.Y
	m.layer.Put(outlineItem, gfx.Polyline{
		Points: []geom.Vec3{geom.V3(x0, 0, z0), geom.V3(x1, 0, z0), geom.V3(x1, 0, z1), geom.V3(x0, 0, z1)},
		Width:  2,
		Color:  colornames.Orange,
		Closed: true,
	})
}

// planar drops the height axis.
func planar(p geom.Vec3) geom.Vec2 {
	return geom.Vec2{X: p.X, Y: p.Z}
}
